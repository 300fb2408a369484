package store

import (
	"context"

	"github.com/roach88/idsgo/internal/queryir"
	"github.com/roach88/idsgo/internal/querysql"
)

// QueryEntries returns the stored occurrences selected by q, ordered by IDS
// name, then occurrence. Returns a *queryir.QueryError for invalid queries.
func (s *Store) QueryEntries(ctx context.Context, q queryir.Query) ([]EntryInfo, error) {
	sql, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("query entries", "sql", sql, "params", len(params))

	return s.queryEntries(ctx, sql, params...)
}
