// Package querysql compiles entry catalog queries to parameterized SQLite
// SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/idsgo/internal/queryir"
)

// EntryColumns are the columns every compiled query selects, in order.
var EntryColumns = []string{"id", "ids_name", "occurrence", "dd_version", "content_hash", "seq"}

// SQLCompiler compiles queryir queries to parameterized SQL for SQLite.
//
// Every query is ordered by IDS name, then occurrence. Values are always
// bound as parameters; field names come from the validated query.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error). The query is validated first.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, err
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	case queryir.Join:
		return c.compileJoin(query)
	case *queryir.Join:
		return c.compileJoin(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect compiles a Select on entries.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	where, params, err := c.compilePredicate(q.Filter, "")
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM entries WHERE %s ORDER BY %s",
		columnList(""), where, stableOrderKey(""))
	return sql, params, nil
}

// compileJoin compiles a Join to a semi-join: each entry with a matching
// variable is returned once.
func (c *SQLCompiler) compileJoin(j queryir.Join) (string, []any, error) {
	left, _ := queryir.AsSelect(j.Left)
	right, _ := queryir.AsSelect(j.Right)

	leftSQL, leftParams, err := c.compilePredicate(left.Filter, "e")
	if err != nil {
		return "", nil, fmt.Errorf("compile left filter: %w", err)
	}
	rightSQL, rightParams, err := c.compilePredicate(right.Filter, "v")
	if err != nil {
		return "", nil, fmt.Errorf("compile right filter: %w", err)
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM entries e WHERE %s AND EXISTS (SELECT 1 FROM variables v WHERE v.entry_id = e.id AND %s) ORDER BY %s",
		columnList("e"), leftSQL, rightSQL, stableOrderKey("e"))
	return sql, append(leftParams, rightParams...), nil
}

// compilePredicate compiles a predicate to a WHERE fragment. Fields are
// qualified with alias when it is not empty.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate, alias string) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil // Always true
	case queryir.Equals:
		return compileEquals(pred, alias), []any{pred.Value}, nil
	case *queryir.Equals:
		return compileEquals(*pred, alias), []any{pred.Value}, nil
	case queryir.And:
		return c.compileAnd(pred, alias)
	case *queryir.And:
		return c.compileAnd(*pred, alias)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileEquals compiles an Equals predicate to "field = ?".
func compileEquals(eq queryir.Equals, alias string) string {
	return qualify(alias, eq.Field) + " = ?"
}

// compileAnd compiles an And predicate to a conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And, alias string) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, p, err := c.compilePredicate(pred, alias)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		if _, nested := pred.(*queryir.And); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// stableOrderKey returns the ORDER BY clause. COLLATE BINARY keeps text
// ordering identical across SQLite builds.
func stableOrderKey(alias string) string {
	return qualify(alias, "ids_name") + " COLLATE BINARY ASC, " + qualify(alias, "occurrence") + " ASC"
}

func columnList(alias string) string {
	cols := make([]string, len(EntryColumns))
	for i, col := range EntryColumns {
		cols[i] = qualify(alias, col)
	}
	return strings.Join(cols, ", ")
}

func qualify(alias, field string) string {
	if alias == "" {
		return field
	}
	return alias + "." + field
}
