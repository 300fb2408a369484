package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/queryir"
)

func TestCompile_AllEntries(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Entries())
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, ids_name, occurrence, dd_version, content_hash, seq FROM entries WHERE 1 = 1 ORDER BY ids_name COLLATE BINARY ASC, occurrence ASC",
		sql)
	assert.Empty(t, params)
}

func TestCompile_Select(t *testing.T) {
	query := queryir.Entries(
		queryir.Equals{Field: "ids_name", Value: "core_profiles"},
		queryir.Equals{Field: "occurrence", Value: 2},
	)

	sql, params, err := NewSQLCompiler().Compile(query)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM entries WHERE ids_name = ? AND occurrence = ?")
	assert.Contains(t, sql, "ORDER BY") // Every query is ordered
	assert.Contains(t, sql, "COLLATE BINARY")

	// Values are parameters, never interpolated
	assert.NotContains(t, sql, "core_profiles")
	assert.Equal(t, []any{"core_profiles", 2}, params)
}

func TestCompile_SelectPointer(t *testing.T) {
	query := &queryir.Select{
		From:   queryir.TableEntries,
		Filter: &queryir.Equals{Field: "dd_version", Value: "3.38.1"},
	}

	sql, params, err := NewSQLCompiler().Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE dd_version = ?")
	assert.Equal(t, []any{"3.38.1"}, params)
}

func TestCompile_NestedAnd(t *testing.T) {
	query := queryir.Select{
		From: queryir.TableEntries,
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "ids_name", Value: "wall"},
			queryir.And{Predicates: []queryir.Predicate{
				queryir.Equals{Field: "occurrence", Value: 0},
				queryir.Equals{Field: "dd_version", Value: "3.39.0"},
			}},
			queryir.And{},
		}},
	}

	sql, params, err := NewSQLCompiler().Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE ids_name = ? AND (occurrence = ? AND dd_version = ?) AND (1 = 1)")
	assert.Equal(t, []any{"wall", 0, "3.39.0"}, params)
}

func TestCompile_Join(t *testing.T) {
	query := queryir.Join{
		Left:  queryir.Entries(queryir.Equals{Field: "ids_name", Value: "core_profiles"}),
		Right: queryir.Variables(queryir.Equals{Field: "name", Value: "global_quantities.ip"}),
	}

	sql, params, err := NewSQLCompiler().Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT e.id, e.ids_name, e.occurrence, e.dd_version, e.content_hash, e.seq FROM entries e "+
			"WHERE e.ids_name = ? AND EXISTS (SELECT 1 FROM variables v WHERE v.entry_id = e.id AND v.name = ?) "+
			"ORDER BY e.ids_name COLLATE BINARY ASC, e.occurrence ASC",
		sql)
	assert.Equal(t, []any{"core_profiles", "global_quantities.ip"}, params)
}

func TestCompile_JoinWithoutFilters(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(&queryir.Join{Left: queryir.Entries(), Right: queryir.Variables()})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 1 AND EXISTS (SELECT 1 FROM variables v WHERE v.entry_id = e.id AND 1 = 1)")
	assert.Empty(t, params)
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query queryir.Query
	}{
		{"nil", nil},
		{"variables", queryir.Variables()},
		{"unknown field", queryir.Entries(queryir.Equals{Field: "id; DROP TABLE entries", Value: "x"})},
		{"wrong type", queryir.Entries(queryir.Equals{Field: "occurrence", Value: "0"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(tt.query)
			require.Error(t, err)
			var qe *queryir.QueryError
			assert.ErrorAs(t, err, &qe)
			assert.Empty(t, sql)
			assert.Nil(t, params)
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	query := queryir.Join{
		Left:  queryir.Entries(queryir.Equals{Field: "ids_name", Value: "wall"}),
		Right: queryir.Variables(queryir.Equals{Field: "kind", Value: "FLT"}),
	}
	c := NewSQLCompiler()
	first, _, err := c.Compile(query)
	require.NoError(t, err)
	for range 10 {
		again, _, err := c.Compile(query)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
