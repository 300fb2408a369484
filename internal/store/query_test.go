package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/queryir"
	"github.com/roach88/idsgo/internal/tensor"
)

// seedQueryStore stores core_profiles 0 and 1 and wall 0. Occurrence 1 of
// core_profiles uses an older dictionary and has no spectrum.
func seedQueryStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	ctx := context.Background()

	put := func(name string, occ int, set *tensor.Set) {
		t.Helper()
		if _, err := s.PutTensorSet(ctx, name, occ, set); err != nil {
			t.Fatalf("PutTensorSet(%s, %d) failed: %v", name, occ, err)
		}
	}

	put("core_profiles", 0, createTestSet(t))

	legacy := tensor.NewSet()
	if err := legacy.AddDimension("time", 1); err != nil {
		t.Fatal(err)
	}
	legacy.SetAttr(tensor.AttrDDVersion, "3.38.1")
	if err := legacy.AddVariable(&tensor.Variable{
		Name: "time", Kind: ir.Float, Dims: []string{"time"},
		Data: tensor.Vector(0.0),
	}); err != nil {
		t.Fatal(err)
	}
	put("core_profiles", 1, legacy)

	put("wall", 0, createTestSet(t))
	return s
}

type occurrence struct {
	name string
	occ  int
}

func occurrences(entries []EntryInfo) []occurrence {
	out := []occurrence{}
	for _, e := range entries {
		out = append(out, occurrence{e.IDSName, e.Occurrence})
	}
	return out
}

func TestQueryEntries(t *testing.T) {
	s := seedQueryStore(t)

	tests := []struct {
		name  string
		query queryir.Query
		want  []occurrence
	}{
		{
			name:  "all",
			query: queryir.Entries(),
			want:  []occurrence{{"core_profiles", 0}, {"core_profiles", 1}, {"wall", 0}},
		},
		{
			name:  "by IDS",
			query: queryir.Entries(queryir.Equals{Field: "ids_name", Value: "wall"}),
			want:  []occurrence{{"wall", 0}},
		},
		{
			name:  "by version",
			query: queryir.Entries(queryir.Equals{Field: "dd_version", Value: "3.38.1"}),
			want:  []occurrence{{"core_profiles", 1}},
		},
		{
			name: "by occurrence",
			query: queryir.Entries(
				queryir.Equals{Field: "occurrence", Value: 0},
			),
			want: []occurrence{{"core_profiles", 0}, {"wall", 0}},
		},
		{
			name: "storing a variable",
			query: queryir.Join{
				Left:  queryir.Entries(),
				Right: queryir.Variables(queryir.Equals{Field: "name", Value: "spectrum"}),
			},
			want: []occurrence{{"core_profiles", 0}, {"wall", 0}},
		},
		{
			name: "storing a variable of one IDS",
			query: queryir.Join{
				Left:  queryir.Entries(queryir.Equals{Field: "ids_name", Value: "core_profiles"}),
				Right: queryir.Variables(queryir.Equals{Field: "name", Value: "time"}),
			},
			want: []occurrence{{"core_profiles", 0}, {"core_profiles", 1}},
		},
		{
			name: "joined entries appear once",
			query: queryir.Join{
				Left:  queryir.Entries(queryir.Equals{Field: "ids_name", Value: "wall"}),
				Right: queryir.Variables(),
			},
			want: []occurrence{{"wall", 0}},
		},
		{
			name:  "no match",
			query: queryir.Entries(queryir.Equals{Field: "ids_name", Value: "equilibrium"}),
			want:  []occurrence{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.QueryEntries(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("QueryEntries() failed: %v", err)
			}
			if got := occurrences(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryEntries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryEntries_MatchesList(t *testing.T) {
	s := seedQueryStore(t)
	ctx := context.Background()

	listed, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries() failed: %v", err)
	}
	queried, err := s.QueryEntries(ctx, queryir.Entries())
	if err != nil {
		t.Fatalf("QueryEntries() failed: %v", err)
	}
	if !reflect.DeepEqual(listed, queried) {
		t.Errorf("QueryEntries() = %v, want %v", queried, listed)
	}
}

func TestQueryEntries_Invalid(t *testing.T) {
	s := createTestStore(t)

	_, err := s.QueryEntries(context.Background(), queryir.Entries(queryir.Equals{Field: "seq", Value: 1}))
	var qe *queryir.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("QueryEntries() error = %v, want QueryError", err)
	}
}
