package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSet builds a small tensor set covering every variable kind.
func createTestSet(t *testing.T) *tensor.Set {
	t.Helper()
	set := tensor.NewSet()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build test set: %v", err)
		}
	}

	must(set.AddDimension("time", 3))
	must(set.AddDimension("species", 2))
	must(set.AddDimension("empty", 0))
	set.SetAttr(tensor.AttrConventions, ir.Conventions)
	set.SetAttr(tensor.AttrDDVersion, "3.39.0")
	set.SetAttr(tensor.AttrIDSName, "core_profiles")

	must(set.AddVariable(&tensor.Variable{
		Name: "ids_properties", Kind: ir.Structure,
		Attrs: map[string]string{tensor.AttrDocumentation: "Interface Data Structure properties"},
	}))
	must(set.AddVariable(&tensor.Variable{
		Name: "ids_properties.homogeneous_time", Kind: ir.Integer,
		Data: tensor.Scalar[int32](1),
	}))
	must(set.AddVariable(&tensor.Variable{
		Name: "time", Kind: ir.Float, Dims: []string{"time"},
		Data:  tensor.Vector(0.0, 0.5, 1.0),
		Attrs: map[string]string{tensor.AttrUnits: "s"},
	}))
	must(set.AddVariable(&tensor.Variable{
		Name: "species", Kind: ir.String, Dims: []string{"species"},
		Data: tensor.Vector("D", "Tritium"),
	}))
	must(set.AddVariable(&tensor.Variable{
		Name: "spectrum", Kind: ir.Complex, Dims: []string{"species"},
		Data: tensor.Vector(complex(1, 2), complex(3, -4)),
	}))
	must(set.AddVariable(&tensor.Variable{
		Name: "code.output_flag", Kind: ir.Integer, Dims: []string{"empty"},
		Data: tensor.New[int32](0),
	}))
	return set
}

// canonical renders a set as canonical JSON for comparison.
func canonical(t *testing.T, set *tensor.Set) string {
	t.Helper()
	data, err := ir.MarshalCanonical(set.Canonical())
	if err != nil {
		t.Fatalf("MarshalCanonical() failed: %v", err)
	}
	return string(data)
}
