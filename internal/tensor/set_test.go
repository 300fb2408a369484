package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/ir"
)

func TestSetDimensions(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddDimension("time", 3))
	require.NoError(t, s.AddDimension("time", 3), "same size is a no-op")
	assert.Error(t, s.AddDimension("time", 4))
	assert.Error(t, s.AddDimension("bad", -1))

	size, ok := s.DimensionSize("time")
	require.True(t, ok)
	assert.Equal(t, 3, size)
	assert.Equal(t, []Dimension{{"time", 3}}, s.Dimensions())
}

func TestSetVariables(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddDimension("time", 2))

	require.NoError(t, s.AddVariable(&Variable{
		Name: "time", Kind: ir.Float, Dims: []string{"time"}, Data: Vector(0.0, 1.0),
	}))
	require.NoError(t, s.AddVariable(&Variable{Name: "profiles_1d", Kind: ir.StructArray}))

	tests := []struct {
		name string
		v    *Variable
		msg  string
	}{
		{"duplicate", &Variable{Name: "time", Kind: ir.Float, Dims: []string{"time"}, Data: Vector(0.0, 1.0)}, "duplicate"},
		{"unknown dim", &Variable{Name: "x", Kind: ir.Float, Dims: []string{"x"}, Data: Vector(0.0)}, "unknown dimension"},
		{"shape", &Variable{Name: "x", Kind: ir.Float, Dims: []string{"time"}, Data: Vector(0.0)}, "does not match"},
		{"kind", &Variable{Name: "x", Kind: ir.Integer, Dims: []string{"time"}, Data: Vector(0.0, 1.0)}, "data for"},
		{"missing data", &Variable{Name: "x", Kind: ir.Float}, "without data"},
		{"no name", &Variable{Kind: ir.Structure}, "without name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddVariable(tt.v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	assert.Equal(t, []string{"time", "profiles_1d"}, s.Names())
	v, ok := s.Variable("profiles_1d")
	require.True(t, ok)
	assert.NotNil(t, v.Attrs)
	assert.Equal(t, "profiles_1d:shape", v.ShapeName())
	assert.False(t, v.IsSparse())
}

func TestSetCanonical(t *testing.T) {
	s := NewSet()
	s.SetAttr(AttrConventions, ir.Conventions)
	require.NoError(t, s.AddDimension("x", 1))
	require.NoError(t, s.AddVariable(&Variable{
		Name: "c", Kind: ir.Complex, Dims: []string{"x"}, Data: Vector(complex(1, 2)),
		Attrs: map[string]string{AttrUnits: "m"},
	}))

	out, err := ir.MarshalCanonical(s.Canonical())
	require.NoError(t, err)
	assert.Equal(t,
		`{"attributes":{"Conventions":"IMAS"},"dimensions":[{"name":"x","size":1}],`+
			`"variables":[{"attributes":{"units":"m"},"dims":["x"],"kind":"CPX","name":"c","shape":[1],"values":[[1.0,2.0]]}]}`,
		string(out))
}
