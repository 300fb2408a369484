package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idsgo/internal/ir"
)

func TestNewFilled(t *testing.T) {
	tests := []struct {
		kind ir.DataType
		want any
	}{
		{ir.Integer, []int32{ir.FillInt, ir.FillInt}},
		{ir.Float, []float64{ir.FillFloat, ir.FillFloat}},
		{ir.Complex, []complex128{ir.FillComplex, ir.FillComplex}},
		{ir.String, []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			tn, err := NewFilled(tt.kind, []int{2})
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tn.Kind())
			assert.Equal(t, tt.want, tn.Values())
		})
	}

	_, err := NewFilled(ir.Structure, []int{1})
	assert.Error(t, err)
}

func TestNewEmpty(t *testing.T) {
	f, err := NewEmpty(ir.Float, 0)
	require.NoError(t, err)
	assert.True(t, IsEmptyScalar(f))

	i, err := NewEmpty(ir.Integer, 0)
	require.NoError(t, err)
	assert.True(t, IsEmptyScalar(i))

	v, err := NewEmpty(ir.Float, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, v.Shape())
	assert.False(t, IsEmptyScalar(v))
}

func TestFillScalars(t *testing.T) {
	assert.True(t, IsFillScalar(Scalar(ir.FillFloat)))
	assert.True(t, IsFillScalar(Scalar(ir.FillInt)))
	assert.True(t, IsFillScalar(Scalar(ir.FillComplex)))
	assert.True(t, IsFillScalar(Scalar("")))
	assert.False(t, IsFillScalar(Scalar(ir.EmptyFloat)))
	assert.False(t, IsFillScalar(Vector(ir.FillFloat, ir.FillFloat)))
}

func TestFromValues(t *testing.T) {
	tn, err := FromValues([]complex128{1, 2i}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, ir.Complex, tn.Kind())

	_, err = FromValues([]bool{true}, []int{1})
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Tensor
	}{
		{"int", Vector[int32](1, -2, ir.FillInt)},
		{"float", Vector(0.5, ir.FillFloat, -9e40)},
		{"complex", Vector(complex(1, 2), ir.FillComplex)},
		{"string", Vector("a", "", "bb", "ünïcode")},
		{"scalar", Scalar(3.0)},
		{"empty", New[float64](0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalBinary(tt.in)
			out, err := UnmarshalBinary(tt.in.Kind(), tt.in.Shape(), data)
			require.NoError(t, err)
			assert.True(t, tt.in.Equal(out), "got %v", out)
		})
	}
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	_, err := UnmarshalBinary(ir.Float, []int{2}, make([]byte, 15))
	assert.Error(t, err)

	_, err = UnmarshalBinary(ir.String, []int{1}, []byte{5, 'a'})
	assert.Error(t, err)

	_, err = UnmarshalBinary(ir.String, []int{1}, []byte{1, 'a', 'b'})
	assert.Error(t, err)

	_, err = UnmarshalBinary(ir.StructArray, nil, nil)
	assert.Error(t, err)
}
