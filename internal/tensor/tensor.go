package tensor

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
)

// Tensor is the type-erased view of a Dense tensor.
type Tensor interface {
	Kind() ir.DataType
	Shape() []int
	NDim() int
	Size() int
	// Values returns the row-major backing slice: []int32, []float64,
	// []complex128 or []string.
	Values() any
	Clone() Tensor
	Sub(prefix []int) (Tensor, error)
	Truncate(shape []int) (Tensor, error)
	Assign(prefix []int, src Tensor) error
	Equal(other Tensor) bool
}

var (
	_ Tensor = (*Dense[int32])(nil)
	_ Tensor = (*Dense[float64])(nil)
	_ Tensor = (*Dense[complex128])(nil)
	_ Tensor = (*Dense[string])(nil)
)

// NewFilled returns a tensor of the given kind and shape with every element
// set to the kind's fill value.
func NewFilled(kind ir.DataType, shape []int) (Tensor, error) {
	switch kind {
	case ir.Integer:
		return Full(ir.FillInt, shape...), nil
	case ir.Float:
		return Full(ir.FillFloat, shape...), nil
	case ir.Complex:
		return Full(ir.FillComplex, shape...), nil
	case ir.String:
		return Full("", shape...), nil
	}
	return nil, fmt.Errorf("no tensor representation for %s", kind)
}

// NewEmpty returns a tensor of the given kind holding the document-level
// empty value: the empty sentinel for 0-D, zero extent otherwise.
func NewEmpty(kind ir.DataType, ndim int) (Tensor, error) {
	if ndim == 0 {
		switch kind {
		case ir.Integer:
			return Scalar(ir.EmptyInt), nil
		case ir.Float:
			return Scalar(ir.EmptyFloat), nil
		case ir.Complex:
			return Scalar(ir.EmptyComplex), nil
		case ir.String:
			return Scalar(""), nil
		}
		return nil, fmt.Errorf("no tensor representation for %s", kind)
	}
	return NewZeros(kind, make([]int, ndim))
}

// NewZeros returns a zero-valued tensor of the given kind and shape.
func NewZeros(kind ir.DataType, shape []int) (Tensor, error) {
	switch kind {
	case ir.Integer:
		return New[int32](shape...), nil
	case ir.Float:
		return New[float64](shape...), nil
	case ir.Complex:
		return New[complex128](shape...), nil
	case ir.String:
		return New[string](shape...), nil
	}
	return nil, fmt.Errorf("no tensor representation for %s", kind)
}

// FromValues wraps values, one of the slice types returned by
// Tensor.Values, as a tensor of the given shape.
func FromValues(values any, shape []int) (Tensor, error) {
	switch v := values.(type) {
	case []int32:
		return FromSlice(v, shape...)
	case []float64:
		return FromSlice(v, shape...)
	case []complex128:
		return FromSlice(v, shape...)
	case []string:
		return FromSlice(v, shape...)
	}
	return nil, fmt.Errorf("unsupported tensor values %T", values)
}

// IsFillScalar reports whether the single element of a 0-D tensor equals
// the fill value of its kind.
func IsFillScalar(t Tensor) bool {
	if t.Size() != 1 {
		return false
	}
	switch v := t.Values().(type) {
	case []int32:
		return v[0] == ir.FillInt
	case []float64:
		return ir.IsFillFloat(v[0])
	case []complex128:
		return ir.IsFillFloat(real(v[0])) && ir.IsFillFloat(imag(v[0]))
	case []string:
		return v[0] == ""
	}
	return false
}

// IsEmptyScalar reports whether the single element of a 0-D tensor equals
// the empty sentinel of its kind.
func IsEmptyScalar(t Tensor) bool {
	if t.NDim() != 0 {
		return false
	}
	switch v := t.Values().(type) {
	case []int32:
		return v[0] == ir.EmptyInt
	case []float64:
		return ir.IsEmptyFloat(v[0])
	case []complex128:
		return v[0] == ir.EmptyComplex
	case []string:
		return v[0] == ""
	}
	return false
}

// Equal reports whether a and b are both nil or hold identical data.
func Equal(a, b Tensor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
