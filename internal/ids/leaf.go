package ids

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/tensor"
)

// Leaf holds a value of the node's element type. The value always has
// exactly Meta().NDim dimensions: 0-D leaves start at the empty sentinel,
// N-D leaves start with zero extent.
type Leaf struct {
	meta   *metadata.Node
	parent *Structure
	value  tensor.Tensor
}

func newLeaf(meta *metadata.Node, parent *Structure) (*Leaf, error) {
	v, err := tensor.NewEmpty(meta.Type, meta.NDim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Path, err)
	}
	return &Leaf{meta: meta, parent: parent, value: v}, nil
}

// Meta implements Node.
func (l *Leaf) Meta() *metadata.Node { return l.meta }

// Parent implements Node.
func (l *Leaf) Parent() Node { return l.parent }

// Shape returns the extents of the value; empty for 0-D leaves.
func (l *Leaf) Shape() []int { return l.value.Shape() }

// Len returns the extent of the first dimension, or 0 for 0-D leaves.
func (l *Leaf) Len() int {
	if l.meta.NDim == 0 {
		return 0
	}
	return l.value.Shape()[0]
}

// IsEmpty reports whether a 0-D leaf holds the empty sentinel or an N-D
// leaf holds no elements.
func (l *Leaf) IsEmpty() bool {
	if l.meta.NDim == 0 {
		return tensor.IsEmptyScalar(l.value)
	}
	return l.value.Size() == 0
}

// Value returns the current value. Callers must not modify it.
func (l *Leaf) Value() tensor.Tensor { return l.value }

// Clear resets the leaf to its empty value.
func (l *Leaf) Clear() {
	v, _ := tensor.NewEmpty(l.meta.Type, l.meta.NDim)
	l.value = v
}

// SetTensor replaces the value. Kind and dimensionality must match the
// metadata.
func (l *Leaf) SetTensor(t tensor.Tensor) error {
	if t.Kind() != l.meta.Type {
		return fmt.Errorf("%s: cannot assign %s value to %s", l.meta.Path, t.Kind(), l.meta.Type)
	}
	if t.NDim() != l.meta.NDim {
		return fmt.Errorf("%s: cannot assign %d-dimensional value to %s", l.meta.Path, t.NDim(),
			ir.FormatDataType(l.meta.Type, l.meta.NDim))
	}
	l.value = t
	return nil
}

// SetFloat sets a FLT_0D leaf.
func (l *Leaf) SetFloat(v float64) error { return l.SetTensor(tensor.Scalar(v)) }

// SetFloats sets a FLT_1D leaf.
func (l *Leaf) SetFloats(v ...float64) error { return l.SetTensor(tensor.Vector(v...)) }

// SetInt sets an INT_0D leaf.
func (l *Leaf) SetInt(v int32) error { return l.SetTensor(tensor.Scalar(v)) }

// SetInts sets an INT_1D leaf.
func (l *Leaf) SetInts(v ...int32) error { return l.SetTensor(tensor.Vector(v...)) }

// SetComplex sets a CPX_0D leaf.
func (l *Leaf) SetComplex(v complex128) error { return l.SetTensor(tensor.Scalar(v)) }

// SetComplexes sets a CPX_1D leaf.
func (l *Leaf) SetComplexes(v ...complex128) error { return l.SetTensor(tensor.Vector(v...)) }

// SetString sets a STR_0D leaf.
func (l *Leaf) SetString(v string) error { return l.SetTensor(tensor.Scalar(v)) }

// SetStrings sets a STR_1D leaf.
func (l *Leaf) SetStrings(v ...string) error { return l.SetTensor(tensor.Vector(v...)) }

// Int returns the value of an INT_0D leaf.
func (l *Leaf) Int() (int32, bool) {
	v, ok := l.value.Values().([]int32)
	if !ok || l.meta.NDim != 0 {
		return 0, false
	}
	return v[0], true
}

// Float returns the value of a FLT_0D leaf.
func (l *Leaf) Float() (float64, bool) {
	v, ok := l.value.Values().([]float64)
	if !ok || l.meta.NDim != 0 {
		return 0, false
	}
	return v[0], true
}

// Floats returns the elements of a float leaf in row-major order.
func (l *Leaf) Floats() []float64 {
	v, _ := l.value.Values().([]float64)
	return v
}

// SetValue converts v to the leaf's type and assigns it. It accepts
// tensors, Go scalars, typed slices, and the nested []any lists produced
// by YAML and JSON decoders. Complex numbers may be given as strings
// ("1+2i").
func (l *Leaf) SetValue(v any) error {
	if t, ok := v.(tensor.Tensor); ok {
		return l.SetTensor(t)
	}
	t, err := convert(l.meta.Type, l.meta.NDim, v)
	if err != nil {
		return fmt.Errorf("%s: %w", l.meta.Path, err)
	}
	return l.SetTensor(t)
}
