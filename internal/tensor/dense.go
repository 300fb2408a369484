package tensor

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/idsgo/internal/ir"
)

// Element is the set of element types a tensor can hold.
type Element interface {
	int32 | float64 | complex128 | string
}

// Dense is a row-major N-dimensional array. A 0-D Dense holds one value.
type Dense[T Element] struct {
	shape   []int
	strides []int
	data    []T
}

// New returns a zero-valued tensor of the given shape.
func New[T Element](shape ...int) *Dense[T] {
	d := &Dense[T]{shape: slices.Clone(shape)}
	d.strides = stridesOf(d.shape)
	d.data = make([]T, sizeOf(d.shape))
	return d
}

// Full returns a tensor of the given shape with every element set to v.
func Full[T Element](v T, shape ...int) *Dense[T] {
	d := New[T](shape...)
	for i := range d.data {
		d.data[i] = v
	}
	return d
}

// Scalar returns a 0-D tensor holding v.
func Scalar[T Element](v T) *Dense[T] {
	return &Dense[T]{data: []T{v}}
}

// FromSlice wraps data (not copied) as a tensor of the given shape.
func FromSlice[T Element](data []T, shape ...int) (*Dense[T], error) {
	if n := sizeOf(shape); n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Dense[T]{shape: slices.Clone(shape), strides: stridesOf(shape), data: data}, nil
}

// Vector returns a 1-D tensor over a copy of values.
func Vector[T Element](values ...T) *Dense[T] {
	d, _ := FromSlice(slices.Clone(values), len(values))
	return d
}

func sizeOf(shape []int) int {
	n := 1
	for _, s := range shape {
		if s < 0 {
			panic(fmt.Sprintf("tensor: negative extent in shape %v", shape))
		}
		n *= s
	}
	return n
}

func stridesOf(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// Kind returns the Data Dictionary type of the elements.
func (d *Dense[T]) Kind() ir.DataType {
	return kindOf[T]()
}

func kindOf[T Element]() ir.DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return ir.Integer
	case float64:
		return ir.Float
	case complex128:
		return ir.Complex
	default:
		return ir.String
	}
}

// Shape returns a copy of the extents.
func (d *Dense[T]) Shape() []int { return slices.Clone(d.shape) }

// NDim returns the number of dimensions.
func (d *Dense[T]) NDim() int { return len(d.shape) }

// Size returns the number of elements.
func (d *Dense[T]) Size() int { return len(d.data) }

// Data returns the backing slice in row-major order.
func (d *Dense[T]) Data() []T { return d.data }

// Values returns the backing slice as any.
func (d *Dense[T]) Values() any { return d.data }

// At returns the element at idx. len(idx) must equal NDim.
func (d *Dense[T]) At(idx ...int) T {
	return d.data[d.offset(idx)]
}

// Set stores v at idx. len(idx) must equal NDim.
func (d *Dense[T]) Set(v T, idx ...int) {
	d.data[d.offset(idx)] = v
}

func (d *Dense[T]) offset(idx []int) int {
	if len(idx) > len(d.shape) {
		panic(fmt.Sprintf("tensor: index %v has more dimensions than shape %v", idx, d.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, d.shape))
		}
		off += v * d.strides[i]
	}
	return off
}

// Clone returns a deep copy.
func (d *Dense[T]) Clone() Tensor {
	return d.clone()
}

func (d *Dense[T]) clone() *Dense[T] {
	return &Dense[T]{shape: slices.Clone(d.shape), strides: slices.Clone(d.strides), data: slices.Clone(d.data)}
}

// Sub returns a copy of the block selected by fixing the leading
// dimensions to prefix.
func (d *Dense[T]) Sub(prefix []int) (Tensor, error) {
	if len(prefix) > len(d.shape) {
		return nil, fmt.Errorf("prefix %v longer than shape %v", prefix, d.shape)
	}
	for i, v := range prefix {
		if v < 0 || v >= d.shape[i] {
			return nil, fmt.Errorf("prefix %v out of range for shape %v", prefix, d.shape)
		}
	}
	start := d.offset(prefix)
	rest := d.shape[len(prefix):]
	n := sizeOf(rest)
	out, _ := FromSlice(slices.Clone(d.data[start:start+n]), rest...)
	return out, nil
}

// Truncate returns a copy of the leading corner of the given shape.
func (d *Dense[T]) Truncate(shape []int) (Tensor, error) {
	if len(shape) != len(d.shape) {
		return nil, fmt.Errorf("cannot truncate shape %v to %v", d.shape, shape)
	}
	for i, s := range shape {
		if s < 0 || s > d.shape[i] {
			return nil, fmt.Errorf("cannot truncate shape %v to %v", d.shape, shape)
		}
	}
	out := New[T](shape...)
	forEachIndex(shape, func(idx []int) {
		out.data[out.offset(idx)] = d.data[d.offset(idx)]
	})
	return out, nil
}

// Assign copies src into the block at prefix. The block has the trailing
// dimensions of d; src must have the same number of dimensions and may be
// smaller in each, in which case only the leading corner is written.
func (d *Dense[T]) Assign(prefix []int, src Tensor) error {
	s, ok := src.(*Dense[T])
	if !ok {
		return fmt.Errorf("cannot assign %s tensor to %s tensor", src.Kind(), d.Kind())
	}
	if len(prefix)+s.NDim() != len(d.shape) {
		return fmt.Errorf("cannot assign shape %v at %v into shape %v", s.shape, prefix, d.shape)
	}
	block := d.shape[len(prefix):]
	for i, n := range s.shape {
		if n > block[i] {
			return fmt.Errorf("cannot assign shape %v at %v into shape %v", s.shape, prefix, d.shape)
		}
	}
	for i, v := range prefix {
		if v < 0 || v >= d.shape[i] {
			return fmt.Errorf("prefix %v out of range for shape %v", prefix, d.shape)
		}
	}
	full := make([]int, len(d.shape))
	copy(full, prefix)
	forEachIndex(s.shape, func(idx []int) {
		copy(full[len(prefix):], idx)
		d.data[d.offset(full)] = s.data[s.offset(idx)]
	})
	return nil
}

// forEachIndex calls fn with every index of shape in row-major order.
// The slice passed to fn is reused between calls.
func forEachIndex(shape []int, fn func([]int)) {
	if sizeOf(shape) == 0 {
		return
	}
	idx := make([]int, len(shape))
	for {
		fn(idx)
		i := len(shape) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

// Equal reports whether o has the same kind, shape and elements. NaN
// equals NaN.
func (d *Dense[T]) Equal(o Tensor) bool {
	other, ok := o.(*Dense[T])
	if !ok || !slices.Equal(d.shape, other.shape) {
		return false
	}
	for i := range d.data {
		if !elementEqual(d.data[i], other.data[i]) {
			return false
		}
	}
	return true
}

func elementEqual[T Element](a, b T) bool {
	if a == b {
		return true
	}
	switch x := any(a).(type) {
	case float64:
		return math.IsNaN(x) && math.IsNaN(any(b).(float64))
	case complex128:
		y := any(b).(complex128)
		return sameFloat(real(x), real(y)) && sameFloat(imag(x), imag(y))
	}
	return false
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func (d *Dense[T]) String() string {
	return fmt.Sprintf("%s%v%v", d.Kind(), d.shape, d.data)
}
