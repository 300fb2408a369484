package tensor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
)

// Attribute names shared by the codec and the storage backends.
const (
	AttrSparse        = "sparse"
	AttrCoordinates   = "coordinates"
	AttrDocumentation = "documentation"
	AttrUnits         = "units"

	AttrConventions = "Conventions"
	AttrDDVersion   = "data_dictionary_version"
	AttrIDSName     = "ids_name"
)

// ShapeSuffix is appended to a variable name to form the name of its shape
// side-table.
const ShapeSuffix = ":shape"

// Dimension is a named axis of a Set.
type Dimension struct {
	Name string
	Size int
}

// Variable is one named array of a Set.
type Variable struct {
	Name string
	// Kind is the element type. Structure and StructArray variables carry
	// metadata only and have nil Data.
	Kind  ir.DataType
	Dims  []string
	Data  Tensor
	Attrs map[string]string
}

// IsShapeTable reports whether v is the shape side-table of another variable.
func (v *Variable) IsShapeTable() bool {
	return strings.HasSuffix(v.Name, ShapeSuffix)
}

// IsSparse reports whether v carries the sparse attribute.
func (v *Variable) IsSparse() bool {
	_, ok := v.Attrs[AttrSparse]
	return ok
}

// ShapeName returns the name of v's shape side-table.
func (v *Variable) ShapeName() string {
	return v.Name + ShapeSuffix
}

// Describe returns the canonical description of v without its data, used
// for content hashing.
func (v *Variable) Describe() map[string]any {
	attrs := make(map[string]any, len(v.Attrs))
	for k, val := range v.Attrs {
		attrs[k] = val
	}
	desc := map[string]any{
		"name":       v.Name,
		"kind":       v.Kind.String(),
		"dims":       slices.Clone(v.Dims),
		"attributes": attrs,
	}
	if v.Data != nil {
		desc["shape"] = intsToAny(v.Data.Shape())
	}
	return desc
}

func intsToAny(ints []int) []any {
	out := make([]any, len(ints))
	for i, n := range ints {
		out[i] = n
	}
	return out
}

// Set is a named collection of dimensions, variables and global
// attributes. Insertion order is preserved.
type Set struct {
	dims     []Dimension
	dimIndex map[string]int
	vars     []*Variable
	varIndex map[string]int
	attrs    map[string]string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		dimIndex: make(map[string]int),
		varIndex: make(map[string]int),
		attrs:    make(map[string]string),
	}
}

// AddDimension declares a dimension. Redeclaring with the same size is a
// no-op; a different size is an error.
func (s *Set) AddDimension(name string, size int) error {
	if size < 0 {
		return fmt.Errorf("dimension %q: negative size %d", name, size)
	}
	if i, ok := s.dimIndex[name]; ok {
		if s.dims[i].Size != size {
			return fmt.Errorf("dimension %q redeclared with size %d, was %d", name, size, s.dims[i].Size)
		}
		return nil
	}
	s.dimIndex[name] = len(s.dims)
	s.dims = append(s.dims, Dimension{Name: name, Size: size})
	return nil
}

// Dimensions returns the dimensions in declaration order.
func (s *Set) Dimensions() []Dimension {
	return slices.Clone(s.dims)
}

// DimensionSize returns the size of the named dimension.
func (s *Set) DimensionSize(name string) (int, bool) {
	i, ok := s.dimIndex[name]
	if !ok {
		return 0, false
	}
	return s.dims[i].Size, true
}

// AddVariable appends v. Its dimensions must already exist and its data,
// when present, must match their sizes.
func (s *Set) AddVariable(v *Variable) error {
	if v.Name == "" {
		return fmt.Errorf("variable without name")
	}
	if _, dup := s.varIndex[v.Name]; dup {
		return fmt.Errorf("duplicate variable %q", v.Name)
	}
	shape := make([]int, len(v.Dims))
	for i, dim := range v.Dims {
		size, ok := s.DimensionSize(dim)
		if !ok {
			return fmt.Errorf("variable %q: unknown dimension %q", v.Name, dim)
		}
		shape[i] = size
	}
	if v.Data != nil {
		if v.Data.Kind() != v.Kind {
			return fmt.Errorf("variable %q: %s data for %s variable", v.Name, v.Data.Kind(), v.Kind)
		}
		if !slices.Equal(v.Data.Shape(), shape) {
			return fmt.Errorf("variable %q: data shape %v does not match dimensions %v %v",
				v.Name, v.Data.Shape(), v.Dims, shape)
		}
	} else if v.Kind.IsScalar() {
		return fmt.Errorf("variable %q: %s variable without data", v.Name, v.Kind)
	}
	if v.Attrs == nil {
		v.Attrs = make(map[string]string)
	}
	s.varIndex[v.Name] = len(s.vars)
	s.vars = append(s.vars, v)
	return nil
}

// Variable returns the named variable.
func (s *Set) Variable(name string) (*Variable, bool) {
	i, ok := s.varIndex[name]
	if !ok {
		return nil, false
	}
	return s.vars[i], true
}

// Variables returns the variables in insertion order.
func (s *Set) Variables() []*Variable {
	return slices.Clone(s.vars)
}

// Names returns the variable names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, len(s.vars))
	for i, v := range s.vars {
		names[i] = v.Name
	}
	return names
}

// SetAttr sets a global attribute.
func (s *Set) SetAttr(key, value string) {
	s.attrs[key] = value
}

// Attr returns a global attribute.
func (s *Set) Attr(key string) (string, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

// Attrs returns a copy of the global attributes.
func (s *Set) Attrs() map[string]string {
	out := make(map[string]string, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// Header returns the canonical description of dimensions and global
// attributes, used for content hashing.
func (s *Set) Header() map[string]any {
	dims := make([]any, len(s.dims))
	for i, d := range s.dims {
		dims[i] = map[string]any{"name": d.Name, "size": d.Size}
	}
	attrs := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		attrs[k] = v
	}
	return map[string]any{"dimensions": dims, "attributes": attrs}
}

// Canonical returns the full Set, data included, as a value accepted by
// ir.MarshalCanonical.
func (s *Set) Canonical() map[string]any {
	vars := make([]any, len(s.vars))
	for i, v := range s.vars {
		desc := v.Describe()
		if v.Data != nil {
			desc["values"] = canonicalValues(v.Data)
		}
		vars[i] = desc
	}
	out := s.Header()
	out["variables"] = vars
	return out
}

func canonicalValues(t Tensor) any {
	switch v := t.Values().(type) {
	case []complex128:
		out := make([]any, len(v))
		for i, c := range v {
			out[i] = []any{real(c), imag(c)}
		}
		return out
	default:
		return v
	}
}
