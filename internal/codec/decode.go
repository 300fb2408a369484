package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/tensor"
)

// Decoder fills documents from tensor sets.
type Decoder struct {
	logger  *slog.Logger
	skipped []*CodecError
}

// NewDecoder returns a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	cfg := newConfig(opts)
	return &Decoder{logger: cfg.logger}
}

// Decode fills doc from set with a default Decoder.
func Decode(set *tensor.Set, doc *ids.IDS, opts ...Option) error {
	return NewDecoder(opts...).Decode(set, doc)
}

// Skipped returns the variables the last Decode call could not map onto
// the document.
func (d *Decoder) Skipped() []*CodecError {
	return d.skipped
}

// decoding is the state of one Decode call.
type decoding struct {
	*Decoder
	set    *tensor.Set
	doc    *ids.IDS
	tree   *metadata.Tree
	layout *Layout
}

// Decode fills doc, normally a fresh document, from set. Variables are
// applied in schema pre-order so that arrays of structures are resized
// before the quantities inside them. Variables that do not fit the schema
// of doc are logged, recorded in Skipped and ignored.
func (d *Decoder) Decode(set *tensor.Set, doc *ids.IDS) error {
	d.skipped = nil
	if name, ok := set.Attr(tensor.AttrIDSName); ok && name != doc.Name() {
		return fmt.Errorf("tensor set holds IDS %q, not %q", name, doc.Name())
	}
	if v, ok := set.Attr(tensor.AttrDDVersion); ok && ir.DDVersion(v) != doc.Version() {
		d.logger.Warn("decoding tensor set of another Data Dictionary version",
			"ids", doc.Name(), "stored", v, "target", doc.Version())
	}

	tree := doc.Tree()
	dec := &decoding{
		Decoder: d,
		set:     set,
		doc:     doc,
		tree:    tree,
		layout:  NewLayout(tree, homogeneousTime(set)),
	}
	used := make(map[string]bool)
	err := tree.Walk(func(meta *metadata.Node) error {
		if meta.IsRoot() {
			return nil
		}
		v, ok := set.Variable(meta.Dotted())
		if !ok {
			return nil
		}
		used[v.Name] = true
		used[v.ShapeName()] = true
		err := dec.variable(meta, v)
		var ce *CodecError
		if errors.As(err, &ce) {
			d.skip(ce)
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", doc.Name(), err)
	}

	for _, name := range set.Names() {
		if !used[name] {
			d.skip(&CodecError{Variable: name, Message: "no such node in " + doc.Name()})
		}
	}
	d.logger.Debug("decoded IDS", "ids", doc.Name(), "variables", len(set.Names()), "skipped", len(d.skipped))
	return nil
}

func (d *Decoder) skip(err *CodecError) {
	d.skipped = append(d.skipped, err)
	d.logger.Warn("skipping variable", "variable", err.Variable, "error", err.Error())
}

// homogeneousTime reads the time mode stored in set.
func homogeneousTime(set *tensor.Set) bool {
	v, ok := set.Variable(metadata.DottedPath(ir.TimeModePath))
	if !ok || v.Data == nil {
		return false
	}
	values, ok := v.Data.Values().([]int32)
	return ok && len(values) == 1 && ir.TimeMode(values[0]) == ir.TimeModeHomogeneous
}

func (d *decoding) variable(meta *metadata.Node, v *tensor.Variable) error {
	if v.Kind != meta.Type {
		return &CodecError{
			Variable: v.Name,
			Message:  fmt.Sprintf("%s variable for %s node", v.Kind, ir.FormatDataType(meta.Type, meta.NDim)),
		}
	}
	switch meta.Type {
	case ir.Structure:
		return nil
	case ir.StructArray:
		return d.structArray(meta, v)
	}
	return d.leaf(meta, v)
}

func (d *decoding) structArray(meta *metadata.Node, v *tensor.Variable) error {
	var shapes tensor.Tensor
	size := 0
	if v.IsSparse() {
		var err error
		if shapes, err = d.shapeTable(meta, v); err != nil {
			return err
		}
	} else {
		dims := d.layout.Dimensions(meta)
		dim := dims[len(dims)-1]
		var ok bool
		if size, ok = d.set.DimensionSize(dim); !ok {
			return &CodecError{Variable: v.Name, Message: fmt.Sprintf("missing dimension %q", dim)}
		}
	}

	// Sizes are gathered for every instance before any array is resized
	type resize struct {
		array *ids.StructArray
		size  int
	}
	var pending []resize
	err := eachInstance(d.doc.Root(), meta, func(aos []int, n ids.Node) error {
		if shapes != nil {
			shape, err := shapeAt(shapes, aos)
			if err != nil {
				return &CodecError{Variable: v.Name, Message: "invalid shape table", Err: err}
			}
			size = shape[0]
		}
		pending = append(pending, resize{n.(*ids.StructArray), size})
		return nil
	})
	if err != nil {
		return err
	}

	previous := make([]int, 0, len(pending))
	for _, r := range pending {
		old := r.array.Len()
		if err := r.array.Resize(r.size); err != nil {
			for i, n := range previous {
				_ = pending[i].array.Resize(n)
			}
			return &CodecError{Variable: v.Name, Message: "cannot resize " + ids.DisplayPath(r.array), Err: err}
		}
		previous = append(previous, old)
	}
	return nil
}

func (d *decoding) leaf(meta *metadata.Node, v *tensor.Variable) error {
	depth := len(d.tree.AoSAncestors(meta))
	if v.Data == nil || v.Data.NDim() != depth+meta.NDim {
		ndim := 0
		if v.Data != nil {
			ndim = v.Data.NDim()
		}
		return &CodecError{
			Variable: v.Name,
			Message:  fmt.Sprintf("has %d dimensions, expected %d", ndim, depth+meta.NDim),
		}
	}
	sparse := v.IsSparse()
	var shapes tensor.Tensor
	if sparse && meta.NDim > 0 {
		var err error
		if shapes, err = d.shapeTable(meta, v); err != nil {
			return err
		}
	}

	// Values are gathered for every instance before any leaf is set, so a
	// skipped variable leaves the document untouched
	type assignment struct {
		leaf  *ids.Leaf
		value tensor.Tensor
	}
	var pending []assignment
	err := eachInstance(d.doc.Root(), meta, func(aos []int, n ids.Node) error {
		value, err := v.Data.Sub(aos)
		if err != nil {
			return &CodecError{Variable: v.Name, Message: "no data for " + ids.DisplayPath(n), Err: err}
		}
		switch {
		case shapes != nil:
			shape, err := shapeAt(shapes, aos)
			if err != nil {
				return &CodecError{Variable: v.Name, Message: "invalid shape table", Err: err}
			}
			if slices.Contains(shape, 0) {
				return nil
			}
			if value, err = value.Truncate(shape); err != nil {
				return &CodecError{Variable: v.Name, Message: "shape table does not fit the data", Err: err}
			}
		case sparse && meta.NDim == 0:
			if tensor.IsFillScalar(value) {
				return nil
			}
		}
		pending = append(pending, assignment{n.(*ids.Leaf), value})
		return nil
	})
	if err != nil {
		return err
	}

	for i, a := range pending {
		if err := a.leaf.SetTensor(a.value); err != nil {
			for _, done := range pending[:i] {
				done.leaf.Clear()
			}
			return &CodecError{Variable: v.Name, Message: "cannot set " + ids.DisplayPath(a.leaf), Err: err}
		}
	}
	return nil
}

// shapeTable returns the side-table of a sparse N-D variable after checking
// it has one row of meta.NDim extents per enclosing array position.
func (d *decoding) shapeTable(meta *metadata.Node, v *tensor.Variable) (tensor.Tensor, error) {
	sv, ok := d.set.Variable(v.ShapeName())
	if !ok || sv.Data == nil {
		return nil, &CodecError{Variable: v.Name, Message: "sparse variable without " + v.ShapeName()}
	}
	shape := sv.Data.Shape()
	depth := len(d.tree.AoSAncestors(meta))
	if sv.Kind != ir.Integer || len(shape) != depth+1 || shape[depth] != meta.NDim {
		return nil, &CodecError{
			Variable: v.Name,
			Message:  fmt.Sprintf("%s has %s data of shape %v", sv.Name, sv.Kind, shape),
		}
	}
	return sv.Data, nil
}

func shapeAt(shapes tensor.Tensor, aos []int) ([]int, error) {
	row, err := shapes.Sub(aos)
	if err != nil {
		return nil, err
	}
	values := row.Values().([]int32)
	out := make([]int, len(values))
	for i, n := range values {
		if n < 0 {
			return nil, fmt.Errorf("negative extent %d at %v", n, aos)
		}
		out[i] = int(n)
	}
	return out, nil
}

// eachInstance calls fn for every instance of meta reachable through the
// existing elements of its enclosing arrays of structures.
func eachInstance(root *ids.Structure, meta *metadata.Node, fn func(aos []int, n ids.Node) error) error {
	return descend(root, strings.Split(meta.Path, "/"), nil, fn)
}

func descend(s *ids.Structure, names []string, aos []int, fn func([]int, ids.Node) error) error {
	child, ok := s.Child(names[0])
	if !ok {
		return fmt.Errorf("%s has no child %q", s.Meta().DisplayPath(), names[0])
	}
	if len(names) == 1 {
		return fn(aos, child)
	}
	switch c := child.(type) {
	case *ids.Structure:
		return descend(c, names[1:], aos, fn)
	case *ids.StructArray:
		for i, elem := range c.Elements() {
			next := append(slices.Clone(aos), i)
			if err := descend(elem, names[1:], next, fn); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%s is not a structure", child.Meta().Path)
}
