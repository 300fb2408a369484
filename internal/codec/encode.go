package codec

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
	"github.com/roach88/idsgo/internal/tensor"
)

const (
	sparseShapes = "Sparse data, data shapes are stored in %s"
	sparseFill   = "Sparse data, missing data is filled with _FillValue"
)

// instance is one occurrence of a schema node, located by the positions of
// its enclosing array elements.
type instance struct {
	aos  []int
	node ids.Node
}

// Encoder flattens documents into tensor sets.
type Encoder struct {
	logger *slog.Logger
}

// NewEncoder returns an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	cfg := newConfig(opts)
	return &Encoder{logger: cfg.logger}
}

// Encode flattens doc with a default Encoder.
func Encode(doc *ids.IDS, opts ...Option) (*tensor.Set, error) {
	return NewEncoder(opts...).Encode(doc)
}

// encoding is the state of one Encode call.
type encoding struct {
	doc    *ids.IDS
	tree   *metadata.Tree
	layout *Layout

	// filled holds the non-empty instances of each node; order lists
	// those nodes in schema pre-order.
	filled map[metadata.NodeID][]instance
	order  []*metadata.Node
	// sizes is the largest extent seen per dimension.
	sizes map[string]int
	// sparse marks nodes whose instances do not all have the full shape;
	// shapes holds their side-tables. 0-D nodes are sparse without one.
	sparse map[metadata.NodeID]bool
	shapes map[metadata.NodeID]tensor.Tensor

	set *tensor.Set
}

// Encode flattens doc into a tensor set. The document is not validated.
func (e *Encoder) Encode(doc *ids.IDS) (*tensor.Set, error) {
	tree := doc.Tree()
	enc := &encoding{
		doc:    doc,
		tree:   tree,
		layout: NewLayout(tree, doc.TimeMode() == ir.TimeModeHomogeneous),
		filled: make(map[metadata.NodeID][]instance),
		sizes:  make(map[string]int),
		sparse: make(map[metadata.NodeID]bool),
		shapes: make(map[metadata.NodeID]tensor.Tensor),
		set:    tensor.NewSet(),
	}
	if err := enc.collect(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Name(), err)
	}
	if err := enc.determineShapes(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Name(), err)
	}
	if err := enc.materialize(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", doc.Name(), err)
	}
	e.logger.Debug("encoded IDS",
		"ids", doc.Name(),
		"variables", len(enc.set.Names()),
		"dimensions", len(enc.set.Dimensions()),
		"sparse", len(enc.sparse))
	return enc.set, nil
}

// collect records every non-empty instance and the extent of every
// dimension.
func (e *encoding) collect() error {
	err := ids.WalkNonEmpty(e.doc.Root(), func(aos []int, n ids.Node) error {
		meta := n.Meta()
		e.filled[meta.ID] = append(e.filled[meta.ID], instance{aos: aos, node: n})
		if meta.Type == ir.Structure {
			return nil
		}
		dims := e.layout.Dimensions(meta)
		own := dims[len(dims)-meta.NDim:]
		shape := n.Shape()
		if len(shape) != len(own) {
			return fmt.Errorf("%s has shape %v, expected %d dimensions", ids.DisplayPath(n), shape, len(own))
		}
		for i, size := range shape {
			e.sizes[own[i]] = max(e.sizes[own[i]], size)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return e.tree.Walk(func(meta *metadata.Node) error {
		if _, ok := e.filled[meta.ID]; ok {
			e.order = append(e.order, meta)
		}
		return nil
	})
}

func (e *encoding) sizesOf(dims []string) []int {
	out := make([]int, len(dims))
	for i, dim := range dims {
		out[i] = e.sizes[dim]
	}
	return out
}

// determineShapes decides which nodes are sparse and builds their shape
// side-tables.
func (e *encoding) determineShapes() error {
	for _, meta := range e.order {
		if meta.Type == ir.Structure {
			continue
		}
		instances := e.filled[meta.ID]
		dims := e.layout.Dimensions(meta)
		full := e.sizesOf(dims[len(dims)-meta.NDim:])
		aosDims := e.layout.AoSDimensions(meta)

		if len(aosDims) == 0 {
			shape := instances[0].node.Shape()
			if !slices.Equal(shape, full) {
				e.sparse[meta.ID] = true
				e.shapes[meta.ID] = tensor.Vector(int32s(shape)...)
			}
			continue
		}

		aosShape := e.sizesOf(aosDims)
		positions := 1
		for _, n := range aosShape {
			positions *= n
		}
		sparse := len(instances) < positions
		if meta.NDim == 0 {
			e.sparse[meta.ID] = sparse
			continue
		}

		shapes := tensor.New[int32](append(aosShape, meta.NDim)...)
		for _, inst := range instances {
			shape := inst.node.Shape()
			if !slices.Equal(shape, full) {
				sparse = true
			}
			if err := shapes.Assign(inst.aos, tensor.Vector(int32s(shape)...)); err != nil {
				return fmt.Errorf("%s: %w", ids.DisplayPath(inst.node), err)
			}
		}
		if sparse {
			e.sparse[meta.ID] = true
			e.shapes[meta.ID] = shapes
		}
	}
	return nil
}

func (e *encoding) materialize() error {
	e.set.SetAttr(tensor.AttrConventions, ir.Conventions)
	e.set.SetAttr(tensor.AttrDDVersion, e.doc.Version().String())
	e.set.SetAttr(tensor.AttrIDSName, e.doc.Name())
	for _, meta := range e.order {
		if err := e.addVariable(meta); err != nil {
			return fmt.Errorf("%s: %w", meta.Path, err)
		}
	}
	return nil
}

func (e *encoding) addVariable(meta *metadata.Node) error {
	v := &tensor.Variable{
		Name:  meta.Dotted(),
		Kind:  meta.Type,
		Attrs: e.attributes(meta),
	}
	// Arrays of structures declare their dimensions without using them:
	// decoding sizes uniform arrays from them.
	dims := e.layout.Dimensions(meta)
	for _, dim := range dims {
		if err := e.set.AddDimension(dim, e.sizes[dim]); err != nil {
			return err
		}
	}
	if meta.Type.IsScalar() {
		data, err := e.data(meta, dims)
		if err != nil {
			return err
		}
		v.Dims = dims
		v.Data = data
	}

	var shapeTable *tensor.Variable
	if e.sparse[meta.ID] {
		if meta.NDim == 0 {
			v.Attrs[tensor.AttrSparse] = sparseFill
		} else {
			shapeTable = &tensor.Variable{
				Name: v.ShapeName(),
				Kind: ir.Integer,
				Dims: append(slices.Clone(e.layout.AoSDimensions(meta)), shapeDimension(meta.NDim)),
				Data: e.shapes[meta.ID],
			}
			v.Attrs[tensor.AttrSparse] = fmt.Sprintf(sparseShapes, shapeTable.Name)
		}
	}

	if err := e.set.AddVariable(v); err != nil {
		return err
	}
	if shapeTable == nil {
		return nil
	}
	if err := e.set.AddDimension(shapeDimension(meta.NDim), meta.NDim); err != nil {
		return err
	}
	return e.set.AddVariable(shapeTable)
}

// data builds the dense tensor of a leaf: fill values everywhere, each
// instance written into the leading corner of its block.
func (e *encoding) data(meta *metadata.Node, dims []string) (tensor.Tensor, error) {
	data, err := tensor.NewFilled(meta.Type, e.sizesOf(dims))
	if err != nil {
		return nil, err
	}
	for _, inst := range e.filled[meta.ID] {
		leaf, ok := inst.node.(*ids.Leaf)
		if !ok {
			return nil, fmt.Errorf("%s is not a leaf", ids.DisplayPath(inst.node))
		}
		if err := data.Assign(inst.aos, leaf.Value()); err != nil {
			return nil, fmt.Errorf("%s: %w", ids.DisplayPath(leaf), err)
		}
	}
	return data, nil
}

func (e *encoding) attributes(meta *metadata.Node) map[string]string {
	attrs := map[string]string{tensor.AttrDocumentation: meta.Documentation}
	if meta.Units != "" {
		attrs[tensor.AttrUnits] = meta.Units
	}
	if meta.Type != ir.StructArray {
		var coords []string
		for _, name := range e.layout.Coordinates(meta) {
			n, ok := e.tree.LookupDotted(name)
			if !ok {
				continue
			}
			if _, filled := e.filled[n.ID]; filled {
				coords = append(coords, name)
			}
		}
		attrs[tensor.AttrCoordinates] = strings.Join(coords, " ")
	}
	return attrs
}

func int32s(shape []int) []int32 {
	out := make([]int32, len(shape))
	for i, n := range shape {
		out[i] = int32(n)
	}
	return out
}
