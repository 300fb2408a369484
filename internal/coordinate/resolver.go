package coordinate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

var rootTime = metadata.MustParsePath(ir.TimePath)

// Resolver finds the coordinates of nodes in one document.
type Resolver struct {
	doc      *ids.IDS
	logger   *slog.Logger
	tieBreak TieBreak
}

// NewResolver returns a Resolver for doc.
func NewResolver(doc *ids.IDS, opts ...Option) *Resolver {
	cfg := newConfig(opts)
	return &Resolver{doc: doc, logger: cfg.logger, tieBreak: cfg.tieBreak}
}

// Resolve returns the coordinate of dimension dim of n, a leaf or an array
// of structures.
//
// Index coordinates resolve to Index. Time coordinates follow the document
// time mode: the root time base when homogeneous, the declared reference
// when heterogeneous. A single reference resolves to that quantity, or to
// a Sequence when it lives inside the array being resolved. Several
// alternative references resolve to the one that is set.
func (r *Resolver) Resolve(n ids.Node, dim int) (Resolved, error) {
	meta := n.Meta()
	if _, ok := n.(*ids.Structure); ok {
		return nil, fmt.Errorf("%s: structures have no coordinates", meta.DisplayPath())
	}
	if dim < 0 || dim >= meta.NDim {
		return nil, fmt.Errorf("%s: dimension %d out of range for %d dimensions", meta.Path, dim, meta.NDim)
	}
	coord := meta.Coordinates[dim]
	shape := n.Shape()
	if len(coord.References) == 0 {
		return Index{Size: shape[dim]}, nil
	}

	var ref metadata.Path
	switch {
	case coord.IsTimeCoordinate:
		switch mode := r.doc.TimeMode(); mode {
		case ir.TimeModeHomogeneous:
			ref = rootTime
		case ir.TimeModeHeterogeneous:
			ref = coord.References[0]
		default:
			return nil, r.lookupError(KindTimeMode, n, dim, coord, nil,
				"invalid time mode: %s is %d, expected %d or %d",
				ir.TimeModePath, int32(mode), int32(ir.TimeModeHeterogeneous), int32(ir.TimeModeHomogeneous))
		}
	case !coord.HasAlternatives:
		ref = coord.References[0]
	default:
		return r.resolveAlternatives(n, dim, coord)
	}

	if aos, ok := n.(*ids.StructArray); ok && ref.IsAncestorOf(meta.Path) {
		return r.sequence(aos, ref, dim, coord)
	}
	target, err := r.quantity(ref, n, n, dim, coord)
	if err != nil {
		return nil, err
	}
	if len(target.Meta().AlternativeCoordinate1) == 0 {
		return Quantity{Node: target}, nil
	}
	return r.resolveAlternativeCoordinate1(n, dim, coord, target)
}

// resolveAlternativeCoordinate1 picks among a coordinate quantity and the
// alternatives it declares for itself.
func (r *Resolver) resolveAlternativeCoordinate1(n ids.Node, dim int, coord *metadata.Coordinate, primary ids.Node) (Resolved, error) {
	var set []ids.Node
	if quantityLen(primary) > 0 {
		set = append(set, primary)
	}
	for _, alt := range primary.Meta().AlternativeCoordinate1 {
		node, err := r.quantity(alt, primary, n, dim, coord)
		if err != nil {
			return nil, err
		}
		if quantityLen(node) > 0 {
			set = append(set, node)
		}
	}
	if len(set) == 0 {
		return Quantity{Node: primary}, nil
	}
	return r.choose(n, dim, coord, set)
}

// resolveAlternatives handles coordinates with several rules that are not
// time coordinates: "a OR b", "a OR 1...3".
func (r *Resolver) resolveAlternatives(n ids.Node, dim int, coord *metadata.Coordinate) (Resolved, error) {
	var set []ids.Node
	for _, ref := range coord.References {
		node, err := r.quantity(ref, n, n, dim, coord)
		if err != nil {
			return nil, err
		}
		if quantityLen(node) > 0 {
			set = append(set, node)
		}
	}
	if len(set) == 0 {
		if coord.Size > 0 {
			return Index{Size: n.Shape()[dim]}, nil
		}
		return nil, r.lookupError(KindAlternatives, n, dim, coord, nil,
			"dimension %d of element %q must have exactly one of its coordinates (%s) set, but none are set",
			dim+1, n.Meta().Path, strings.Join(coord.ReferenceStrings(), ", "))
	}
	return r.choose(n, dim, coord, set)
}

// choose applies the tie-break policy to the non-empty alternatives in set.
func (r *Resolver) choose(n ids.Node, dim int, coord *metadata.Coordinate, set []ids.Node) (Resolved, error) {
	if len(set) == 1 {
		return Quantity{Node: set[0]}, nil
	}
	size := quantityLen(set[0])
	agree := true
	for _, node := range set[1:] {
		if quantityLen(node) != size {
			agree = false
			break
		}
	}
	if !agree {
		var b strings.Builder
		for _, node := range set {
			fmt.Fprintf(&b, "\n    %s has size %d", node.Meta().Path, quantityLen(node))
		}
		return nil, r.lookupError(KindAlternatives, n, dim, coord, nil,
			"dimension %d of element %q has multiple alternative coordinates set, but they don't have matching sizes:%s",
			dim+1, n.Meta().Path, b.String())
	}
	if r.tieBreak == TieBreakReject {
		return nil, r.lookupError(KindAlternatives, n, dim, coord, nil,
			"dimension %d of element %q must have exactly one of its coordinates (%s) set, but %d are set",
			dim+1, n.Meta().Path, strings.Join(coord.ReferenceStrings(), ", "), len(set))
	}
	r.logger.Info("multiple alternative coordinates are set, using the first",
		"element", ids.DisplayPath(n), "dimension", dim+1, "coordinate", set[0].Meta().Path)
	return Quantity{Node: set[0]}, nil
}

// sequence gathers ref from every element of aos.
func (r *Resolver) sequence(aos *ids.StructArray, ref metadata.Path, dim int, coord *metadata.Coordinate) (Resolved, error) {
	seq := Sequence{Array: aos, Path: ref, Elements: make([]ids.Node, 0, aos.Len())}
	for _, elem := range aos.Elements() {
		node, err := r.goTo(ref, elem, aos, dim, coord)
		if err != nil {
			return nil, err
		}
		seq.Elements = append(seq.Elements, node)
	}
	return seq, nil
}

// quantity resolves ref from start and checks that the result has a length.
// Errors are reported against n, the node whose coordinate is resolved.
func (r *Resolver) quantity(ref metadata.Path, start, n ids.Node, dim int, coord *metadata.Coordinate) (ids.Node, error) {
	target, err := r.goTo(ref, start, n, dim, coord)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *ids.StructArray:
		return t, nil
	case *ids.Leaf:
		if t.Meta().NDim > 0 {
			return t, nil
		}
	}
	return nil, r.lookupError(KindNotQuantity, n, dim, coord, nil,
		"coordinate %s of dimension %d of element %q is a %s, not a quantity with a length",
		ref, dim+1, n.Meta().Path, ir.FormatDataType(target.Meta().Type, target.Meta().NDim))
}

func (r *Resolver) goTo(ref metadata.Path, start, n ids.Node, dim int, coord *metadata.Coordinate) (ids.Node, error) {
	target, err := ids.Goto(ref, start)
	if err == nil {
		return target, nil
	}
	var ge *ids.GotoError
	if !errors.As(err, &ge) {
		return nil, err
	}
	kind := KindNotFound
	switch ge.Kind {
	case ids.GotoUnbound:
		kind = KindOutsideTree
	case ids.GotoOutOfRange:
		kind = KindInvalidIndex
	}
	return nil, r.lookupError(kind, n, dim, coord, err,
		"the coordinate definition %s of dimension %d of element %q cannot be resolved: %s",
		ref, dim+1, n.Meta().Path, ge.Message)
}

func (r *Resolver) lookupError(kind LookupKind, n ids.Node, dim int, coord *metadata.Coordinate, cause error, format string, args ...any) *LookupError {
	return &LookupError{
		Kind:       kind,
		Dim:        dim,
		Path:       ids.DisplayPath(n),
		References: coord.ReferenceStrings(),
		Message:    fmt.Sprintf(format, args...),
		Err:        cause,
	}
}
