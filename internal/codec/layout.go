package codec

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// TimeDimension is the dimension of the root time base.
const TimeDimension = ir.TimePath

// indexSuffixes name the dimensions of N-D quantities without a shared
// coordinate.
var indexSuffixes = []string{"i", "j", "k", "l", "m", "n"}

// Layout names the dimensions of the variables of one IDS. Names depend on
// the time mode: in homogeneous mode every time coordinate maps to the
// root time dimension.
type Layout struct {
	tree        *metadata.Tree
	homogeneous bool
	dims        map[metadata.NodeID][]string
}

// NewLayout returns the layout of tree.
func NewLayout(tree *metadata.Tree, homogeneous bool) *Layout {
	return &Layout{
		tree:        tree,
		homogeneous: homogeneous,
		dims:        make(map[metadata.NodeID][]string),
	}
}

// Dimensions returns the dimension names of n's variable: one per
// enclosing array of structures, outermost first, followed by n's own.
// Structures have none.
func (l *Layout) Dimensions(n *metadata.Node) []string {
	if dims, ok := l.dims[n.ID]; ok {
		return dims
	}
	var dims []string
	for _, aos := range l.tree.AoSAncestors(n) {
		dims = append(dims, l.ownDimension(aos, 0, 0))
	}
	if n.Type != ir.Structure {
		for d := 0; d < n.NDim; d++ {
			dims = append(dims, l.ownDimension(n, d, 0))
		}
	}
	l.dims[n.ID] = dims
	return dims
}

// AoSDimensions returns the leading dimensions n inherits from its
// enclosing arrays of structures.
func (l *Layout) AoSDimensions(n *metadata.Node) []string {
	dims := l.Dimensions(n)
	if n.Type == ir.Structure {
		return dims
	}
	return dims[:len(dims)-n.NDim]
}

// IsTensorized reports whether n lives inside an array of structures.
func (l *Layout) IsTensorized(n *metadata.Node) bool {
	return l.tree.NearestAoS(n) != nil
}

// Coordinates returns the variable names of n's coordinates, in dimension
// order and without duplicates.
func (l *Layout) Coordinates(n *metadata.Node) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, coord := range n.Coordinates {
		if coord.IsTimeCoordinate && l.homogeneous {
			add(TimeDimension)
			continue
		}
		for _, ref := range coord.References {
			if !ref.IsRelative() {
				add(ref.Dotted())
			}
		}
	}
	return out
}

// maxShareDepth bounds chains of quantities sharing a dimension.
const maxShareDepth = 8

func (l *Layout) ownDimension(n *metadata.Node, d, depth int) string {
	coord := n.Coordinates[d]
	switch {
	case coord.IsTimeCoordinate && l.homogeneous:
		return TimeDimension
	case n.Type == ir.StructArray && len(coord.References) == 1 && coord.References[0].IsAncestorOf(n.Path):
		return coord.References[0].Dotted()
	case len(coord.References) == 1 && !coord.HasAlternatives && depth < maxShareDepth:
		if target := l.sharedTarget(n, coord.References[0]); target != nil {
			return l.ownDimension(target, 0, depth+1)
		}
	}
	if n.NDim == 1 {
		return n.Dotted()
	}
	return fmt.Sprintf("%s:%s", n.Dotted(), indexSuffixes[d])
}

// sharedTarget returns the 1-D quantity ref names when it sits at the same
// array of structures level as n.
func (l *Layout) sharedTarget(n *metadata.Node, ref metadata.Path) *metadata.Node {
	if ref.IsRelative() {
		return nil
	}
	for _, part := range ref.Parts() {
		if part.Kind == metadata.IndexLiteral {
			return nil
		}
	}
	target, ok := l.tree.Lookup(ref.SchemaPath())
	if !ok || target.ID == n.ID || !target.Type.IsScalar() || target.NDim != 1 {
		return nil
	}
	if l.tree.NearestAoS(target) != l.tree.NearestAoS(n) {
		return nil
	}
	return target
}

// shapeDimension is the pseudo-dimension holding the shape of an N-D
// quantity in a side-table.
func shapeDimension(ndim int) string {
	return fmt.Sprintf("%dD", ndim)
}
