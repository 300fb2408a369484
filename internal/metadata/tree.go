package metadata

import (
	"fmt"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
)

// NodeID indexes a Node within its Tree.
type NodeID int32

// NoNode is the parent of the root node.
const NoNode NodeID = -1

// RootID is the ID of the IDS toplevel structure.
const RootID NodeID = 0

// Node describes one field or container of an IDS.
type Node struct {
	ID     NodeID
	Parent NodeID
	// Children are in declaration order.
	Children []NodeID

	Name string
	// Path is the slash-separated path from the document root; "" for the root.
	Path string
	Type ir.DataType
	NDim int

	// Coordinates has exactly NDim entries.
	Coordinates []*Coordinate
	// CoordinatesSameAs has exactly NDim entries; unset entries have no
	// validation rule.
	CoordinatesSameAs []*Coordinate
	// AlternativeCoordinate1 lists quantities that may replace this node
	// when it is used as a coordinate.
	AlternativeCoordinate1 []Path

	Documentation string
	Units         string
	Lifecycle     ir.Lifecycle
}

// Dotted returns the variable name of the node.
func (n *Node) Dotted() string {
	return DottedPath(n.Path)
}

// IsRoot reports whether n is the IDS toplevel.
func (n *Node) IsRoot() bool {
	return n.Parent == NoNode
}

// DisplayPath is Path, or the IDS name for the root.
func (n *Node) DisplayPath() string {
	if n.Path == "" {
		return n.Name
	}
	return n.Path
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s)", n.DisplayPath(), ir.FormatDataType(n.Type, n.NDim))
}

// Tree is the immutable description of one IDS.
type Tree struct {
	version ir.DDVersion
	nodes   []Node
	byPath  map[string]NodeID
}

// Name returns the IDS name, e.g. "core_profiles".
func (t *Tree) Name() string {
	return t.nodes[RootID].Name
}

// Version returns the Data Dictionary version the tree was built from.
func (t *Tree) Version() ir.DDVersion {
	return t.version
}

// Root returns the toplevel structure.
func (t *Tree) Root() *Node {
	return &t.nodes[RootID]
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID. It panics on an invalid ID.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Lookup finds a node by schema path ("profiles_1d/grid/rho_tor_norm").
// The empty path is the root. Indices in the path are ignored.
func (t *Tree) Lookup(path string) (*Node, bool) {
	if strings.Contains(path, "(") {
		if p, err := ParsePath(path); err == nil {
			path = p.SchemaPath()
		}
	}
	id, ok := t.byPath[path]
	if !ok {
		return nil, false
	}
	return &t.nodes[id], true
}

// LookupDotted finds a node by variable name ("profiles_1d.grid.rho_tor_norm").
func (t *Tree) LookupDotted(name string) (*Node, bool) {
	return t.Lookup(SlashPath(name))
}

// Parent returns the parent of n, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	if n.Parent == NoNode {
		return nil
	}
	return &t.nodes[n.Parent]
}

// Children returns the children of n in declaration order.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, len(n.Children))
	for i, id := range n.Children {
		out[i] = &t.nodes[id]
	}
	return out
}

// Child returns the child of n with the given name.
func (t *Tree) Child(n *Node, name string) (*Node, bool) {
	for _, id := range n.Children {
		if t.nodes[id].Name == name {
			return &t.nodes[id], true
		}
	}
	return nil, false
}

// AoSAncestors returns the arrays of structures enclosing n, outermost
// first. n itself is not included.
func (t *Tree) AoSAncestors(n *Node) []*Node {
	var out []*Node
	for id := n.Parent; id != NoNode; id = t.nodes[id].Parent {
		if t.nodes[id].Type == ir.StructArray {
			out = append(out, &t.nodes[id])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NearestAoS returns the innermost array of structures enclosing n, or nil.
func (t *Tree) NearestAoS(n *Node) *Node {
	for id := n.Parent; id != NoNode; id = t.nodes[id].Parent {
		if t.nodes[id].Type == ir.StructArray {
			return &t.nodes[id]
		}
	}
	return nil
}

// Walk visits every node in pre-order (parents before children, children
// in declaration order), starting with the root. Returning an error stops
// the walk.
func (t *Tree) Walk(fn func(*Node) error) error {
	return t.walk(RootID, fn)
}

func (t *Tree) walk(id NodeID, fn func(*Node) error) error {
	n := &t.nodes[id]
	if err := fn(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := t.walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Paths returns every non-root schema path in pre-order.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.nodes)-1)
	_ = t.Walk(func(n *Node) error {
		if !n.IsRoot() {
			out = append(out, n.Path)
		}
		return nil
	})
	return out
}
