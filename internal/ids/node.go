package ids

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// Node is one node of a document.
type Node interface {
	// Meta returns the shared, read-only description of the node.
	Meta() *metadata.Node
	// Parent returns the enclosing node, nil for the document root. The
	// parent of an array element is its *StructArray.
	Parent() Node
	// IsEmpty reports whether the node carries no data.
	IsEmpty() bool
	// Shape returns the current extents: nil for structures, the element
	// count for arrays of structures, the value shape for leaves.
	Shape() []int

	node()
}

// Structure is a container with one child per metadata child.
type Structure struct {
	meta     *metadata.Node
	parent   Node
	index    int
	children []Node
}

// StructArray is an array of structures.
type StructArray struct {
	meta   *metadata.Node
	tree   *metadata.Tree
	parent *Structure
	elems  []*Structure
}

func (*Structure) node()   {}
func (*StructArray) node() {}
func (*Leaf) node()        {}

func newNode(tree *metadata.Tree, meta *metadata.Node, parent *Structure) (Node, error) {
	switch meta.Type {
	case ir.Structure:
		return newStructure(tree, meta, parent, -1)
	case ir.StructArray:
		return &StructArray{meta: meta, tree: tree, parent: parent}, nil
	case ir.String, ir.Integer, ir.Float, ir.Complex:
		return newLeaf(meta, parent)
	}
	return nil, fmt.Errorf("%s: unsupported data type %s", meta.Path, meta.Type)
}

func newStructure(tree *metadata.Tree, meta *metadata.Node, parent Node, index int) (*Structure, error) {
	s := &Structure{meta: meta, parent: parent, index: index}
	s.children = make([]Node, 0, len(meta.Children))
	for _, child := range tree.Children(meta) {
		n, err := newNode(tree, child, s)
		if err != nil {
			return nil, err
		}
		s.children = append(s.children, n)
	}
	return s, nil
}

// Meta implements Node.
func (s *Structure) Meta() *metadata.Node { return s.meta }

// Parent implements Node.
func (s *Structure) Parent() Node { return s.parent }

// Shape implements Node.
func (s *Structure) Shape() []int { return nil }

// IsEmpty reports whether every child is empty.
func (s *Structure) IsEmpty() bool {
	for _, c := range s.children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Index returns the position of s in its array of structures, or -1.
func (s *Structure) Index() int { return s.index }

// Children returns the children in declaration order.
func (s *Structure) Children() []Node { return s.children }

// Child returns the child with the given name.
func (s *Structure) Child(name string) (Node, bool) {
	for _, c := range s.children {
		if c.Meta().Name == name {
			return c, true
		}
	}
	return nil, false
}

// Meta implements Node.
func (a *StructArray) Meta() *metadata.Node { return a.meta }

// Parent implements Node.
func (a *StructArray) Parent() Node { return a.parent }

// Shape implements Node.
func (a *StructArray) Shape() []int { return []int{len(a.elems)} }

// IsEmpty reports whether the array has no elements.
func (a *StructArray) IsEmpty() bool { return len(a.elems) == 0 }

// Len returns the number of elements.
func (a *StructArray) Len() int { return len(a.elems) }

// At returns element i. It panics when i is out of range.
func (a *StructArray) At(i int) *Structure { return a.elems[i] }

// Elements returns the elements in order.
func (a *StructArray) Elements() []*Structure { return a.elems }

// Resize sets the number of elements. Shrinking drops trailing elements,
// growing appends empty ones.
func (a *StructArray) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%s: negative size %d", a.meta.Path, n)
	}
	if n <= len(a.elems) {
		clear(a.elems[n:])
		a.elems = a.elems[:n]
		return nil
	}
	for i := len(a.elems); i < n; i++ {
		elem, err := newStructure(a.tree, a.meta, a, i)
		if err != nil {
			return err
		}
		a.elems = append(a.elems, elem)
	}
	return nil
}

// Append adds one empty element and returns it.
func (a *StructArray) Append() (*Structure, error) {
	if err := a.Resize(len(a.elems) + 1); err != nil {
		return nil, err
	}
	return a.elems[len(a.elems)-1], nil
}
