package coordinate

import (
	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/metadata"
)

// Resolved is the coordinate of one dimension. It is one of Index,
// Quantity or Sequence.
type Resolved interface {
	// Len is the length the dimension must have.
	Len() int
	resolved()
}

// Index is an implicit coordinate 0..Size-1.
type Index struct {
	Size int
}

// Quantity is another node of the document: an N-D leaf or an array of
// structures.
type Quantity struct {
	Node ids.Node
}

// Sequence collects one value per element of an array of structures. It
// is the coordinate of an array whose coordinate lives inside its own
// elements, e.g. profiles_1d with coordinate profiles_1d(itime)/time.
type Sequence struct {
	Array    *ids.StructArray
	Path     metadata.Path
	Elements []ids.Node
}

func (Index) resolved()    {}
func (Quantity) resolved() {}
func (Sequence) resolved() {}

// Len implements Resolved.
func (i Index) Len() int { return i.Size }

// Len implements Resolved.
func (q Quantity) Len() int { return quantityLen(q.Node) }

// Len implements Resolved.
func (s Sequence) Len() int { return len(s.Elements) }

// Path returns the schema path of the coordinate node.
func (q Quantity) Path() string { return q.Node.Meta().Path }

// FirstEmpty returns the position of the first element without a value.
func (s Sequence) FirstEmpty() (int, bool) {
	for i, e := range s.Elements {
		if e.IsEmpty() {
			return i, true
		}
	}
	return 0, false
}

func quantityLen(n ids.Node) int {
	shape := n.Shape()
	if len(shape) == 0 {
		return 0
	}
	return shape[0]
}
