package ids

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// IDS is one document: the root structure plus the tree it instantiates.
type IDS struct {
	tree *metadata.Tree
	root *Structure
}

// New returns an empty document of the given IDS definition.
func New(tree *metadata.Tree) (*IDS, error) {
	root, err := newStructure(tree, tree.Root(), nil, -1)
	if err != nil {
		return nil, fmt.Errorf("ids %s: %w", tree.Name(), err)
	}
	return &IDS{tree: tree, root: root}, nil
}

// Tree returns the IDS definition.
func (d *IDS) Tree() *metadata.Tree { return d.tree }

// Root returns the toplevel structure.
func (d *IDS) Root() *Structure { return d.root }

// Name returns the IDS name.
func (d *IDS) Name() string { return d.tree.Name() }

// Version returns the Data Dictionary version of the document.
func (d *IDS) Version() ir.DDVersion { return d.tree.Version() }

// TimeMode returns the value of ids_properties/homogeneous_time, or
// TimeModeUnknown when the IDS has no such field or it is unset.
func (d *IDS) TimeMode() ir.TimeMode {
	n, err := d.Get(ir.TimeModePath)
	if err != nil {
		return ir.TimeModeUnknown
	}
	leaf, ok := n.(*Leaf)
	if !ok {
		return ir.TimeModeUnknown
	}
	v, ok := leaf.Int()
	if !ok {
		return ir.TimeModeUnknown
	}
	return ir.TimeMode(v)
}

// SetTimeMode sets ids_properties/homogeneous_time.
func (d *IDS) SetTimeMode(m ir.TimeMode) error {
	leaf, err := d.Leaf(ir.TimeModePath)
	if err != nil {
		return err
	}
	return leaf.SetInt(int32(m))
}

// Get resolves an absolute path from the root. Arrays of structures are
// indexed with 1-based literals: "profiles_1d(2)/grid/psi".
func (d *IDS) Get(path string) (Node, error) {
	if path == "" {
		return d.root, nil
	}
	p, err := metadata.ParsePath(path)
	if err != nil {
		return nil, err
	}
	if p.IsRelative() {
		return nil, fmt.Errorf("path %q: relative paths need a starting node", path)
	}
	return Goto(p, d.root)
}

// Leaf is Get for paths that must name a leaf.
func (d *IDS) Leaf(path string) (*Leaf, error) {
	n, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	leaf, ok := n.(*Leaf)
	if !ok {
		return nil, fmt.Errorf("path %q is a %s, not a leaf", path, n.Meta().Type)
	}
	return leaf, nil
}

// StructArray is Get for paths that must name an array of structures.
func (d *IDS) StructArray(path string) (*StructArray, error) {
	n, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	aos, ok := n.(*StructArray)
	if !ok {
		return nil, fmt.Errorf("path %q is a %s, not an array of structures", path, n.Meta().Type)
	}
	return aos, nil
}

// IsEmpty reports whether the document holds no data.
func (d *IDS) IsEmpty() bool { return d.root.IsEmpty() }
