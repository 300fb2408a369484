package metadata

import (
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
)

// NodeSpec is the raw, string-typed description of a node as it appears in
// a Data Dictionary definition.
type NodeSpec struct {
	Name     string
	DataType string
	// Coordinates and CoordinatesSameAs may be shorter than the node's
	// dimensionality; missing entries default to an unconstrained index.
	Coordinates            []string
	CoordinatesSameAs      []string
	AlternativeCoordinate1 []string
	Documentation          string
	Units                  string
	Lifecycle              string
}

// Builder assembles a Tree. Nodes must be added parent first.
type Builder struct {
	tree *Tree
	done bool
}

// NewBuilder starts a tree whose root is the IDS toplevel described by root.
// The root's DataType is ignored: the toplevel is always a structure.
func NewBuilder(version ir.DDVersion, root NodeSpec) (*Builder, error) {
	if !isIdentifier(root.Name) {
		return nil, fmt.Errorf("invalid IDS name %q", root.Name)
	}
	lifecycle, err := ir.ParseLifecycle(root.Lifecycle)
	if err != nil {
		return nil, fmt.Errorf("IDS %s: %w", root.Name, err)
	}
	t := &Tree{
		version: version,
		byPath:  map[string]NodeID{"": RootID},
	}
	t.nodes = append(t.nodes, Node{
		ID:            RootID,
		Parent:        NoNode,
		Name:          root.Name,
		Type:          ir.Structure,
		Documentation: root.Documentation,
		Lifecycle:     lifecycle,
	})
	return &Builder{tree: t}, nil
}

// Add appends a child to the node at parentPath ("" for the root) and
// returns its ID.
func (b *Builder) Add(parentPath string, spec NodeSpec) (NodeID, error) {
	if b.done {
		return NoNode, fmt.Errorf("builder already finished")
	}
	t := b.tree
	parentID, ok := t.byPath[parentPath]
	if !ok {
		return NoNode, fmt.Errorf("parent %q not found", parentPath)
	}
	parent := &t.nodes[parentID]
	if !parent.Type.IsContainer() {
		return NoNode, fmt.Errorf("parent %q is %s and cannot have children", parentPath, parent.Type)
	}
	if !isIdentifier(spec.Name) {
		return NoNode, fmt.Errorf("invalid node name %q", spec.Name)
	}

	path := spec.Name
	if parentPath != "" {
		path = parentPath + "/" + spec.Name
	}
	if _, exists := t.byPath[path]; exists {
		return NoNode, fmt.Errorf("duplicate node %q", path)
	}

	dt, ndim, err := ir.ParseDataType(spec.DataType)
	if err != nil {
		return NoNode, fmt.Errorf("%s: %w", path, err)
	}
	lifecycle, err := ir.ParseLifecycle(spec.Lifecycle)
	if err != nil {
		return NoNode, fmt.Errorf("%s: %w", path, err)
	}

	coords, err := coordinateList(spec.Coordinates, ndim, IndexSpec)
	if err != nil {
		return NoNode, fmt.Errorf("%s: coordinates: %w", path, err)
	}
	sameAs, err := coordinateList(spec.CoordinatesSameAs, ndim, "")
	if err != nil {
		return NoNode, fmt.Errorf("%s: coordinates_same_as: %w", path, err)
	}
	var alternatives []Path
	for _, s := range spec.AlternativeCoordinate1 {
		p, err := ParsePath(s)
		if err != nil {
			return NoNode, fmt.Errorf("%s: alternative_coordinate1: %w", path, err)
		}
		alternatives = append(alternatives, p)
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		ID:                     id,
		Parent:                 parentID,
		Name:                   spec.Name,
		Path:                   path,
		Type:                   dt,
		NDim:                   ndim,
		Coordinates:            coords,
		CoordinatesSameAs:      sameAs,
		AlternativeCoordinate1: alternatives,
		Documentation:          spec.Documentation,
		Units:                  spec.Units,
		Lifecycle:              lifecycle,
	})
	// Re-take the pointer: the append above may have moved the arena.
	t.nodes[parentID].Children = append(t.nodes[parentID].Children, id)
	t.byPath[path] = id
	return id, nil
}

func coordinateList(specs []string, ndim int, fill string) ([]*Coordinate, error) {
	if len(specs) > ndim {
		return nil, fmt.Errorf("%d specifiers for %d dimensions", len(specs), ndim)
	}
	out := make([]*Coordinate, ndim)
	for i := range out {
		spec := fill
		if i < len(specs) {
			spec = specs[i]
		}
		out[i] = ParseCoordinate(spec)
	}
	return out, nil
}

// Build finishes the tree. The Builder cannot be used afterwards.
func (b *Builder) Build() (*Tree, error) {
	if b.done {
		return nil, fmt.Errorf("builder already finished")
	}
	b.done = true
	return b.tree, nil
}
