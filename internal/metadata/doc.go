// Package metadata describes the shape of IDS documents as declared by a
// Data Dictionary.
//
// A Tree holds one IDS definition as an arena of Nodes. Parent and child
// links are NodeID indices into the arena, so a Tree carries no pointer
// cycles and is safe to share between goroutines once built.
//
// Coordinate and Path are the parsed forms of the coordinate specifier
// strings attached to every dimension of a node. Coordinates are interned:
// parsing the same specifier twice yields the same pointer.
package metadata
