// Package ids holds the live form of an IDS document.
//
// A document is a tree of Nodes mirroring its metadata.Tree one to one.
// Node is a sealed interface with exactly three implementations:
//
//   - *Structure: a fixed set of named children
//   - *StructArray: a resizable sequence of *Structure elements
//   - *Leaf: a typed value of fixed dimensionality
//
// Containers own their children; parent links are for navigation only.
// Documents are not safe for concurrent mutation.
package ids
