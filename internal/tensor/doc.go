// Package tensor provides the dense N-dimensional array primitive and the
// Set of named variables exchanged with storage backends.
//
// Dense[T] is a row-major array over one of the four element types a
// Data Dictionary leaf can hold. Tensor is its type-erased form, used where
// the element type is only known at run time from metadata.
//
// A Set is the flat, tensorized form of one IDS document: dimensions,
// variables and global attributes, all kept in insertion order so that
// encoding is deterministic.
package tensor
