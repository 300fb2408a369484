// Package arrowio stores tensor sets as Apache Arrow IPC streams.
//
// A stream holds one record batch with one row. Each variable is one
// column: list<int32>, list<float64> or list<utf8> holding the row-major
// elements, list<float64> of interleaved real and imaginary parts for
// complex data, and a null column for structures and arrays of structures.
// Variable kind, dimensions and attributes travel in field metadata;
// dimensions and global attributes in schema metadata.
package arrowio
