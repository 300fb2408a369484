// Package coordinate resolves and validates the coordinates of IDS
// documents.
//
// Every dimension of a leaf or array of structures declares a coordinate:
// an unconstrained index, a fixed size, or a reference to another quantity
// whose length the dimension must match. A Resolver turns one dimension of
// one node into a concrete Resolved value, applying the document's time
// mode and choosing among alternative references. A Validator walks a
// document and checks every non-empty dimension against its resolved
// coordinate, stopping at the first mismatch.
package coordinate
