// Package codec converts IDS documents to and from tensor sets.
//
// Encoding flattens every non-empty quantity to one dense variable named
// after its dotted path. Arrays of structures become leading dimensions of
// their descendants; ragged data is padded with fill values and the true
// shape of every instance is kept in a "<name>:shape" side-table. Decoding
// reverses this, resizing arrays of structures before filling the leaves
// below them.
package codec
