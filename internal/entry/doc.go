// Package entry stores and loads IDS documents.
//
// An Entry pairs a Data Dictionary with a store. Put validates a document,
// encodes it to a tensor set and stores it as one occurrence; Get loads an
// occurrence and decodes it into a fresh document. Documents never cross
// Data Dictionary versions: both directions refuse a version other than
// the Entry's own.
package entry
