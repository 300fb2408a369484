// Package queryir describes queries over the entry catalog of a store.
//
// A query selects stored occurrences. It is built from two tables:
//
//	entries    one row per stored occurrence (ids_name, occurrence,
//	           dd_version, content_hash)
//	variables  one row per tensor variable of an occurrence (name, kind)
//
// Select filters one table. Join keeps the entries of its left Select that
// store at least one variable matching its right Select:
//
//	Join{
//	  Left:  Select{From: TableEntries, Filter: Equals{Field: "ids_name", Value: "core_profiles"}},
//	  Right: Select{From: TableVariables, Filter: Equals{Field: "name", Value: "global_quantities.ip"}},
//	}
//
// Predicates are Equals and And. Validate rejects unknown tables, unknown
// fields and values of the wrong type; backends compile only validated
// queries, so field names never reach SQL unchecked.
//
// Query and Predicate are sealed: only types in this package implement
// them, so backend compilers can switch exhaustively.
package queryir
