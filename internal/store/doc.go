// Package store provides SQLite-backed durable storage for tensor sets.
//
// Each stored tensor set is an entry keyed by IDS name and occurrence:
//   - Entries: identity, data dictionary version, content hash, seq
//   - Dimensions: named axes in declaration order
//   - Variables: kind, dimensions, attributes, shape and raw payload
//   - Attributes: global attributes of the set
//
// # Invariants
//
// Occurrences are write-once. PutTensorSet refuses to overwrite; callers
// delete first.
//
// Ordering uses seq (a logical clock resumed from the database on Open) and
// explicit ord columns, never timestamps or rowids.
//
// Every variable row carries the content hash of its description and
// payload, computed via internal/ir/hash.go. Reads re-hash and fail with an
// IntegrityError on mismatch.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting an entry cascades to its rows
package store
