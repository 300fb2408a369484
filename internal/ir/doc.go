// Package ir provides the foundational types shared by every idsgo package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps ir
// the bottom layer with no circular dependencies.
//
// Key conventions:
//   - Data types are a closed enum (DataType); scalar types carry an ndim.
//   - Two kinds of "unset" values exist and must not be confused:
//     Empty* sentinels mark unset 0-D values inside a document, Fill* values
//     pad dense tensors on the storage side.
//   - Data Dictionary versions are compared semantically, never as strings.
//   - Content hashes use canonical JSON and SHA-256 with domain separation.
package ir
