// Package domain defines the core business entities for catsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemoteFile: A file descriptor from the Drive listing
//   - CatalogFileType: The catalog's file-type tag for an upload
//   - Outcome: The result of one per-file pipeline pass
//   - LedgerSet: The durable outcome sets (uploaded/failed/unsupported)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
