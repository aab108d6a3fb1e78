// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines the file and directory operations archive discovery
// needs, enabling testability through an in-memory implementation while
// maintaining compatibility with the OS filesystem.
//
// Key interfaces:
//   - Provider: Flat directory listing plus whole-file reads and writes
//   - FileInfo: File metadata, aliased from io/fs
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
