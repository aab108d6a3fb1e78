// Package scanner provides FMU archive discovery for batch reduction.
//
// The scanner package is responsible for:
//   - Discovering .fmu archives directly inside a directory (flat, not recursive)
//   - Extracting file metadata (path, size, timestamps, content digest)
//   - Validating that a directory holds at least one archive before a run
//
// The scanner is designed to be filesystem-agnostic through the use of
// the filesystem.Provider interface, enabling both production use with
// the OS filesystem and testing with in-memory filesystems.
package scanner
