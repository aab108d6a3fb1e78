// Package files provides file-related functionality organized into sub-packages.
//
// This package is organized into the following sub-packages:
//   - filesystem: Filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: FMU archive discovery and metadata extraction
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/fmured/internal/files/filesystem"
//	    "github.com/vvka-141/fmured/internal/files/scanner"
//	)
//
//	archiveScanner := scanner.NewScanner(checksum.New())
//	archives, err := archiveScanner.ScanDirectory("./models")
//
// # Organization
//
// Each sub-package is focused on a single concern:
//   - filesystem: Provides filesystem abstraction for testability
//   - scanner: Handles archive discovery and digest calculation
package files
