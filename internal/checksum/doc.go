// Package checksum provides archive content hashing.
//
// The package implements a dual digest strategy:
//
//   - Archive digest: hash of the exact archive bytes (detects all changes,
//     including recompression)
//   - Member digests: one hash per archive member over its decompressed
//     content (stable across recompression, so a rewritten archive with
//     identical members reports as unchanged)
//
// # Example Usage
//
//	calculator := checksum.New()
//	archiveDigest := calculator.Archive(content)
//	memberDigests, err := calculator.Members(content)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
