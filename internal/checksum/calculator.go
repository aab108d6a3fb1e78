package checksum

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Calculator is an interface for computing archive checksums.
// This abstraction allows for different digest strategies and algorithms.
type Calculator interface {
	// Archive computes a checksum of the raw archive bytes.
	Archive(content []byte) string

	// Members computes a checksum per archive member over its
	// decompressed content, keyed by member name. Member digests stay
	// stable across recompression, where the raw archive digest does not.
	Members(content []byte) (map[string]string, error)
}

// SHA256 implements checksum calculation using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple
// goroutines. Using value semantics eliminates heap allocations.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// Archive computes SHA-256 of the raw archive bytes.
func (c SHA256) Archive(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Members computes SHA-256 per member over decompressed content.
// Fails when the content is not a readable zip archive.
func (c SHA256) Members(content []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	digests := make(map[string]string, len(zr.File))
	for _, m := range zr.File {
		rc, err := m.Open()
		if err != nil {
			return nil, fmt.Errorf("opening member %s: %w", m.Name, err)
		}
		h := sha256.New()
		_, err = io.Copy(h, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading member %s: %w", m.Name, err)
		}
		digests[m.Name] = hex.EncodeToString(h.Sum(nil))
	}
	return digests, nil
}
