package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vvka-141/fmured/internal/checksum"
	"github.com/vvka-141/fmured/internal/files/filesystem"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// ArchiveFile describes one discovered .fmu archive.
type ArchiveFile struct {
	// Path is the full path of the archive.
	Path string

	// Name is the base file name.
	Name string

	SizeBytes  int64
	ModifiedAt time.Time

	// Digest is the SHA-256 hex digest of the raw archive bytes.
	Digest string
}

// Scanner discovers FMU archives in a directory. Discovery is flat:
// archives in subdirectories are not picked up, matching the convention
// that a reduction run targets exactly one directory of models.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided calculator and fsProvider are also thread-safe.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.Provider
}

// NewScanner creates a new archive scanner with the given checksum
// calculator. Uses the OS filesystem.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: filesystem.NewOSFileSystem(),
	}
}

// NewScannerWithFS creates a new archive scanner with a custom filesystem
// provider. This is primarily useful for testing with in-memory filesystems.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.Provider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ScanDirectory lists the .fmu archives directly inside sourcePath,
// sorted by file name. The suffix match is case-insensitive, so Model.FMU
// is discovered alongside model.fmu.
func (s *Scanner) ScanDirectory(sourcePath string) ([]ArchiveFile, error) {
	entries, err := s.fsProvider.ReadDir(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var archives []ArchiveFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), fmured.ArchiveSuffix) {
			continue
		}

		archivePath := filepath.Join(sourcePath, entry.Name())
		content, err := s.fsProvider.ReadFile(archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive %s: %w", entry.Name(), err)
		}

		archives = append(archives, ArchiveFile{
			Path:       archivePath,
			Name:       entry.Name(),
			SizeBytes:  entry.Size(),
			ModifiedAt: entry.ModTime(),
			Digest:     s.calculator.Archive(content),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Name < archives[j].Name
	})
	return archives, nil
}

// ValidateDirectory checks that sourcePath exists, is a directory, and
// contains at least one .fmu archive.
func (s *Scanner) ValidateDirectory(sourcePath string) error {
	info, err := s.fsProvider.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("source directory not accessible: %s (error: %w)", sourcePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", sourcePath)
	}

	archives, err := s.ScanDirectory(sourcePath)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return fmt.Errorf("no %s archives found in %s", fmured.ArchiveSuffix, sourcePath)
	}
	return nil
}
