package scanner

import (
	"testing"

	"github.com/vvka-141/fmured/internal/checksum"
	"github.com/vvka-141/fmured/internal/files/filesystem"
)

func newTestScanner() (*Scanner, *filesystem.MemoryFileSystem) {
	fs := filesystem.NewMemoryFileSystem("/models")
	return NewScannerWithFS(checksum.New(), fs), fs
}

func TestNewScanner_NilCalculator(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil calculator")
		}
	}()
	NewScanner(nil)
}

func TestNewScannerWithFS_NilArgs(t *testing.T) {
	calc := checksum.New()
	fs := filesystem.NewMemoryFileSystem("/")

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil calculator", func() { NewScannerWithFS(nil, fs) }},
		{"nil filesystem", func() { NewScannerWithFS(calc, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestScanDirectory(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("plant.fmu", []byte("plant archive"))
	fs.AddFile("controller.fmu", []byte("controller archive"))
	fs.AddFile("notes.txt", []byte("not an archive"))
	fs.AddFile("nested/inner.fmu", []byte("not discovered"))

	archives, err := s.ScanDirectory("/models")
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	if len(archives) != 2 {
		t.Fatalf("found %d archives, want 2", len(archives))
	}
	if archives[0].Name != "controller.fmu" || archives[1].Name != "plant.fmu" {
		t.Errorf("archives not sorted by name: %s, %s", archives[0].Name, archives[1].Name)
	}
	if archives[0].Path != "/models/controller.fmu" {
		t.Errorf("Path = %q, want /models/controller.fmu", archives[0].Path)
	}
	if archives[0].SizeBytes != int64(len("controller archive")) {
		t.Errorf("SizeBytes = %d, want %d", archives[0].SizeBytes, len("controller archive"))
	}
	if len(archives[0].Digest) != 64 {
		t.Errorf("digest length %d, want 64", len(archives[0].Digest))
	}
	if archives[0].Digest == archives[1].Digest {
		t.Error("distinct content should produce distinct digests")
	}
}

func TestScanDirectory_CaseInsensitiveSuffix(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("Model.FMU", []byte("shouting archive"))

	archives, err := s.ScanDirectory("/models")
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("found %d archives, want 1", len(archives))
	}
}

func TestScanDirectory_Empty(t *testing.T) {
	s, _ := newTestScanner()

	archives, err := s.ScanDirectory("/models")
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}
	if len(archives) != 0 {
		t.Errorf("found %d archives in empty directory, want 0", len(archives))
	}
}

func TestScanDirectory_Missing(t *testing.T) {
	s, _ := newTestScanner()

	if _, err := s.ScanDirectory("/absent"); err == nil {
		t.Error("ScanDirectory should fail for a missing directory")
	}
}

func TestValidateDirectory(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("plant.fmu", []byte("archive"))

	if err := s.ValidateDirectory("/models"); err != nil {
		t.Errorf("ValidateDirectory failed: %v", err)
	}
}

func TestValidateDirectory_NoArchives(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("readme.md", []byte("docs only"))

	if err := s.ValidateDirectory("/models"); err == nil {
		t.Error("ValidateDirectory should fail when no archives exist")
	}
}

func TestValidateDirectory_NotADirectory(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("plant.fmu", []byte("archive"))

	if err := s.ValidateDirectory("/models/plant.fmu"); err == nil {
		t.Error("ValidateDirectory should fail for a file path")
	}
}
