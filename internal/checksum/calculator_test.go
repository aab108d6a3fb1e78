package checksum

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildArchive(t *testing.T, members map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestSHA256_Archive(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Empty content",
			content:  "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "Known content",
			content:  "hello",
			expected: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Archive([]byte(tt.content))
			if result != tt.expected {
				t.Errorf("Archive() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestSHA256_Archive_Deterministic(t *testing.T) {
	calc := New()
	content := buildArchive(t, map[string]string{"modelDescription.xml": "<x/>"})

	first := calc.Archive(content)
	second := calc.Archive(content)
	if first != second {
		t.Errorf("Archive() is not deterministic: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Archive() returned hash of length %d, expected 64", len(first))
	}
}

func TestSHA256_Members(t *testing.T) {
	calc := New()

	content := buildArchive(t, map[string]string{
		"modelDescription.xml": "<fmiModelDescription/>",
		"binaries/model.so":    "\x00\x01\x02",
	})

	digests, err := calc.Members(content)
	if err != nil {
		t.Fatalf("Members() failed: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("Members() returned %d digests, expected 2", len(digests))
	}
	for name, digest := range digests {
		if len(digest) != 64 {
			t.Errorf("member %s: digest length %d, expected 64", name, len(digest))
		}
	}
}

func TestSHA256_Members_StableAcrossRecompression(t *testing.T) {
	calc := New()

	members := map[string]string{
		"modelDescription.xml": "<fmiModelDescription/>",
		"resources/data.txt":   "payload",
	}
	stored := func(level int) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		zw.RegisterCompressor(zip.Deflate, nil)
		for name, content := range members {
			method := uint16(zip.Deflate)
			if level == 0 {
				method = zip.Store
			}
			w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
			if err != nil {
				t.Fatalf("creating member %s: %v", name, err)
			}
			if _, err := w.Write([]byte(content)); err != nil {
				t.Fatalf("writing member %s: %v", name, err)
			}
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("closing archive: %v", err)
		}
		return buf.Bytes()
	}

	deflated := stored(1)
	uncompressed := stored(0)

	if calc.Archive(deflated) == calc.Archive(uncompressed) {
		t.Error("Archive() should differ across compression methods")
	}

	first, err := calc.Members(deflated)
	if err != nil {
		t.Fatalf("Members(deflated) failed: %v", err)
	}
	second, err := calc.Members(uncompressed)
	if err != nil {
		t.Fatalf("Members(uncompressed) failed: %v", err)
	}
	for name, digest := range first {
		if second[name] != digest {
			t.Errorf("member %s: digest changed across compression: %s != %s", name, digest, second[name])
		}
	}
}

func TestSHA256_Members_NotAnArchive(t *testing.T) {
	calc := New()

	if _, err := calc.Members([]byte("not a zip archive")); err == nil {
		t.Error("Members() should fail for non-zip content")
	}
}
