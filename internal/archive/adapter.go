// Package archive adapts an FMU zip archive to variable-level operations
// on its embedded model description.
//
// One FMU instance exclusively owns one opened archive and its parsed
// document; instances are not safe for concurrent use without external
// locking. Every non-description member is passed through byte-for-byte
// on save, with its original compression.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vvka-141/fmured/internal/description"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// FMU is an opened .fmu archive. The model description is parsed lazily
// on first variable access and cached for the lifetime of the instance.
type FMU struct {
	path   string
	raw    []byte      // original archive bytes
	zr     *zip.Reader // reader over raw
	member *zip.File   // the modelDescription.xml member
	doc    *description.Document
	closed bool
}

// Open reads the archive at path. Fails with ErrArchiveNotFound when the
// path does not exist, or ErrArchiveFormat when the file is not a valid
// zip archive or lacks a modelDescription.xml member at the archive root.
//
// The file is read into memory and released immediately; no descriptor
// stays open between operations.
func Open(path string) (*FMU, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fmured.ErrArchiveNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a zip archive: %v", fmured.ErrArchiveFormat, path, err)
	}

	f := &FMU{path: path, raw: raw, zr: zr}
	for _, m := range zr.File {
		if m.Name == fmured.ModelDescriptionMember {
			f.member = m
			break
		}
	}
	if f.member == nil {
		return nil, fmt.Errorf("%w: %s has no %s member", fmured.ErrArchiveFormat, path, fmured.ModelDescriptionMember)
	}
	return f, nil
}

// Path returns the source path of the archive.
func (f *FMU) Path() string { return f.path }

// MemberNames returns the archive member names in archive order.
func (f *FMU) MemberNames() []string {
	names := make([]string, 0, len(f.zr.File))
	for _, m := range f.zr.File {
		names = append(names, m.Name)
	}
	return names
}

// Close releases the cached document and archive bytes. Operations after
// Close fail.
func (f *FMU) Close() error {
	f.closed = true
	f.doc = nil
	f.zr = nil
	f.raw = nil
	return nil
}

// Document exposes the parsed model description for operations beyond
// the adapter's own delegation surface.
func (f *FMU) Document() (*description.Document, error) {
	return f.ensureDoc()
}

// Variable returns a snapshot of the named scalar variable.
func (f *FMU) Variable(name string) (fmured.Variable, error) {
	doc, err := f.ensureDoc()
	if err != nil {
		return fmured.Variable{}, err
	}
	return doc.Variable(name)
}

// Variables returns snapshots of all variables in declaration order.
func (f *FMU) Variables() ([]fmured.Variable, error) {
	return f.Query(fmured.Query{})
}

// Query returns snapshots of all variables matching the query.
func (f *FMU) Query(q fmured.Query) ([]fmured.Variable, error) {
	doc, err := f.ensureDoc()
	if err != nil {
		return nil, err
	}
	return doc.Query(q), nil
}

// SetStart type-checks and replaces the start value of the named variable.
func (f *FMU) SetStart(name string, value any) error {
	doc, err := f.ensureDoc()
	if err != nil {
		return err
	}
	return doc.SetStart(name, value)
}

// Delete removes the named variable from the model description.
func (f *FMU) Delete(name string) error {
	doc, err := f.ensureDoc()
	if err != nil {
		return err
	}
	return doc.Delete(name)
}

// RefreshGUID recomputes the root guid attribute from the document
// content and returns the new value.
func (f *FMU) RefreshGUID() (string, error) {
	doc, err := f.ensureDoc()
	if err != nil {
		return "", err
	}
	return doc.RefreshGUID(), nil
}

// Validate runs the bundled schema over the current document state.
func (f *FMU) Validate() (fmured.ValidationResult, error) {
	doc, err := f.ensureDoc()
	if err != nil {
		return fmured.ValidationResult{}, err
	}
	return doc.Validate()
}

// Save writes the archive with the current model description to
// targetPath, or over the source path when targetPath is empty.
//
// The document is validated first; an invalid document fails with a
// *fmured.SchemaValidationError and nothing is written. The archive is
// assembled in a temporary file in the target directory and renamed into
// place on success, so a failure never leaves a partial archive behind.
func (f *FMU) Save(targetPath string) error {
	doc, err := f.ensureDoc()
	if err != nil {
		return err
	}
	result, err := doc.Validate()
	if err != nil {
		return err
	}
	if targetPath == "" {
		targetPath = f.path
	}
	if !result.Valid {
		return &fmured.SchemaValidationError{Path: targetPath, Diagnostics: result.Diagnostics}
	}
	data := doc.XML()

	tmp, err := os.CreateTemp(filepath.Dir(targetPath), ".fmured-*")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := f.writeArchive(tmp, data); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("renaming archive into place: %w", err)
	}
	committed = true
	return nil
}

// writeArchive copies every member into w in archive order. The model
// description member is regenerated from data; all others are raw-copied
// so bytes and compression settings stay identical.
func (f *FMU) writeArchive(w io.Writer, data []byte) error {
	zw := zip.NewWriter(w)
	for _, m := range f.zr.File {
		if m.Name == fmured.ModelDescriptionMember {
			hdr := &zip.FileHeader{
				Name:     m.Name,
				Method:   zip.Deflate,
				Modified: m.Modified,
			}
			member, err := zw.CreateHeader(hdr)
			if err != nil {
				return fmt.Errorf("writing %s: %w", m.Name, err)
			}
			if _, err := member.Write(data); err != nil {
				return fmt.Errorf("writing %s: %w", m.Name, err)
			}
			continue
		}

		raw, err := m.OpenRaw()
		if err != nil {
			return fmt.Errorf("opening member %s: %w", m.Name, err)
		}
		hdr := m.FileHeader
		member, err := zw.CreateRaw(&hdr)
		if err != nil {
			return fmt.Errorf("copying member %s: %w", m.Name, err)
		}
		if _, err := io.Copy(member, raw); err != nil {
			return fmt.Errorf("copying member %s: %w", m.Name, err)
		}
	}
	return zw.Close()
}

// ensureDoc parses the model description member on first use.
func (f *FMU) ensureDoc() (*description.Document, error) {
	if f.closed {
		return nil, fmt.Errorf("%w: archive is closed", fmured.ErrArchiveFormat)
	}
	if f.doc != nil {
		return f.doc, nil
	}

	rc, err := f.member.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", fmured.ErrArchiveFormat, fmured.ModelDescriptionMember, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", fmured.ErrArchiveFormat, fmured.ModelDescriptionMember, err)
	}

	doc, err := description.Parse(data)
	if err != nil {
		return nil, err
	}
	f.doc = doc
	return doc, nil
}
