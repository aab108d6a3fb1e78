package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// Provider abstracts the filesystem operations the scanner and reducer
// need: flat directory listing and whole-file reads and writes. Archive
// discovery is non-recursive, so no tree walk is exposed.
type Provider interface {
	// ReadFile reads the file at the given path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes content to the given path, replacing any
	// existing file.
	WriteFile(path string, content []byte) error

	// ReadDir returns the entries of the directory at the given path.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}
