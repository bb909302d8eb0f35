// Package fs provides the filesystem abstraction the explorer reads through.
package fs

import (
	"io"
	"io/fs"
	"time"
)

// FileInfo holds file metadata.
type FileInfo struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// DirEntry represents a single directory entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem abstracts the read-only operations the explorer needs so
// callers and tests can substitute the host filesystem.
type FileSystem interface {
	Stat(path string) (FileInfo, error)
	Lstat(path string) (FileInfo, error)
	ReadDir(path string) ([]DirEntry, error)
	Open(path string) (io.ReadCloser, error)
	Resolve(path string) (string, error)
}
