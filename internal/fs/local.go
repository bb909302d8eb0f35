package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem on the host filesystem. Paths are used as
// given: there is no root confinement.
type LocalFS struct{}

// NewLocalFS creates a LocalFS.
func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

// Stat returns metadata for path, following symbolic links.
func (l *LocalFS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return toFileInfo(info), nil
}

// Lstat returns metadata for path without following a final symbolic link.
func (l *LocalFS) Lstat(path string) (FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return toFileInfo(info), nil
}

// ReadDir lists the immediate children of the directory at path.
func (l *LocalFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, len(entries))
	for i, e := range entries {
		result[i] = DirEntry{
			Name:  e.Name(),
			IsDir: e.IsDir(),
		}
	}
	return result, nil
}

// Open opens the file at path for reading.
func (l *LocalFS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Resolve returns the absolute form of path with symbolic links evaluated.
func (l *LocalFS) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func toFileInfo(info fs.FileInfo) FileInfo {
	return FileInfo{
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}
}
