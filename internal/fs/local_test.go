package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func setupTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLocalFS_ReadDir(t *testing.T) {
	dir := setupTree(t)
	l := NewLocalFS()

	entries, err := l.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	kinds := make(map[string]bool)
	for _, e := range entries {
		kinds[e.Name] = e.IsDir
	}
	if isDir, ok := kinds["sub"]; !ok || !isDir {
		t.Error("expected sub to be listed as a directory")
	}
	if isDir, ok := kinds["a.txt"]; !ok || isDir {
		t.Error("expected a.txt to be listed as a file")
	}
}

func TestLocalFS_StatAndOpen(t *testing.T) {
	dir := setupTree(t)
	l := NewLocalFS()

	info, err := l.Stat(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.IsDir || info.Size != 2 {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Mode.Perm() != 0o644 {
		t.Logf("umask changed mode to %o", info.Mode.Perm())
	}

	rc, err := l.Open(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Errorf("expected content hi, got %q", data)
	}
}

func TestLocalFS_BrokenSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "missing"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	l := NewLocalFS()

	if _, err := l.Stat(link); err == nil {
		t.Error("expected Stat to fail on a dangling link")
	}
	if _, err := l.Lstat(link); err != nil {
		t.Errorf("expected Lstat to succeed, got %v", err)
	}
}

func TestLocalFS_Resolve(t *testing.T) {
	dir := setupTree(t)
	l := NewLocalFS()

	want, err := filepath.EvalSymlinks(filepath.Join(dir, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := l.Resolve(filepath.Join(dir, "sub", "..", "sub"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
