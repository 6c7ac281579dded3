package localfs

import (
	"os"
	"path/filepath"
	"testing"
)

func testDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("beta"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("gamma"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestEntries(t *testing.T) {
	r, err := New(testDir(t))
	if err != nil {
		t.Fatal(err)
	}

	files, dirs := r.Entries("/")
	if len(files) != 2 || files[0] != "a.txt" || files[1] != "b.txt" {
		t.Errorf("files = %v", files)
	}
	if len(dirs) != 1 || dirs[0] != "sub" {
		t.Errorf("dirs = %v", dirs)
	}

	files, dirs = r.Entries("/sub")
	if len(files) != 1 || files[0] != "c.txt" {
		t.Errorf("files = %v", files)
	}
	if len(dirs) != 1 || dirs[0] != "deep" {
		t.Errorf("dirs = %v", dirs)
	}

	files, dirs = r.Entries("/missing")
	if files != nil || dirs != nil {
		t.Errorf("missing dir: %v %v", files, dirs)
	}
}

func TestReadFile(t *testing.T) {
	r, err := New(testDir(t))
	if err != nil {
		t.Fatal(err)
	}

	if got, ok := r.ReadFile("/sub/c.txt"); !ok || got != "gamma" {
		t.Errorf("read = %q %v", got, ok)
	}
	if _, ok := r.ReadFile("/nope.txt"); ok {
		t.Error("expected miss")
	}
	// a directory is not readable as a file
	if _, ok := r.ReadFile("/sub"); ok {
		t.Error("expected miss reading a directory")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for a missing backing directory")
	}
}
