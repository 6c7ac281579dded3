package vfs

import (
	"testing"
)

func TestCloneReadsMatchOriginal(t *testing.T) {
	fsys := New(true)
	mustAddFile(t, fsys, "/src/a.txt", "alpha")
	mustAddFile(t, fsys, "/src/deep/b.txt", "beta")
	fsys.MakeReadOnly()

	clone := fsys.Clone()
	if clone.ReadOnly() {
		t.Fatal("clone of a frozen tree must be mutable")
	}
	if got, _ := clone.ReadFile("/src/a.txt"); got != "alpha" {
		t.Errorf("clone read = %q", got)
	}
	if got, _ := clone.ReadFile("/src/deep/b.txt"); got != "beta" {
		t.Errorf("clone read = %q", got)
	}
}

func TestCloneMutationIsolation(t *testing.T) {
	fsys := New(true)
	mustAddFile(t, fsys, "/a.txt", "orig")
	fsys.MakeReadOnly()

	clone := fsys.Clone()
	if err := clone.WriteFile("/a.txt", "changed"); err != nil {
		t.Fatal(err)
	}
	mustAddFile(t, clone, "/new.txt", "n")

	if got, _ := clone.ReadFile("/a.txt"); got != "changed" {
		t.Errorf("clone read = %q", got)
	}
	if got, _ := fsys.ReadFile("/a.txt"); got != "orig" {
		t.Errorf("original read = %q, clone mutation leaked", got)
	}
	if fsys.FileExists("/new.txt") {
		t.Error("file added to clone leaked into original")
	}
}

func TestCloneIsolationBothDirections(t *testing.T) {
	fsys := New(true)
	mustAddFile(t, fsys, "/shared.txt", "v1")

	clone := fsys.Clone()
	// materialize the clone's view before touching the original
	if got, _ := clone.ReadFile("/shared.txt"); got != "v1" {
		t.Fatalf("clone read = %q", got)
	}

	if err := fsys.WriteFile("/shared.txt", "v2"); err != nil {
		t.Fatal(err)
	}
	if got, _ := clone.ReadFile("/shared.txt"); got != "v1" {
		t.Errorf("clone read = %q, original mutation leaked", got)
	}

	if err := clone.WriteFile("/shared.txt", "v3"); err != nil {
		t.Fatal(err)
	}
	if got, _ := fsys.ReadFile("/shared.txt"); got != "v2" {
		t.Errorf("original read = %q, clone mutation leaked", got)
	}
}

func TestCloneIsLazy(t *testing.T) {
	r := &fakeResolver{files: map[string]string{
		"/pkg/a.txt": "a",
	}}
	fsys := New(true)
	if _, err := fsys.AddDirectory("/pkg", r); err != nil {
		t.Fatal(err)
	}
	fsys.MakeReadOnly()

	clone := fsys.Clone()
	if got := r.listCalls["/pkg"]; got != 0 {
		t.Fatalf("clone triggered %d resolver listings, want 0", got)
	}
	if got, _ := clone.ReadFile("/pkg/a.txt"); got != "a" {
		t.Errorf("clone read = %q", got)
	}
	if got := r.listCalls["/pkg"]; got != 1 {
		t.Errorf("list calls = %d, want 1", got)
	}
}

func TestCloneOfClone(t *testing.T) {
	fsys := New(true)
	mustAddFile(t, fsys, "/x", "one")
	fsys.MakeReadOnly()

	c1 := fsys.Clone()
	c2 := c1.Clone()
	if err := c2.WriteFile("/x", "two"); err != nil {
		t.Fatal(err)
	}
	if got, _ := c1.ReadFile("/x"); got != "one" {
		t.Errorf("first clone read = %q", got)
	}
	if got, _ := c2.ReadFile("/x"); got != "two" {
		t.Errorf("second clone read = %q", got)
	}
}

func TestFreezeRecursive(t *testing.T) {
	fsys := New(true)
	f := mustAddFile(t, fsys, "/a/b/c.txt", "x")
	d := fsys.Traverse("/a", false).(*Directory)

	fsys.MakeReadOnly()
	if !d.ReadOnly() {
		t.Error("descendant directory not frozen")
	}
	if !f.ReadOnly() {
		t.Error("descendant file not frozen")
	}

	// frozen clone source, mutable clone: the frozen flag does not follow
	clone := fsys.Clone()
	cf, ok := clone.Traverse("/a/b/c.txt", false).(*File)
	if !ok {
		t.Fatal("expected file in clone")
	}
	if cf.ReadOnly() {
		t.Error("clone's file inherited frozen flag")
	}
}
