package vfs

import (
	"io/fs"

	"tractor.dev/shadowfs/vpath"
)

// Entry is a node in a virtual filesystem tree: a *File, *Directory,
// *FileSymlink, or *DirSymlink.
type Entry interface {
	// Name returns the entry's name within its parent. Immutable.
	Name() string

	// Path returns the absolute path of the entry. It is computed once by
	// joining ancestor names and then cached; name and parent never change
	// after construction, so the cached value stays valid.
	Path() string

	// Relative returns the path made relative to the owning filesystem's
	// current directory, or the absolute path if none is set.
	Relative() (string, error)

	// FS returns the filesystem that owns the tree this entry belongs to.
	FS() *FS

	// Parent returns the directory holding this entry, or nil for the root.
	Parent() *Directory

	// ReadOnly reports whether the entry has been frozen.
	ReadOnly() bool

	// MakeReadOnly freezes the entry. Freezing is one-way and, for
	// directories, recursive over currently materialized children.
	MakeReadOnly()

	// Exists reports whether the entry is still reachable from the root:
	// its parent chain is intact and the parent still holds this entry
	// under its name.
	Exists() bool

	clone(fsys *FS, parent *Directory) Entry
}

// entry carries the state common to every node kind.
type entry struct {
	fsys     *FS
	parent   *Directory
	name     string
	path     string
	readOnly bool
}

func (e *entry) Name() string { return e.name }

func (e *entry) FS() *FS { return e.fsys }

func (e *entry) Parent() *Directory { return e.parent }

func (e *entry) ReadOnly() bool { return e.readOnly }

func (e *entry) MakeReadOnly() { e.readOnly = true }

func (e *entry) Path() string {
	if e.path == "" {
		if e.parent == nil {
			e.path = Separator
		} else {
			e.path = vpath.Combine(e.parent.Path(), e.name)
		}
	}
	return e.path
}

func (e *entry) Relative() (string, error) {
	if e.fsys == nil || e.fsys.cwd == "" {
		return e.Path(), nil
	}
	return vpath.Relative(e.fsys.cwd, e.Path(), !e.fsys.caseSensitive)
}

// frozen is the guard every mutator checks first.
func (e *entry) frozen(op string) error {
	if e.readOnly {
		return &fs.PathError{Op: op, Path: e.Path(), Err: ErrReadOnly}
	}
	return nil
}

// entryExists implements Exists for any concrete kind.
func entryExists(e Entry) bool {
	p := e.Parent()
	if p == nil {
		return e.FS() != nil && Entry(e.FS().root) == e
	}
	if !p.Exists() {
		return false
	}
	return p.Get(e.Name()) == e
}

// Separator is the path separator used by every virtual filesystem.
const Separator = vpath.Separator
