// Package vfs implements a virtual, in-memory filesystem tree with lazy
// population from a backing resolver, O(1) copy-on-write cloning, symlinks
// with cycle-safe resolution, and one-way recursive freezing.
//
// A filesystem instance is exclusively owned by one caller at a time;
// sharing happens only through frozen instances, which no mutation path can
// reach, and Clone, which gives each caller an independent mutable view.
package vfs

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"tractor.dev/shadowfs/vpath"
)

// ErrReadOnly is the error every mutator fails with on a frozen entry,
// wrapped in a *fs.PathError.
var ErrReadOnly = errors.New("read only")

// Resolver is the one contract the core consumes from outside: listing a
// backing directory's entry names split by kind, and reading a backing
// file's content. Descriptors are the absolute virtual paths the resolver
// was bound under.
type Resolver interface {
	Entries(path string) (files, dirs []string)
	ReadFile(path string) (content string, ok bool)
}

// FS is the root container of a virtual filesystem tree. It holds the
// current directory and the case-sensitivity policy, both of which scope
// every path-based operation.
type FS struct {
	cwd           string
	caseSensitive bool
	root          *Directory
	log           *slog.Logger
}

// New returns an empty filesystem rooted at "/" with the given case
// policy. The policy is fixed for the life of the instance.
func New(caseSensitive bool) *FS {
	return &FS{
		cwd:           Separator,
		caseSensitive: caseSensitive,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger replaces the filesystem's logger, which defaults to discard.
func SetLogger(fsys *FS, log *slog.Logger) {
	fsys.log = log
}

// CaseSensitive reports whether names compare case-sensitively.
func (fsys *FS) CaseSensitive() bool { return fsys.caseSensitive }

// CurrentDirectory returns the current directory paths resolve against.
func (fsys *FS) CurrentDirectory() string { return fsys.cwd }

// SetCurrentDirectory changes the current directory.
func (fsys *FS) SetCurrentDirectory(dir string) {
	fsys.cwd = vpath.Normalize(dir)
}

// Root returns the root directory, creating it on first access.
func (fsys *FS) Root() *Directory {
	if fsys.root == nil {
		fsys.root = &Directory{entry: entry{fsys: fsys}}
	}
	return fsys.root
}

// lookup walks an already-resolved absolute path component by component.
// It never follows a terminal symlink, but intermediate directory
// symlinks are traversed through. Missing components and traversal
// through a non-container yield nil.
func (fsys *FS) lookup(p string) Entry {
	return fsys.lookupSeen(p, make(map[Entry]struct{}))
}

// lookupSeen shares the caller's visited set so a chain that re-enters
// itself through an intermediate component still terminates as broken.
func (fsys *FS) lookupSeen(p string, seen map[Entry]struct{}) Entry {
	comps := vpath.Parse(p)
	var e Entry = fsys.Root()
	for _, name := range comps[1:] {
		var d *Directory
		switch c := e.(type) {
		case *Directory:
			d = c
		case *DirSymlink:
			d, _ = resolveSeen(fsys, c, seen).(*Directory)
		}
		if d == nil {
			return nil
		}
		if e = d.Get(name); e == nil {
			return nil
		}
	}
	return e
}

// Traverse resolves path against the current directory and walks the tree
// to the named entry. Lookups are total: a missing or wrong-kind path
// yields nil, never an error. With followSymlinks, a terminal symlink
// chain is followed cycle-safely; a broken chain also yields nil.
func (fsys *FS) Traverse(path string, followSymlinks bool) Entry {
	e := fsys.lookup(vpath.Resolve(fsys.cwd, path))
	if e == nil || !followSymlinks {
		return e
	}
	return resolveTarget(fsys, e)
}

// AddDirectory ensures a directory exists at path, creating missing
// ancestors as plain empty directories. A resolver, if given, is attached
// only to the leaf. Returns nil without an error when the path traverses
// through a non-directory; ancestors created on the way stay.
func (fsys *FS) AddDirectory(path string, resolver Resolver) (*Directory, error) {
	comps := vpath.Parse(vpath.Resolve(fsys.cwd, path))
	d := fsys.Root()
	for i, name := range comps[1:] {
		var r Resolver
		if i == len(comps)-2 {
			r = resolver
		}
		sub, err := d.AddDirectory(name, r)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, nil
		}
		d = sub
	}
	d.bindResolver(resolver)
	return d, nil
}

// AddFile ensures the parent directory exists and inserts a file there.
// Adding is idempotent creation: an existing file at path is returned
// unchanged, and an existing entry of another kind yields nil.
func (fsys *FS) AddFile(path, content string) (*File, error) {
	p := vpath.Resolve(fsys.cwd, path)
	d, err := fsys.AddDirectory(vpath.Dir(p), nil)
	if err != nil || d == nil {
		return nil, err
	}
	return d.AddFile(vpath.Base(p), content)
}

// AddSymlink creates a symlink at path. The target may be a path string
// or a live *File or *Directory, in which case its absolute path is used.
// The symlink's kind follows the target's kind; a string target is
// classified against the current tree, defaulting to a file symlink.
func (fsys *FS) AddSymlink(path string, target any) (Entry, error) {
	var targetPath string
	dir := false
	switch t := target.(type) {
	case string:
		targetPath = vpath.Resolve(fsys.cwd, t)
		switch fsys.Traverse(targetPath, true).(type) {
		case *Directory:
			dir = true
		}
	case *File:
		targetPath = t.Path()
	case *Directory:
		targetPath = t.Path()
		dir = true
	default:
		return nil, &fs.PathError{Op: "addsymlink", Path: path, Err: fs.ErrInvalid}
	}
	p := vpath.Resolve(fsys.cwd, path)
	d, err := fsys.AddDirectory(vpath.Dir(p), nil)
	if err != nil || d == nil {
		return nil, err
	}
	if dir {
		return d.AddDirSymlink(vpath.Base(p), targetPath)
	}
	return d.AddFileSymlink(vpath.Base(p), targetPath)
}

// RemoveFile splices the file or file symlink at path out of its parent.
// Reports whether removal occurred; the error is non-nil only when the
// parent is frozen.
func (fsys *FS) RemoveFile(path string) (bool, error) {
	return fsys.remove(path, func(e Entry) bool {
		switch e.(type) {
		case *File, *FileSymlink:
			return true
		}
		return false
	})
}

// RemoveDirectory splices the directory or directory symlink at path out
// of its parent. Reports whether removal occurred; the error is non-nil
// only when the parent is frozen.
func (fsys *FS) RemoveDirectory(path string) (bool, error) {
	return fsys.remove(path, func(e Entry) bool {
		switch e.(type) {
		case *Directory, *DirSymlink:
			return true
		}
		return false
	})
}

func (fsys *FS) remove(path string, match func(Entry) bool) (bool, error) {
	p := vpath.Resolve(fsys.cwd, path)
	d, ok := fsys.lookup(vpath.Dir(p)).(*Directory)
	if !ok {
		return false, nil
	}
	return d.Remove(vpath.Base(p), match)
}

// FileExists reports whether path resolves, through symlinks, to a file.
func (fsys *FS) FileExists(path string) bool {
	_, ok := fsys.Traverse(path, true).(*File)
	return ok
}

// DirectoryExists reports whether path resolves, through symlinks, to a
// directory.
func (fsys *FS) DirectoryExists(path string) bool {
	_, ok := fsys.Traverse(path, true).(*Directory)
	return ok
}

// AccessibleEntries returns the names of the directory's children split
// by kind, the shape path-matching logic outside the core expects. A
// missing or non-directory path yields empty listings.
func (fsys *FS) AccessibleEntries(path string) (files, dirs []string) {
	d, ok := fsys.Traverse(path, true).(*Directory)
	if !ok {
		return nil, nil
	}
	for _, c := range d.Entries() {
		switch c.(type) {
		case *File, *FileSymlink:
			files = append(files, c.Name())
		case *Directory, *DirSymlink:
			dirs = append(dirs, c.Name())
		}
	}
	return files, dirs
}

// ReadFile returns the content of the file at path, following symlinks.
func (fsys *FS) ReadFile(path string) (string, bool) {
	switch e := fsys.Traverse(path, false).(type) {
	case *File:
		return e.Content(), true
	case *FileSymlink:
		if f := e.Resolve(); f != nil {
			return f.Content(), true
		}
	}
	return "", false
}

// WriteFile sets the content of the file at path, creating it and any
// missing ancestors if needed. Symlinks write through to their target.
func (fsys *FS) WriteFile(path, content string) error {
	switch e := fsys.Traverse(path, false).(type) {
	case *File:
		return e.SetContent(content)
	case *FileSymlink:
		return e.SetContent(content)
	}
	_, err := fsys.AddFile(path, content)
	return err
}

// Clone returns a new, unfrozen filesystem whose root shadows this one.
// No child data is copied at clone time; cost is deferred to first-touch
// materialization. Mutations on either side never affect the other.
func (fsys *FS) Clone() *FS {
	c := &FS{
		cwd:           fsys.cwd,
		caseSensitive: fsys.caseSensitive,
		log:           fsys.log,
	}
	c.root = &Directory{
		entry:  entry{fsys: c},
		source: &dirShadowSource{origin: fsys.Root()},
	}
	fsys.log.Debug("clone", "cwd", fsys.cwd)
	return c
}

// MakeReadOnly freezes the whole tree. Freezing is one-way.
func (fsys *FS) MakeReadOnly() {
	fsys.Root().MakeReadOnly()
	fsys.log.Debug("freeze")
}

// ReadOnly reports whether the tree is frozen.
func (fsys *FS) ReadOnly() bool {
	return fsys.Root().ReadOnly()
}
