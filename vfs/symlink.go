package vfs

import (
	"tractor.dev/shadowfs/vpath"
)

// FileSymlink is a file-kind entry that stores a target path and forwards
// content operations to the resolved target. An unresolvable or cyclic
// chain makes the symlink broken: reads yield zero values and writes are
// no-ops.
type FileSymlink struct {
	entry
	target string
}

var _ = (Entry)((*FileSymlink)(nil))

// Target returns the symlink's target path.
func (s *FileSymlink) Target() string { return s.target }

// SetTarget repoints the symlink. Fails if frozen.
func (s *FileSymlink) SetTarget(target string) error {
	if err := s.frozen("settarget"); err != nil {
		return err
	}
	s.target = target
	s.fsys.log.Debug("settarget", "path", s.Path(), "target", target)
	return nil
}

// Resolve follows the symlink chain and returns the terminal file, or nil
// if the chain is broken.
func (s *FileSymlink) Resolve() *File {
	f, _ := resolveTarget(s.fsys, s).(*File)
	return f
}

// Broken reports whether the chain fails to resolve to a file.
func (s *FileSymlink) Broken() bool { return s.Resolve() == nil }

// Content returns the resolved target's content, or "" if broken.
func (s *FileSymlink) Content() string {
	if f := s.Resolve(); f != nil {
		return f.Content()
	}
	return ""
}

// SetContent writes through to the resolved target. A broken symlink
// makes this a no-op.
func (s *FileSymlink) SetContent(content string) error {
	if f := s.Resolve(); f != nil {
		return f.SetContent(content)
	}
	return nil
}

func (s *FileSymlink) Exists() bool { return entryExists(s) }

func (s *FileSymlink) clone(fsys *FS, parent *Directory) Entry {
	return &FileSymlink{
		entry:  entry{fsys: fsys, parent: parent, name: s.name, readOnly: parent.readOnly},
		target: s.target,
	}
}

// DirSymlink is a directory-kind entry that stores a target path and
// forwards container operations to the resolved target.
type DirSymlink struct {
	entry
	target string
}

var _ = (Entry)((*DirSymlink)(nil))

// Target returns the symlink's target path.
func (s *DirSymlink) Target() string { return s.target }

// SetTarget repoints the symlink. Fails if frozen.
func (s *DirSymlink) SetTarget(target string) error {
	if err := s.frozen("settarget"); err != nil {
		return err
	}
	s.target = target
	s.fsys.log.Debug("settarget", "path", s.Path(), "target", target)
	return nil
}

// Resolve follows the symlink chain and returns the terminal directory,
// or nil if the chain is broken.
func (s *DirSymlink) Resolve() *Directory {
	d, _ := resolveTarget(s.fsys, s).(*Directory)
	return d
}

// Broken reports whether the chain fails to resolve to a directory.
func (s *DirSymlink) Broken() bool { return s.Resolve() == nil }

// Get returns the named child of the resolved target, or nil if broken.
func (s *DirSymlink) Get(name string) Entry {
	if d := s.Resolve(); d != nil {
		return d.Get(name)
	}
	return nil
}

// Entries lists the resolved target, or nothing if broken.
func (s *DirSymlink) Entries() []Entry {
	if d := s.Resolve(); d != nil {
		return d.Entries()
	}
	return nil
}

// AddFile adds a file to the resolved target. A broken symlink makes
// this a no-op.
func (s *DirSymlink) AddFile(name, content string) (*File, error) {
	if d := s.Resolve(); d != nil {
		return d.AddFile(name, content)
	}
	return nil, nil
}

func (s *DirSymlink) Exists() bool { return entryExists(s) }

func (s *DirSymlink) clone(fsys *FS, parent *Directory) Entry {
	return &DirSymlink{
		entry:  entry{fsys: fsys, parent: parent, name: s.name, readOnly: parent.readOnly},
		target: s.target,
	}
}

// resolveTarget walks symlink chains from e to a non-symlink entry.
// Every symlink visited anywhere in the resolution, including ones
// traversed as intermediate path components of a target, goes into one
// shared seen set; revisiting any of them means the chain is cyclic and
// resolution terminates as broken (nil) rather than looping.
func resolveTarget(fsys *FS, e Entry) Entry {
	return resolveSeen(fsys, e, make(map[Entry]struct{}))
}

func resolveSeen(fsys *FS, e Entry, seen map[Entry]struct{}) Entry {
	for {
		var target string
		switch s := e.(type) {
		case *FileSymlink:
			target = s.target
		case *DirSymlink:
			target = s.target
		default:
			return e
		}
		if _, ok := seen[e]; ok {
			return nil
		}
		seen[e] = struct{}{}
		e = fsys.lookupSeen(vpath.Resolve(Separator, target), seen)
		if e == nil {
			return nil
		}
	}
}
