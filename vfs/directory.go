package vfs

import (
	"tractor.dev/shadowfs/vpath"
)

// Directory is a container entry. Children are unique by name under the
// owning filesystem's case policy and keep insertion order. A directory
// backed by a resolver or a shadow origin materializes its children on
// first access, exactly once; afterwards it is an ordinary mutable
// container (unless frozen).
type Directory struct {
	entry
	children []Entry
	source   dirSource // nil once materialized
}

var _ = (Entry)((*Directory)(nil))

type dirSource interface {
	populate(d *Directory)
}

// dirResolverSource lists a backing location and builds lazy children
// that carry the same resolver for further descent.
type dirResolverSource struct {
	resolver Resolver
	backing  string
}

func (s *dirResolverSource) populate(d *Directory) {
	files, dirs := s.resolver.Entries(s.backing)
	for _, name := range dirs {
		d.children = append(d.children, &Directory{
			entry:  entry{fsys: d.fsys, parent: d, name: name, readOnly: d.readOnly},
			source: &dirResolverSource{resolver: s.resolver, backing: vpath.Combine(s.backing, name)},
		})
	}
	for _, name := range files {
		d.children = append(d.children, &File{
			entry:  entry{fsys: d.fsys, parent: d, name: name, readOnly: d.readOnly},
			source: &fileResolverSource{resolver: s.resolver, backing: vpath.Combine(s.backing, name)},
		})
	}
}

// dirShadowSource clones the origin's children in, establishing
// copy-on-write: each child is itself shadow-backed until touched.
type dirShadowSource struct {
	origin *Directory
}

func (s *dirShadowSource) populate(d *Directory) {
	s.origin.materialize()
	for _, c := range s.origin.children {
		d.children = append(d.children, c.clone(d.fsys, d))
	}
}

func (d *Directory) materialize() {
	if d.source == nil {
		return
	}
	src := d.source
	d.source = nil
	src.populate(d)
}

// Get returns the child with the given name under the filesystem's case
// policy, or nil.
func (d *Directory) Get(name string) Entry {
	d.materialize()
	for _, c := range d.children {
		if d.fsys.sameName(c.Name(), name) {
			return c
		}
	}
	return nil
}

// Entries returns the children in insertion order.
func (d *Directory) Entries() []Entry {
	d.materialize()
	out := make([]Entry, len(d.children))
	copy(out, d.children)
	return out
}

// EntriesRecursive returns a pre-order listing: each directory is
// immediately followed by its own expansion. Directory symlinks are not
// descended into.
func (d *Directory) EntriesRecursive() []Entry {
	d.materialize()
	var out []Entry
	for _, c := range d.children {
		out = append(out, c)
		if sub, ok := c.(*Directory); ok {
			out = append(out, sub.EntriesRecursive()...)
		}
	}
	return out
}

// Directories returns the children that are directories or directory
// symlinks.
func (d *Directory) Directories() []Entry {
	d.materialize()
	var out []Entry
	for _, c := range d.children {
		switch c.(type) {
		case *Directory, *DirSymlink:
			out = append(out, c)
		}
	}
	return out
}

// Files returns the children that are files or file symlinks.
func (d *Directory) Files() []Entry {
	d.materialize()
	var out []Entry
	for _, c := range d.children {
		switch c.(type) {
		case *File, *FileSymlink:
			out = append(out, c)
		}
	}
	return out
}

// AddFile adds a file child with the given content. Adding is idempotent
// creation, not overwrite: an existing file of the same name is returned
// unchanged, and an existing entry of another kind yields nil.
func (d *Directory) AddFile(name, content string) (*File, error) {
	if err := d.frozen("addfile"); err != nil {
		return nil, err
	}
	if e := d.Get(name); e != nil {
		f, _ := e.(*File)
		return f, nil
	}
	f := &File{
		entry:   entry{fsys: d.fsys, parent: d, name: name},
		content: content,
	}
	d.children = append(d.children, f)
	d.fsys.log.Debug("addfile", "path", f.Path())
	return f, nil
}

// AddDirectory adds a directory child, optionally backed by a resolver.
// An existing directory of the same name is returned unchanged and the
// resolver is ignored; an existing entry of another kind yields nil.
func (d *Directory) AddDirectory(name string, resolver Resolver) (*Directory, error) {
	if err := d.frozen("adddirectory"); err != nil {
		return nil, err
	}
	if e := d.Get(name); e != nil {
		sub, _ := e.(*Directory)
		return sub, nil
	}
	sub := &Directory{entry: entry{fsys: d.fsys, parent: d, name: name}}
	if resolver != nil {
		sub.source = &dirResolverSource{resolver: resolver, backing: sub.Path()}
	}
	d.children = append(d.children, sub)
	d.fsys.log.Debug("adddirectory", "path", sub.Path(), "resolver", resolver != nil)
	return sub, nil
}

// AddFileSymlink adds a file symlink child pointing at target.
func (d *Directory) AddFileSymlink(name, target string) (*FileSymlink, error) {
	if err := d.frozen("addsymlink"); err != nil {
		return nil, err
	}
	if e := d.Get(name); e != nil {
		s, _ := e.(*FileSymlink)
		return s, nil
	}
	s := &FileSymlink{
		entry:  entry{fsys: d.fsys, parent: d, name: name},
		target: target,
	}
	d.children = append(d.children, s)
	d.fsys.log.Debug("addsymlink", "path", s.Path(), "target", target)
	return s, nil
}

// AddDirSymlink adds a directory symlink child pointing at target.
func (d *Directory) AddDirSymlink(name, target string) (*DirSymlink, error) {
	if err := d.frozen("addsymlink"); err != nil {
		return nil, err
	}
	if e := d.Get(name); e != nil {
		s, _ := e.(*DirSymlink)
		return s, nil
	}
	s := &DirSymlink{
		entry:  entry{fsys: d.fsys, parent: d, name: name},
		target: target,
	}
	d.children = append(d.children, s)
	d.fsys.log.Debug("addsymlink", "path", s.Path(), "target", target)
	return s, nil
}

// Remove splices out the named child if match accepts it. Reports
// whether removal occurred.
func (d *Directory) Remove(name string, match func(Entry) bool) (bool, error) {
	if err := d.frozen("remove"); err != nil {
		return false, err
	}
	d.materialize()
	for i, c := range d.children {
		if d.fsys.sameName(c.Name(), name) {
			if match != nil && !match(c) {
				return false, nil
			}
			d.children = append(d.children[:i], d.children[i+1:]...)
			d.fsys.log.Debug("remove", "path", c.Path())
			return true, nil
		}
	}
	return false, nil
}

// MakeReadOnly freezes the directory and every currently materialized
// descendant. Children not yet materialized inherit the flag when they
// are built.
func (d *Directory) MakeReadOnly() {
	if d.readOnly {
		return
	}
	d.readOnly = true
	for _, c := range d.children {
		c.MakeReadOnly()
	}
}

func (d *Directory) Exists() bool { return entryExists(d) }

func (d *Directory) clone(fsys *FS, parent *Directory) Entry {
	return &Directory{
		entry:  entry{fsys: fsys, parent: parent, name: d.name, readOnly: parent.readOnly},
		source: &dirShadowSource{origin: d},
	}
}

// bindResolver attaches a resolver to a still-empty directory. Used when
// a resolver is supplied for a directory that already exists, such as
// the root. A directory that already has a source or children keeps it.
func (d *Directory) bindResolver(resolver Resolver) {
	if resolver == nil || d.readOnly || d.source != nil || len(d.children) > 0 {
		return
	}
	d.source = &dirResolverSource{resolver: resolver, backing: d.Path()}
}
