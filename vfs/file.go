package vfs

// File is a leaf entry holding string content. Content is materialized
// lazily from its source on first read and the source is discarded, so
// materialization happens at most once per instance.
type File struct {
	entry
	content string
	source  fileSource // nil once materialized
}

var _ = (Entry)((*File)(nil))

// fileSource is the origin content comes from before materialization.
type fileSource interface {
	load(f *File) string
}

// fileResolverSource reads content from a backing location on demand.
type fileResolverSource struct {
	resolver Resolver
	backing  string
}

func (s *fileResolverSource) load(f *File) string {
	content, ok := s.resolver.ReadFile(s.backing)
	if !ok {
		return ""
	}
	return content
}

// fileShadowSource proxies reads to the copy-on-write origin until the
// clone materializes.
type fileShadowSource struct {
	origin *File
}

func (s *fileShadowSource) load(f *File) string {
	return s.origin.Content()
}

func (f *File) materialize() {
	if f.source == nil {
		return
	}
	src := f.source
	f.source = nil
	f.content = src.load(f)
}

// Content returns the file's content, materializing it if needed.
func (f *File) Content() string {
	f.materialize()
	return f.content
}

// SetContent replaces the file's content. A shadow-backed clone detaches
// from its origin here. Fails if the file is frozen.
func (f *File) SetContent(content string) error {
	if err := f.frozen("setcontent"); err != nil {
		return err
	}
	f.source = nil
	f.content = content
	f.fsys.log.Debug("setcontent", "path", f.Path(), "len", len(content))
	return nil
}

func (f *File) Exists() bool { return entryExists(f) }

func (f *File) clone(fsys *FS, parent *Directory) Entry {
	return &File{
		entry:  entry{fsys: fsys, parent: parent, name: f.name, readOnly: parent.readOnly},
		source: &fileShadowSource{origin: f},
	}
}
