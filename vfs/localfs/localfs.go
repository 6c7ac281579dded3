// Package localfs adapts a real filesystem directory to the resolver
// contract the virtual filesystem core consumes. All access goes through
// an os.Root, so the adapter cannot escape its backing directory.
package localfs

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// Resolver reads directory listings and file contents beneath a backing
// directory. Descriptors are the absolute virtual paths the resolver was
// bound under, mapped onto paths relative to the backing directory.
type Resolver struct {
	root *os.Root
}

// New returns a resolver rooted at dir.
func New(dir string) (*Resolver, error) {
	r, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: r}, nil
}

// Entries lists the names beneath the descriptor split by kind. Symlinks
// on the real filesystem are classified by what they point at. A missing
// or unreadable location yields empty listings.
func (r *Resolver) Entries(dir string) (files, dirs []string) {
	entries, err := fs.ReadDir(r.root.FS(), relName(dir))
	if err != nil {
		return nil, nil
	}
	for _, e := range entries {
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			if fi, err := r.root.Stat(path.Join(relName(dir), e.Name())); err == nil {
				isDir = fi.IsDir()
			}
		}
		if isDir {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}
	return files, dirs
}

// ReadFile returns the content beneath the descriptor, reporting whether
// it could be read.
func (r *Resolver) ReadFile(file string) (string, bool) {
	b, err := fs.ReadFile(r.root.FS(), relName(file))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func relName(p string) string {
	name := strings.TrimPrefix(p, "/")
	if name == "" {
		return "."
	}
	return name
}
