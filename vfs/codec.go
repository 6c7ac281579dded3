package vfs

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"tractor.dev/shadowfs/vpath"
)

// Tree snapshots move a filesystem between processes as bytes. The
// encoding covers names, kinds, contents and symlink targets plus the
// filesystem's policy state; read-only flags are not carried, so an
// imported tree is always mutable.

const (
	nodeFile = iota
	nodeDir
	nodeFileSymlink
	nodeDirSymlink
)

type snapshotNode struct {
	Name     string         `cbor:"name"`
	Kind     int            `cbor:"kind"`
	Content  string         `cbor:"content,omitempty"`
	Target   string         `cbor:"target,omitempty"`
	Children []snapshotNode `cbor:"children,omitempty"`
}

type snapshot struct {
	CaseSensitive bool         `cbor:"casesensitive"`
	Cwd           string       `cbor:"cwd"`
	Root          snapshotNode `cbor:"root"`
}

// Export encodes the fully materialized tree as CBOR.
func Export(fsys *FS) ([]byte, error) {
	s := snapshot{
		CaseSensitive: fsys.caseSensitive,
		Cwd:           fsys.cwd,
		Root:          exportDir(fsys.Root()),
	}
	return cbor.Marshal(s)
}

func exportDir(d *Directory) snapshotNode {
	n := snapshotNode{Name: d.Name(), Kind: nodeDir}
	for _, c := range d.Entries() {
		switch e := c.(type) {
		case *Directory:
			n.Children = append(n.Children, exportDir(e))
		case *File:
			n.Children = append(n.Children, snapshotNode{Name: e.Name(), Kind: nodeFile, Content: e.Content()})
		case *FileSymlink:
			n.Children = append(n.Children, snapshotNode{Name: e.Name(), Kind: nodeFileSymlink, Target: e.Target()})
		case *DirSymlink:
			n.Children = append(n.Children, snapshotNode{Name: e.Name(), Kind: nodeDirSymlink, Target: e.Target()})
		}
	}
	return n
}

// Import decodes a snapshot into a new, unfrozen filesystem.
func Import(data []byte) (*FS, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	fsys := New(s.CaseSensitive)
	fsys.cwd = s.Cwd
	if err := importDir(fsys.Root(), s.Root); err != nil {
		return nil, err
	}
	return fsys, nil
}

// importDir rebuilds children through the idempotent Add methods, which
// return a nil entry when the name is already taken by another kind.
// A snapshot carrying such a collision is malformed; it is reported as
// a decode error rather than left to corrupt the tree.
func importDir(d *Directory, n snapshotNode) error {
	for _, c := range n.Children {
		switch c.Kind {
		case nodeDir:
			sub, err := d.AddDirectory(c.Name, nil)
			if err != nil {
				return err
			}
			if sub == nil {
				return collisionErr(d, c.Name)
			}
			if err := importDir(sub, c); err != nil {
				return err
			}
		case nodeFile:
			f, err := d.AddFile(c.Name, c.Content)
			if err != nil {
				return err
			}
			if f == nil {
				return collisionErr(d, c.Name)
			}
		case nodeFileSymlink:
			s, err := d.AddFileSymlink(c.Name, c.Target)
			if err != nil {
				return err
			}
			if s == nil {
				return collisionErr(d, c.Name)
			}
		case nodeDirSymlink:
			s, err := d.AddDirSymlink(c.Name, c.Target)
			if err != nil {
				return err
			}
			if s == nil {
				return collisionErr(d, c.Name)
			}
		default:
			return fmt.Errorf("snapshot: unknown node kind %d", c.Kind)
		}
	}
	return nil
}

func collisionErr(d *Directory, name string) error {
	return fmt.Errorf("snapshot: conflicting kinds for %s", vpath.Combine(d.Path(), name))
}
