package vfs

import (
	"golang.org/x/text/cases"
)

// sameName compares entry names under the filesystem's case policy.
// Case-insensitive comparison uses Unicode case folding rather than
// ordinal byte folding, so names like "STRASSE" and "straße" compare the
// way a case-ignoring filesystem treats them.
func (fsys *FS) sameName(a, b string) bool {
	if fsys.caseSensitive {
		return a == b
	}
	if a == b {
		return true
	}
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}
