package vfs

import (
	"runtime"
	"sync"

	"tractor.dev/shadowfs/vfs/localfs"
)

var (
	baseline     *FS
	baselineOnce sync.Once
)

// Baseline returns the process-wide built-in filesystem. The first call
// populates it lazily from the real filesystem under dir and permanently
// freezes it; later calls return the same instance and ignore dir. It is
// never recreated, so callers wanting a mutable working copy Clone it
// instead of re-reading the real filesystem.
func Baseline(dir string) *FS {
	baselineOnce.Do(func() {
		fsys := New(useCaseSensitiveNames())
		if r, err := localfs.New(dir); err == nil {
			fsys.AddDirectory(Separator, r)
		}
		fsys.MakeReadOnly()
		baseline = fsys
	})
	return baseline
}

func useCaseSensitiveNames() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return false
	}
	return true
}
