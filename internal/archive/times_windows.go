//go:build windows

package archive

import (
	"os"
	"time"
)

// setModTime stamps path with mtime. Symlinks are left alone since
// Windows cannot retime a link without following it.
func setModTime(path string, mtime time.Time) error {
	if mtime.IsZero() {
		return nil
	}
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil
	}
	return os.Chtimes(path, mtime, mtime)
}
