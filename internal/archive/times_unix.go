//go:build !windows

package archive

import (
	"time"

	"golang.org/x/sys/unix"
)

// setModTime stamps path with mtime without following symlinks.
func setModTime(path string, mtime time.Time) error {
	if mtime.IsZero() {
		return nil
	}
	ts := unix.NsecToTimespec(mtime.UnixNano())
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, []unix.Timespec{ts, ts}, unix.AT_SYMLINK_NOFOLLOW)
}
