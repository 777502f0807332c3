//go:build linux

package fsinfo

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// statTimes extracts access and birth times. Linux only exposes the birth
// time through statx, and not every filesystem records it.
func statTimes(path string, info os.FileInfo) fileTimes {
	var ft fileTimes
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		ft.accessed = time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
	}

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil &&
		stx.Mask&unix.STATX_BTIME != 0 {
		ft.created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return ft
}
