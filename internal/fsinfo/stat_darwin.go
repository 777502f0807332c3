//go:build darwin

package fsinfo

import (
	"os"
	"syscall"
	"time"
)

func statTimes(_ string, info os.FileInfo) fileTimes {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileTimes{}
	}
	return fileTimes{
		accessed: time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec),
		created:  time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec),
	}
}
