//go:build !linux && !darwin

package fsinfo

import "os"

func statTimes(_ string, _ os.FileInfo) fileTimes {
	return fileTimes{}
}
