//go:build linux

package organize

import (
	"os"

	"golang.org/x/sys/unix"
)

// preserveTimes carries the source mtime onto dst after a cross-device
// copy. Access time is left untouched.
func preserveTimes(dst string, info os.FileInfo) error {
	times := []unix.Timespec{
		{Nsec: unix.UTIME_OMIT},
		unix.NsecToTimespec(info.ModTime().UnixNano()),
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, dst, times, 0)
}
