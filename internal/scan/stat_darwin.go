//go:build darwin

package scan

import (
	"syscall"
	"time"
)

// createdFromStat returns the file birth time.
func createdFromStat(st *syscall.Stat_t) time.Time {
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
