//go:build linux

package scan

import (
	"syscall"
	"time"
)

// createdFromStat returns the closest thing Linux offers to a creation
// time: the inode change time.
func createdFromStat(st *syscall.Stat_t) time.Time {
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
}
