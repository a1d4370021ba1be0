package scan

import (
	"os"
	"syscall"
	"time"

	"tidy/internal/classify"
	"tidy/internal/fingerprint"
)

// FileRecord is one discovered regular file and everything the planner
// knows about it.
type FileRecord struct {
	Name     string // name within the destination group; may carry a duplicate marker
	Path     string // absolute source path
	Ext      string // derived extension, possibly empty
	Category classify.Category
	Size     int64
	Created  time.Time
	Modified time.Time
	StatOK   bool // false when the file could not be stat'd; times and size are zero
	Digest   fingerprint.Digest
}

// Metadata holds the stat-derived fields of a FileRecord. OK
// distinguishes "timestamp is the epoch" from "could not stat".
type Metadata struct {
	Size     int64
	Created  time.Time
	Modified time.Time
	OK       bool
}

// ReadMetadata stats path and returns its size and timestamps. Failure
// yields a zeroed record with OK=false; one unreadable file must not
// abort a scan.
func ReadMetadata(path string) Metadata {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}
	}

	m := Metadata{
		Size:     info.Size(),
		Modified: info.ModTime(),
		OK:       true,
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		m.Created = createdFromStat(st)
	} else {
		m.Created = m.Modified
	}
	return m
}
