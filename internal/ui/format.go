package ui

import (
	"fmt"
	"strings"
	"time"

	"tidy/internal/stats"
)

// CompletionSummary builds the final one-line summary from a stats
// snapshot.
func CompletionSummary(s stats.Snapshot, dryRun bool) string {
	var b strings.Builder

	if dryRun {
		fmt.Fprintf(&b, "Would organize %d of %d files (%s)",
			s.FilesPlanned, s.FilesScanned, stats.FormatBytes(s.BytesPlanned))
	} else {
		fmt.Fprintf(&b, "Moved %d of %d files (%s)",
			s.FilesMoved, s.FilesScanned, stats.FormatBytes(s.BytesMoved))
	}

	if s.DirsCreated > 0 {
		fmt.Fprintf(&b, ", created %d %s", s.DirsCreated, plural("directory", "directories", s.DirsCreated))
	}
	if s.DuplicatesFound > 0 {
		fmt.Fprintf(&b, ", %d %s", s.DuplicatesFound, plural("duplicate", "duplicates", s.DuplicatesFound))
	}
	if s.FilesSkipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", s.FilesSkipped)
	}
	if s.FilesRestored > 0 {
		fmt.Fprintf(&b, ", %d restored after failure", s.FilesRestored)
	}
	fmt.Fprintf(&b, " in %s", FormatDuration(s.Elapsed))

	return b.String()
}

// FormatDuration renders d with sensible precision for a summary line.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

func plural(one, many string, n int64) string {
	if n == 1 {
		return one
	}
	return many
}
