package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tidy/internal/event"
	"tidy/internal/stats"
)

// plainPresenter outputs one line per noteworthy event to stdout and
// errors to stderr.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	root    string
	verbose bool
	dryRun  bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	path := p.strip(ev.Path)
	dest := p.strip(ev.Dest)

	switch ev.Type {
	case event.FilePlanned:
		if p.verbose {
			fmt.Fprintf(p.w, "plan  %s -> %s/\n", path, ev.Group)
		}
	case event.DuplicateFound:
		fmt.Fprintf(p.w, "dup   %s (same content as %s)\n", path, dest)
	case event.FileSkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "skip  %s\n", path)
		}
	case event.DirCreated:
		fmt.Fprintf(p.w, "%s %s/\n", p.verb("mkdir"), dest)
	case event.FileMoved:
		fmt.Fprintf(p.w, "%s %s -> %s\n", p.verb("move"), path, dest)
	case event.MoveFailed:
		fmt.Fprintf(p.errW, "FAIL  %s: %v\n", path, ev.Error)
	case event.RollbackStarted:
		fmt.Fprintln(p.errW, "rolling back...")
	case event.FileRestored:
		fmt.Fprintf(p.w, "undo  %s -> %s\n", path, dest)
	case event.RestoreFailed:
		fmt.Fprintf(p.errW, "FAIL  could not restore %s: %v\n", dest, ev.Error)
	}
}

func (p *plainPresenter) verb(v string) string {
	if p.dryRun {
		return "would " + v
	}
	return v + " "
}

func (p *plainPresenter) strip(path string) string {
	if p.root == "" || path == "" {
		return path
	}
	if rel, err := filepath.Rel(p.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot(), p.dryRun)
}
