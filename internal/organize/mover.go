package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"tidy/internal/event"
	"tidy/internal/scan"
	"tidy/internal/stats"
)

// MoveRecord pairs a file's original and destination paths. The ordered
// record list is the rollback log and the audit trail of a run.
type MoveRecord struct {
	From string // original absolute path
	To   string // destination absolute path
}

// RollbackError reports a move failure whose rollback also failed
// partway. The tree may be inconsistent.
type RollbackError struct {
	MoveErr     error
	RollbackErr error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("move failed (%v); rollback also failed, tree may be inconsistent: %v",
		e.MoveErr, e.RollbackErr)
}

func (e *RollbackError) Unwrap() error { return e.MoveErr }

// Config describes a plan execution.
type Config struct {
	Root       string
	Plan       *scan.Plan
	DryRun     bool // resolve everything, mutate nothing
	CreateOnly bool // create destination directories, move nothing
	Events     chan<- event.Event
	Stats      *stats.Collector
}

// Mover executes a plan transactionally: every successful move is
// recorded, and the first failure replays the record in reverse.
type Mover struct {
	cfg   Config
	moved []MoveRecord
}

// NewMover creates a mover for the given config.
func NewMover(cfg Config) *Mover {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Mover{cfg: cfg}
}

// Moved returns the records of moves performed so far, in order.
func (m *Mover) Moved() []MoveRecord {
	return m.moved
}

// Execute creates destination directories and moves every planned file.
// On a move failure all prior moves are rolled back in reverse order and
// the original error is returned; if the rollback itself fails a
// RollbackError carries both errors.
func (m *Mover) Execute() error {
	if err := m.createDirs(); err != nil {
		return err
	}
	if m.cfg.CreateOnly {
		return nil
	}

	for _, g := range m.cfg.Plan.Groups() {
		for _, rec := range g.Files {
			if err := m.moveOne(g.Key, rec); err != nil {
				event.Emit(m.cfg.Events, event.Event{
					Type:  event.MoveFailed,
					Path:  rec.Path,
					Error: err,
				})
				if rbErr := m.rollback(); rbErr != nil {
					return &RollbackError{MoveErr: err, RollbackErr: rbErr}
				}
				return fmt.Errorf("move %s: %w", rec.Path, err)
			}
		}
	}
	return nil
}

// createDirs makes one directory per non-empty group. "Already exists"
// is tolerated; anything else (permissions, name length, space) is
// fatal before any file has moved.
func (m *Mover) createDirs() error {
	for _, g := range m.cfg.Plan.Groups() {
		if len(g.Files) == 0 {
			continue
		}
		dir := filepath.Join(m.cfg.Root, filepath.FromSlash(g.Key))
		if exists(dir) {
			continue
		}
		if m.cfg.DryRun {
			event.Emit(m.cfg.Events, event.Event{Type: event.DirCreated, Dest: dir, Group: g.Key})
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		m.cfg.Stats.AddDirsCreated(1)
		event.Emit(m.cfg.Events, event.Event{Type: event.DirCreated, Dest: dir, Group: g.Key})
	}
	return nil
}

func (m *Mover) moveOne(key string, rec scan.FileRecord) error {
	want := filepath.Join(m.cfg.Root, filepath.FromSlash(key), rec.Name)
	if rec.Path == want {
		// Already organized; nothing to do.
		return nil
	}

	dest, err := Resolve(want)
	if err != nil {
		return err
	}

	if m.cfg.DryRun {
		event.Emit(m.cfg.Events, event.Event{
			Type: event.FileMoved,
			Path: rec.Path,
			Dest: dest,
			Size: rec.Size,
		})
		return nil
	}

	if err := moveFile(rec.Path, dest); err != nil {
		return err
	}

	m.moved = append(m.moved, MoveRecord{From: rec.Path, To: dest})
	m.cfg.Stats.AddFilesMoved(1)
	m.cfg.Stats.AddBytesMoved(rec.Size)
	event.Emit(m.cfg.Events, event.Event{
		Type: event.FileMoved,
		Path: rec.Path,
		Dest: dest,
		Size: rec.Size,
	})
	return nil
}

// rollback replays the move record in reverse, returning each file to
// its original path. Best-effort: a failure stops the replay and leaves
// the tree partially moved.
func (m *Mover) rollback() error {
	event.Emit(m.cfg.Events, event.Event{Type: event.RollbackStarted})
	slog.Warn("move failed, rolling back", "moves", len(m.moved))

	for i := len(m.moved) - 1; i >= 0; i-- {
		rec := m.moved[i]
		if err := moveFile(rec.To, rec.From); err != nil {
			event.Emit(m.cfg.Events, event.Event{
				Type:  event.RestoreFailed,
				Path:  rec.To,
				Dest:  rec.From,
				Error: err,
			})
			return fmt.Errorf("restore %s: %w", rec.From, err)
		}
		m.moved = m.moved[:i]
		m.cfg.Stats.AddFilesRestored(1)
		event.Emit(m.cfg.Events, event.Event{
			Type: event.FileRestored,
			Path: rec.To,
			Dest: rec.From,
		})
	}
	return nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := copyFile(src, dst, info); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	if err := preserveTimes(dst, info); err != nil {
		slog.Debug("preserve times", "path", dst, "error", err)
	}
	return nil
}
