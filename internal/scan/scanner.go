package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tidy/internal/classify"
	"tidy/internal/event"
	"tidy/internal/filter"
	"tidy/internal/fingerprint"
	"tidy/internal/stats"
)

// Config controls a scan.
type Config struct {
	Root          string
	Recursive     bool
	MaxDepth      int // 0 or negative means unbounded
	Mode          Mode
	Granularity   Granularity
	SizeThreshold int64 // bytes; at or above this a file lands in the large tier
	Duplicates    bool
	Policy        DuplicatePolicy
	Table         *classify.Table // optional custom categories
	Filter        *filter.Chain   // optional exclude patterns
	Events        chan<- event.Event
	Stats         *stats.Collector
}

// Scanner walks a directory tree and builds an Organization Plan.
type Scanner struct {
	cfg  Config
	plan *Plan
	seen map[fingerprint.Digest]string // digest -> first-seen path
}

// NewScanner creates a scanner with the given config.
func NewScanner(cfg Config) *Scanner {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Scanner{
		cfg:  cfg,
		plan: NewPlan(cfg.Mode),
		seen: make(map[fingerprint.Digest]string),
	}
}

// Scan walks the tree depth-first and returns the populated plan.
// A missing or unreadable root is fatal; unreadable subdirectories are
// logged and skipped.
func (s *Scanner) Scan() (*Plan, error) {
	info, err := os.Stat(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", s.cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", s.cfg.Root)
	}

	event.Emit(s.cfg.Events, event.Event{Type: event.ScanStarted, Path: s.cfg.Root})

	if err := s.scanDir(s.cfg.Root, 0); err != nil {
		return nil, err
	}

	event.Emit(s.cfg.Events, event.Event{
		Type:  event.ScanComplete,
		Total: int64(s.plan.TotalFiles),
	})
	return s.plan, nil
}

func (s *Scanner) scanDir(dir string, depth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("read root: %w", err)
		}
		// Unreadable subtree: log and move on.
		slog.Warn("skipping unreadable directory", "path", dir, "error", err)
		s.cfg.Stats.AddDirsSkipped(1)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if !s.cfg.Recursive {
				continue
			}
			if s.cfg.MaxDepth > 0 && depth+1 > s.cfg.MaxDepth {
				continue
			}
			if s.excluded(path, true) {
				s.cfg.Stats.AddDirsSkipped(1)
				continue
			}
			if err := s.scanDir(path, depth+1); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		s.processFile(path, entry.Name())
	}
	return nil
}

func (s *Scanner) processFile(path, name string) {
	s.cfg.Stats.AddFilesScanned(1)

	if s.excluded(path, false) {
		s.cfg.Stats.AddFilesSkipped(1)
		event.Emit(s.cfg.Events, event.Event{Type: event.FileSkipped, Path: path})
		return
	}

	ext := classify.Ext(name)
	meta := ReadMetadata(path)

	rec := FileRecord{
		Name:     name,
		Path:     path,
		Ext:      ext,
		Category: s.cfg.Table.Classify(ext),
		Size:     meta.Size,
		Created:  meta.Created,
		Modified: meta.Modified,
		StatOK:   meta.OK,
	}

	if s.cfg.Duplicates {
		rec.Digest = fingerprint.File(path)
		if !s.handleDuplicate(&rec) {
			return
		}
	}

	s.plan.Add(s.groupKey(rec), rec)
	s.cfg.Stats.AddFilesPlanned(1)
	s.cfg.Stats.AddBytesPlanned(rec.Size)
	event.Emit(s.cfg.Events, event.Event{
		Type:  event.FilePlanned,
		Path:  path,
		Group: s.groupKey(rec),
		Size:  rec.Size,
	})
}

// handleDuplicate applies the duplicate policy. It returns false when
// the record must be excluded from the plan. Sentinel digests never
// match each other.
func (s *Scanner) handleDuplicate(rec *FileRecord) bool {
	if rec.Digest.IsZero() {
		return true
	}

	first, dup := s.seen[rec.Digest]
	if !dup {
		s.seen[rec.Digest] = rec.Path
		return true
	}

	s.cfg.Stats.AddDuplicatesFound(1)
	event.Emit(s.cfg.Events, event.Event{
		Type: event.DuplicateFound,
		Path: rec.Path,
		Dest: first,
	})

	switch s.cfg.Policy {
	case DupSkip:
		s.cfg.Stats.AddFilesSkipped(1)
		event.Emit(s.cfg.Events, event.Event{Type: event.FileSkipped, Path: rec.Path})
		return false
	case DupRename:
		rec.Name = duplicateName(rec.Name)
		return true
	default:
		// Replace behaves as keep-both: the earlier record stays planned.
		return true
	}
}

// groupKey computes the destination group for rec under the active mode.
func (s *Scanner) groupKey(rec FileRecord) string {
	catDir := rec.Category.DirName()
	switch s.cfg.Mode {
	case ModeDate:
		return s.datePath(rec)
	case ModeSize:
		return s.sizeTier(rec, catDir)
	case ModeDateSize:
		return s.datePath(rec) + "/" + s.sizeTier(rec, catDir)
	default:
		return catDir
	}
}

func (s *Scanner) datePath(rec FileRecord) string {
	// A missing stat or non-positive timestamp is not a trustworthy date.
	if !rec.StatOK || rec.Modified.Unix() <= 0 {
		return UndatedKey
	}
	return rec.Modified.Format(s.cfg.Granularity.layout())
}

func (s *Scanner) sizeTier(rec FileRecord, catDir string) string {
	if s.cfg.SizeThreshold > 0 && rec.Size >= s.cfg.SizeThreshold {
		return LargePrefix + "/" + catDir
	}
	return catDir
}

func (s *Scanner) excluded(path string, isDir bool) bool {
	if s.cfg.Filter == nil || s.cfg.Filter.Empty() {
		return false
	}
	rel, err := filepath.Rel(s.cfg.Root, path)
	if err != nil {
		return false
	}
	return s.cfg.Filter.Excluded(filepath.ToSlash(rel), isDir)
}

// duplicateName marks an in-plan name as a kept duplicate. This renames
// the plan entry only; the file on disk is untouched until move time.
func duplicateName(name string) string {
	ext := classify.Ext(name)
	stem := name[:len(name)-len(ext)]
	return fmt.Sprintf("%s_dup_%s%s", stem, time.Now().Format("20060102150405"), ext)
}
