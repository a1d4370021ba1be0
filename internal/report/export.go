package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tidy/internal/scan"
)

// Export structures. Timestamps are omitted for files whose metadata
// could not be read, and the digest is omitted when hashing was off or
// the file was unreadable.
type exportPlan struct {
	Mode       string        `json:"mode"`
	TotalFiles int           `json:"total_files"`
	Groups     []exportGroup `json:"groups"`
}

type exportGroup struct {
	Key      string       `json:"key"`
	Category string       `json:"category"`
	Bytes    int64        `json:"bytes"`
	Files    []exportFile `json:"files"`
}

type exportFile struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Extension string     `json:"extension,omitempty"`
	Category  string     `json:"category"`
	Size      int64      `json:"size"`
	Created   *time.Time `json:"created,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`
	Digest    string     `json:"digest,omitempty"`
}

// Export writes the plan to path as indented JSON.
func Export(path string, plan *scan.Plan) error {
	out := exportPlan{
		Mode:       plan.Mode.String(),
		TotalFiles: plan.TotalFiles,
		Groups:     make([]exportGroup, 0, plan.Len()),
	}

	for _, g := range plan.Groups() {
		eg := exportGroup{
			Key:      g.Key,
			Category: string(g.Category),
			Bytes:    g.Bytes,
			Files:    make([]exportFile, 0, len(g.Files)),
		}
		for _, rec := range g.Files {
			ef := exportFile{
				Name:      rec.Name,
				Path:      rec.Path,
				Extension: rec.Ext,
				Category:  string(rec.Category),
				Size:      rec.Size,
			}
			if rec.StatOK {
				created, modified := rec.Created, rec.Modified
				ef.Created = &created
				ef.Modified = &modified
			}
			if !rec.Digest.IsZero() {
				ef.Digest = rec.Digest.String()
			}
			eg.Files = append(eg.Files, ef)
		}
		out.Groups = append(out.Groups, eg)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}
