package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"tidy/internal/classify"
)

// categoryFile is the JSON shape of a custom category table.
type categoryFile struct {
	CaseSensitive bool            `json:"case_sensitive"`
	Categories    []categoryEntry `json:"categories"`
}

type categoryEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Extensions  []string `json:"extensions"`
	Priority    int      `json:"priority"`
}

// LoadCategories reads a custom category JSON file and returns a
// classification table ordered by descending priority (ties keep file
// order).
func LoadCategories(path string) (*classify.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var cf categoryFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	if len(cf.Categories) == 0 {
		return nil, fmt.Errorf("categories %s: no categories defined", path)
	}

	for _, e := range cf.Categories {
		if e.Name == "" {
			return nil, fmt.Errorf("categories %s: entry with empty name", path)
		}
		if len(e.Extensions) == 0 {
			return nil, fmt.Errorf("categories %s: %q has no extensions", path, e.Name)
		}
	}

	sort.SliceStable(cf.Categories, func(i, j int) bool {
		return cf.Categories[i].Priority > cf.Categories[j].Priority
	})

	entries := make([]classify.Entry, 0, len(cf.Categories))
	for _, e := range cf.Categories {
		entries = append(entries, classify.Entry{
			Name:        e.Name,
			Description: e.Description,
			Extensions:  e.Extensions,
		})
	}
	return classify.NewTable(entries, cf.CaseSensitive), nil
}
