package classify

import "strings"

// Entry is one custom category: a name and the extensions it claims.
type Entry struct {
	Name        string
	Description string
	Extensions  []string
}

// Table is an ordered custom category table. Entries are consulted in
// order and the first extension match wins; unmatched extensions fall
// back to the built-in table.
type Table struct {
	entries       []Entry
	caseSensitive bool
}

// NewTable builds a table from entries in the given order. When
// caseSensitive is false, extensions match case-insensitively.
func NewTable(entries []Entry, caseSensitive bool) *Table {
	t := &Table{caseSensitive: caseSensitive}
	for _, e := range entries {
		exts := make([]string, 0, len(e.Extensions))
		for _, ext := range e.Extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if !caseSensitive {
				ext = strings.ToLower(ext)
			}
			exts = append(exts, ext)
		}
		t.entries = append(t.entries, Entry{
			Name:        e.Name,
			Description: e.Description,
			Extensions:  exts,
		})
	}
	return t
}

// Classify resolves ext against the custom entries, then the built-in
// table. The same pathological-extension guard applies as for the
// built-in classifier.
func (t *Table) Classify(ext string) Category {
	if t == nil {
		return Classify(ext)
	}
	if !usable(ext) {
		return Other
	}
	probe := ext
	if !t.caseSensitive {
		probe = strings.ToLower(ext)
	}
	for _, e := range t.entries {
		for _, candidate := range e.Extensions {
			if candidate == probe {
				return Category(e.Name)
			}
		}
	}
	return Classify(ext)
}

// Categories returns the custom category names in table order.
func (t *Table) Categories() []Category {
	if t == nil {
		return nil
	}
	cats := make([]Category, 0, len(t.entries))
	for _, e := range t.entries {
		cats = append(cats, Category(e.Name))
	}
	return cats
}
