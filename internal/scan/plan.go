package scan

import (
	"fmt"
	"strings"

	"tidy/internal/classify"
)

// Mode selects how files are grouped into destinations.
type Mode int

const (
	ModeCategory Mode = iota // one group per category (default)
	ModeDate                 // grouped by formatted modification date
	ModeSize                 // large/normal split per category
	ModeDateSize             // size tier nested under the date path
)

func (m Mode) String() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeDate:
		return "date"
	case ModeSize:
		return "size"
	case ModeDateSize:
		return "date+size"
	}
	return "unknown"
}

// Granularity selects the date-path depth for date-based modes.
type Granularity int

const (
	ByYear Granularity = iota
	ByMonth
	ByDay
)

// ParseGranularity maps a CLI selector to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(s) {
	case "year":
		return ByYear, nil
	case "month":
		return ByMonth, nil
	case "day":
		return ByDay, nil
	}
	return 0, fmt.Errorf("invalid date granularity %q (want year, month, or day)", s)
}

func (g Granularity) layout() string {
	switch g {
	case ByYear:
		return "2006"
	case ByMonth:
		return "2006/01"
	default:
		return "2006/01/02"
	}
}

// UndatedKey is the destination group for files whose modification time
// is missing or non-positive and therefore not a trustworthy date.
const UndatedKey = "undated"

// LargePrefix is the directory prefix for the large tier in size modes.
const LargePrefix = "large_files"

// DuplicatePolicy selects what happens when a file's digest matches an
// already-planned file.
type DuplicatePolicy int

const (
	DupSkip DuplicatePolicy = iota
	DupRename
	DupReplace
	DupKeepBoth
)

// ParseDuplicatePolicy maps a CLI selector to a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(s) {
	case "skip":
		return DupSkip, nil
	case "rename":
		return DupRename, nil
	case "replace":
		return DupReplace, nil
	case "keep-both", "keep_both":
		return DupKeepBoth, nil
	}
	return 0, fmt.Errorf("invalid duplicate policy %q (want skip, rename, replace, or keep-both)", s)
}

func (p DuplicatePolicy) String() string {
	switch p {
	case DupSkip:
		return "skip"
	case DupRename:
		return "rename"
	case DupReplace:
		return "replace"
	case DupKeepBoth:
		return "keep-both"
	}
	return "unknown"
}

// Group is one destination: a relative directory key and the files
// planned into it, in discovery order.
type Group struct {
	Key      string // destination directory relative to the root
	Category classify.Category
	Files    []FileRecord
	Bytes    int64
}

// Plan is the partition of discovered files into destination groups for
// one run. Groups keep discovery order; every record appears in exactly
// one group.
type Plan struct {
	Mode       Mode
	TotalFiles int

	groups []*Group
	index  map[string]*Group
}

// NewPlan creates an empty plan for the given mode.
func NewPlan(mode Mode) *Plan {
	return &Plan{
		Mode:  mode,
		index: make(map[string]*Group),
	}
}

// Add places rec into the group identified by key, creating the group
// on first use.
func (p *Plan) Add(key string, rec FileRecord) {
	g, ok := p.index[key]
	if !ok {
		g = &Group{Key: key, Category: rec.Category}
		p.index[key] = g
		p.groups = append(p.groups, g)
	}
	g.Files = append(g.Files, rec)
	g.Bytes += rec.Size
	p.TotalFiles++
}

// Groups returns the groups in discovery order.
func (p *Plan) Groups() []*Group {
	return p.groups
}

// Group returns the group for key, or nil.
func (p *Plan) Group(key string) *Group {
	return p.index[key]
}

// Len returns the number of non-empty groups.
func (p *Plan) Len() int {
	return len(p.groups)
}
