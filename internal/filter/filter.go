// Package filter holds the exclude-pattern chain applied during the scan
// and the human-readable size parser used by CLI flags.
package filter

// Chain holds an ordered list of exclude patterns.
type Chain struct {
	patterns []*compiledPattern
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude compiles and appends an exclude pattern.
func (c *Chain) AddExclude(pattern string) error {
	cp, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	c.patterns = append(c.patterns, cp)
	return nil
}

// Empty reports whether the chain has no patterns.
func (c *Chain) Empty() bool {
	return len(c.patterns) == 0
}

// Excluded reports whether relPath matches any exclude pattern.
// Directory matches prune the whole subtree at the call site.
func (c *Chain) Excluded(relPath string, isDir bool) bool {
	for _, cp := range c.patterns {
		if cp.match(relPath, isDir) {
			return true
		}
	}
	return false
}
