package filter

import (
	"regexp"
	"strings"
)

// compiledPattern is a compiled glob that can match relative paths.
type compiledPattern struct {
	re       *regexp.Regexp
	anchored bool // pattern contains /, matches from the root
	dirOnly  bool // pattern ends with /, matches directories only
}

// compilePattern converts a glob into a matcher. A trailing slash makes
// the pattern directory-only; a slash anywhere anchors it to the scan
// root; otherwise it matches against any path component.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{}

	if strings.HasSuffix(pattern, "/") {
		cp.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	pattern = strings.TrimPrefix(pattern, "/")
	cp.anchored = strings.Contains(pattern, "/")

	reStr := globToRegex(pattern)
	if cp.anchored {
		reStr = "^" + reStr + "$"
	} else {
		reStr = "(^|/)" + reStr + "$"
	}

	re, err := regexp.Compile(reStr)
	if err != nil {
		return nil, err
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

// globToRegex converts a glob to a regex string. * matches within a
// path component, ? matches a single character.
func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
