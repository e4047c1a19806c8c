package filtering

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// NameFilter selects component names with include and exclude glob patterns
type NameFilter interface {
	// ShouldInclude reports whether name passes the patterns.
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(name string, include, exclude []string) (bool, string)
}

// globNameFilter matches names case-insensitively and keeps compiled patterns
// for reuse across the components of one listing
type globNameFilter struct {
	mu       sync.Mutex
	compiled map[string]glob.Glob
}

var _ NameFilter = (*globNameFilter)(nil)

// NewDefaultNameFilter creates a name filter backed by gobwas/glob
func NewDefaultNameFilter() NameFilter {
	return &globNameFilter{compiled: make(map[string]glob.Glob)}
}

// compilePattern compiles a lower-cased glob. filepath.Match catches malformed
// patterns that glob.Compile accepts, such as an unterminated class.
func compilePattern(pattern string) (glob.Glob, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}
	return glob.Compile(strings.ToLower(pattern))
}

// ValidatePatterns returns an error naming the first malformed pattern
func ValidatePatterns(patterns ...string) error {
	for _, pattern := range patterns {
		if _, err := compilePattern(pattern); err != nil {
			return fmt.Errorf("invalid name pattern '%s': %w", pattern, err)
		}
	}
	return nil
}

// MatchPattern matches a glob pattern against a name, ignoring case.
// Unlike filepath.Match, * also matches across path separators.
func MatchPattern(pattern, name string) (bool, error) {
	compiled, err := compilePattern(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid glob pattern: %w", err)
	}
	return compiled.Match(strings.ToLower(name)), nil
}

func (f *globNameFilter) lookup(pattern string) (glob.Glob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if compiled, ok := f.compiled[pattern]; ok {
		return compiled, nil
	}
	compiled, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	f.compiled[pattern] = compiled
	return compiled, nil
}

// firstMatch returns the first of patterns matching name. A malformed pattern
// is returned together with its error.
func (f *globNameFilter) firstMatch(name string, patterns []string) (string, bool, error) {
	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		compiled, err := f.lookup(pattern)
		if err != nil {
			return pattern, false, err
		}
		if compiled.Match(lower) {
			return pattern, true, nil
		}
	}
	return "", false, nil
}

// ShouldInclude applies the exclude patterns first, then requires a match of the
// include patterns when there are any. A malformed pattern excludes the name.
func (f *globNameFilter) ShouldInclude(name string, include, exclude []string) (bool, string) {
	pattern, matched, err := f.firstMatch(name, exclude)
	switch {
	case err != nil:
		return false, fmt.Sprintf("invalid exclude pattern '%s': %v", pattern, err)
	case matched:
		return false, fmt.Sprintf("excluded by pattern '%s'", pattern)
	}

	if len(include) == 0 {
		if len(exclude) > 0 {
			return true, fmt.Sprintf("no match in exclude patterns %v", exclude)
		}
		return true, "no name filters specified"
	}

	pattern, matched, err = f.firstMatch(name, include)
	switch {
	case err != nil:
		return false, fmt.Sprintf("invalid include pattern '%s': %v", pattern, err)
	case matched:
		return true, fmt.Sprintf("included by pattern '%s'", pattern)
	}
	return false, fmt.Sprintf("no match found in include patterns %v", include)
}
