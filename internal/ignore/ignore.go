// Package ignore decides which directory entries are excluded from mirroring and listing.
//
// A Set combines the built-in defaults with user supplied names and shell glob
// patterns. Every pattern is compiled once when the Set is built and the Set is
// read-only afterwards, so a single instance can back an entire run.
package ignore

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/temirov/mdtoc/internal/utils"
)

const (
	extendedGlobSyntax = `{},\`
	globEscape         = '\\'
)

var defaultPatterns = []string{".DS_Store", ".gitignore", ".idea", "*.log"}

// DefaultPatterns returns the built-in ignore entries.
func DefaultPatterns() []string {
	return append([]string(nil), defaultPatterns...)
}

type compiledPattern struct {
	source  string
	matcher glob.Glob
}

// Set is an immutable collection of exact names and glob patterns.
type Set struct {
	patterns []string
	exact    map[string]struct{}
	globs    []compiledPattern
}

// New builds a Set from the defaults followed by additional entries.
// Duplicates and blank entries are dropped, order is preserved.
// Only *, ? and [...] act as wildcards. An entry that is not a valid glob is
// kept as an exact name.
func New(additional ...string) *Set {
	combined := append(DefaultPatterns(), additional...)
	patterns := utils.DeduplicatePatterns(combined)

	set := &Set{
		patterns: patterns,
		exact:    make(map[string]struct{}, len(patterns)),
	}
	for _, pattern := range patterns {
		set.exact[pattern] = struct{}{}
		compiled, compileError := glob.Compile(escapeGlobSyntax(pattern))
		if compileError != nil {
			continue
		}
		set.globs = append(set.globs, compiledPattern{source: pattern, matcher: compiled})
	}
	return set
}

// escapeGlobSyntax quotes the characters gobwas/glob treats as syntax beyond shell globs.
func escapeGlobSyntax(pattern string) string {
	var builder strings.Builder
	for _, character := range pattern {
		if strings.ContainsRune(extendedGlobSyntax, character) {
			builder.WriteRune(globEscape)
		}
		builder.WriteRune(character)
	}
	return builder.String()
}

// Patterns returns a copy of the entries in evaluation order.
func (set *Set) Patterns() []string {
	return append([]string(nil), set.patterns...)
}

// IsIgnored reports whether an entry with the given base name is excluded.
// Hidden names, exact entries and glob matches are all excluded.
func (set *Set) IsIgnored(name string) bool {
	if strings.HasPrefix(name, utils.HiddenEntryPrefix) {
		return true
	}
	if _, listed := set.exact[name]; listed {
		return true
	}
	return set.matchesGlob(name)
}

// MatchingPattern returns the first glob pattern that matches a whole path.
// Wildcards cross path separators here, the way fnmatch treats a full path.
func (set *Set) MatchingPattern(path string) (string, bool) {
	for _, pattern := range set.globs {
		if pattern.matcher.Match(path) {
			return pattern.source, true
		}
	}
	return "", false
}

func (set *Set) matchesGlob(name string) bool {
	_, matched := set.MatchingPattern(name)
	return matched
}
