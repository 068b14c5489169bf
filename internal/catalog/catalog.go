// Package catalog implements whole-word entity extraction against a known
// list of skill or industry names.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/cv-matcher/internal/text"
)

// entry pairs a catalog name with its precompiled matcher. Matchers are
// compiled once per catalog load, not per scanned document.
type entry struct {
	name    string
	pattern *regexp.Regexp
}

// Matcher finds catalog entries inside free text using case-insensitive,
// word-boundary anchored literal matching. No fuzzy or partial matches.
type Matcher struct {
	entries []entry
}

// NewMatcher compiles a matcher for the provided entity names. Names are
// matched literally, so regex metacharacters in names are safe. Empty and
// duplicate names are skipped.
func NewMatcher(names []string) (*Matcher, error) {
	entries := make([]entry, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true

		// Names pass through the same normalization as the scanned text,
		// otherwise "Fin-Tech" could never match.
		normalized := text.Normalize(trimmed)
		if normalized == "" {
			continue
		}

		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(normalized) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling matcher for %q: %w", trimmed, err)
		}

		entries = append(entries, entry{name: trimmed, pattern: pattern})
	}

	return &Matcher{entries: entries}, nil
}

// Extract returns the catalog names found in the text. Each name appears at
// most once regardless of how many times it occurs. The order follows the
// catalog, callers must treat the result as a set.
func (m *Matcher) Extract(raw string) []string {
	normalized := text.Normalize(raw)
	if normalized == "" {
		return nil
	}

	var found []string
	for _, e := range m.entries {
		if e.pattern.MatchString(normalized) {
			found = append(found, e.name)
		}
	}
	return found
}

// Len returns the number of compiled catalog entries.
func (m *Matcher) Len() int {
	return len(m.entries)
}
