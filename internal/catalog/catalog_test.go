package catalog

import (
	"reflect"
	"testing"
)

func mustMatcher(t *testing.T, names []string) *Matcher {
	t.Helper()

	m, err := NewMatcher(names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestExtractWholeWordMatching(t *testing.T) {
	m := mustMatcher(t, []string{"Go", "Python", "SQL", "Finance"})

	got := m.Extract("Senior Python developer with SQL experience in finance.")
	want := []string{"Python", "SQL", "Finance"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractIsCaseInsensitive(t *testing.T) {
	m := mustMatcher(t, []string{"Kubernetes"})

	if got := m.Extract("Deployed on KUBERNETES clusters"); len(got) != 1 {
		t.Fatalf("expected a match regardless of case, got %v", got)
	}
}

func TestExtractDoesNotMatchSubstrings(t *testing.T) {
	m := mustMatcher(t, []string{"Go", "R"})

	// "Go" inside "Google" and "R" inside "React" must not match.
	if got := m.Extract("worked at Google on React"); got != nil {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestExtractDoesNotDoubleCount(t *testing.T) {
	m := mustMatcher(t, []string{"Python"})

	got := m.Extract("python python python everywhere")
	if len(got) != 1 {
		t.Fatalf("expected a single entry, got %v", got)
	}
}

func TestExtractEscapesSpecialCharacters(t *testing.T) {
	// Names with regex metacharacters must be matched literally. After
	// normalization "C++" becomes "c", so a multi-word name exercises the
	// escaping path better.
	m := mustMatcher(t, []string{"Node.js", "CI/CD"})

	got := m.Extract("Experience with Node.js and CI/CD pipelines")
	want := []string{"Node.js", "CI/CD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractEmptyText(t *testing.T) {
	m := mustMatcher(t, []string{"Go"})

	if got := m.Extract("   "); got != nil {
		t.Fatalf("expected nil for blank text, got %v", got)
	}
}

func TestNewMatcherSkipsEmptyAndDuplicateNames(t *testing.T) {
	m := mustMatcher(t, []string{"Go", "", "  ", "Go"})

	if m.Len() != 1 {
		t.Fatalf("expected 1 compiled entry, got %d", m.Len())
	}
}
