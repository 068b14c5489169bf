package scoring

import (
	"math"
	"testing"
)

func TestIndustryScoreEmptyRequirement(t *testing.T) {
	if got := IndustryScore([]string{"Finance"}, nil); got != 1.0 {
		t.Fatalf("expected 1.0 for empty job industries, got %v", got)
	}
	if got := IndustryScore(nil, nil); got != 1.0 {
		t.Fatalf("expected 1.0 even with no CV industries, got %v", got)
	}
}

func TestIndustryScoreNoOverlap(t *testing.T) {
	got := IndustryScore([]string{"Healthcare"}, []string{"Finance", "Insurance"})
	if got != 0.0 {
		t.Fatalf("expected 0.0 for disjoint industries, got %v", got)
	}
}

func TestIndustryScorePartialCoverage(t *testing.T) {
	got := IndustryScore([]string{"Finance"}, []string{"Finance", "Insurance"})
	if got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestIndustryScoreFullCoverageIsCapped(t *testing.T) {
	cv := []string{"Finance", "Insurance", "Banking", "Retail"}
	job := []string{"Finance", "Insurance"}

	if got := IndustryScore(cv, job); got != 1.0 {
		t.Fatalf("expected 1.0, extra overlap must not inflate the score, got %v", got)
	}
}

func TestSkillScoreEmptyRequirement(t *testing.T) {
	if got := SkillScore([]string{"Go"}, nil); got != 1.0 {
		t.Fatalf("expected 1.0 for empty requirements, got %v", got)
	}
}

func TestSkillScoreZeroTotalWeight(t *testing.T) {
	required := map[string]float64{"Python": 0, "SQL": 0}
	if got := SkillScore([]string{"Python", "SQL"}, required); got != 0.0 {
		t.Fatalf("expected 0.0 for all-zero weights, got %v", got)
	}
}

func TestSkillScoreWeightedCoverage(t *testing.T) {
	required := map[string]float64{"Python": 60, "SQL": 40}

	cases := []struct {
		name     string
		skills   []string
		expected float64
	}{
		{name: "python only", skills: []string{"Python"}, expected: 0.60},
		{name: "both", skills: []string{"Python", "SQL"}, expected: 1.00},
		{name: "neither", skills: []string{"Rust"}, expected: 0.00},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SkillScore(tc.skills, required)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("SkillScore(%v) = %v, want %v", tc.skills, got, tc.expected)
			}
		})
	}
}

func TestSkillScoreIsMonotone(t *testing.T) {
	required := map[string]float64{"Go": 30, "Python": 30, "SQL": 20}

	previous := 0.0
	skills := []string{}
	for _, skill := range []string{"Go", "Python", "SQL"} {
		skills = append(skills, skill)
		got := SkillScore(skills, required)
		if got < previous {
			t.Fatalf("adding %q lowered the score: %v -> %v", skill, previous, got)
		}
		previous = got
	}
}

func TestSkillScoreClampedAtFullCredit(t *testing.T) {
	// Authored weights may exceed the 100 scale in total; coverage is still
	// capped at full credit.
	required := map[string]float64{"Go": 80, "Python": 80}
	if got := SkillScore([]string{"Go", "Python"}, required); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestOverallWeighting(t *testing.T) {
	got := Overall(1.0, 0.5, 0.25)
	want := 1.0*0.10 + 0.5*0.30 + 0.25*0.60

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Overall() = %v, want %v", got, want)
	}
}

func TestSemanticScoreIdenticalDocuments(t *testing.T) {
	doc := "experienced go developer building backend services"
	got := SemanticScore(doc, doc)

	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0 for identical documents, got %v", got)
	}
}

func TestSemanticScoreDisjointDocuments(t *testing.T) {
	got := SemanticScore("golang kubernetes docker", "accounting payroll taxes")
	if got != 0.0 {
		t.Fatalf("expected 0.0 for disjoint vocabularies, got %v", got)
	}
}

func TestSemanticScorePartialOverlap(t *testing.T) {
	got := SemanticScore(
		"python developer with sql experience",
		"python engineer with cloud experience",
	)
	if got <= 0.0 || got >= 1.0 {
		t.Fatalf("expected a score strictly between 0 and 1, got %v", got)
	}
}

func TestSemanticScoreEmptyText(t *testing.T) {
	if got := SemanticScore("", "some job description"); got != 0.0 {
		t.Fatalf("expected 0.0 for empty CV text, got %v", got)
	}
	if got := SemanticScore("some cv text", "   "); got != 0.0 {
		t.Fatalf("expected 0.0 for blank job text, got %v", got)
	}
}

func TestSemanticScoreNormalizesBeforeComparing(t *testing.T) {
	plain := SemanticScore("go developer", "go developer")
	noisy := SemanticScore("Go, Developer!", "GO   DEVELOPER")

	if math.Abs(plain-noisy) > 1e-9 {
		t.Fatalf("punctuation and case changed the score: %v vs %v", plain, noisy)
	}
}
