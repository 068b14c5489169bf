package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func scoreRequest() *ai.ScoreRequest {
	return &ai.ScoreRequest{
		CVText:         "Experienced Python developer with SQL background",
		JobDescription: "We need a Python engineer for our finance platform",
		JobIndustry:    "Finance",
		Skills:         map[string]float64{"Python": 60, "SQL": 40},
	}
}

func TestScoreParsesResponse(t *testing.T) {
	stub := &stubGenerator{response: `{
		"industry_score": 80,
		"tech_skills_score": 90,
		"description_match_score": 70,
		"explanation": "Strong technical match"
	}`}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	result, err := scorer.Score(context.Background(), scoreRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IndustryScore != 0.8 {
		t.Fatalf("expected industry score 0.8, got %v", result.IndustryScore)
	}
	if result.TechSkillsScore != 0.9 {
		t.Fatalf("expected tech skills score 0.9, got %v", result.TechSkillsScore)
	}
	if result.DescriptionMatchScore != 0.7 {
		t.Fatalf("expected description score 0.7, got %v", result.DescriptionMatchScore)
	}
	if result.Explanation != "Strong technical match" {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
	if result.Degraded {
		t.Fatal("parsed result must not be marked degraded")
	}
}

func TestScorePromptContainsInputs(t *testing.T) {
	stub := &stubGenerator{response: `{"industry_score": 1, "tech_skills_score": 1, "description_match_score": 1, "explanation": ""}`}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	if _, err := scorer.Score(context.Background(), scoreRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{"Finance", "Python", "finance platform", "SQL background"} {
		if !strings.Contains(stub.lastPrompt, fragment) {
			t.Fatalf("prompt is missing %q:\n%s", fragment, stub.lastPrompt)
		}
	}
}

func TestScoreStripsMarkdownFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"industry_score\": 50, \"tech_skills_score\": 60, \"description_match_score\": 40, \"explanation\": \"ok\"}\n```"}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	result, err := scorer.Score(context.Background(), scoreRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TechSkillsScore != 0.6 {
		t.Fatalf("expected 0.6, got %v", result.TechSkillsScore)
	}
}

func TestScoreIgnoresSurroundingProse(t *testing.T) {
	stub := &stubGenerator{response: "Here is my assessment:\n{\"industry_score\": 10, \"tech_skills_score\": 20, \"description_match_score\": 30, \"explanation\": \"weak\"}\nHope this helps."}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	result, err := scorer.Score(context.Background(), scoreRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DescriptionMatchScore != 0.3 {
		t.Fatalf("expected 0.3, got %v", result.DescriptionMatchScore)
	}
}

func TestScoreCoercesStringScoresAndClamps(t *testing.T) {
	stub := &stubGenerator{response: `{"industry_score": "85", "tech_skills_score": 150, "description_match_score": -5, "explanation": ""}`}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	result, err := scorer.Score(context.Background(), scoreRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IndustryScore != 0.85 {
		t.Fatalf("expected 0.85, got %v", result.IndustryScore)
	}
	if result.TechSkillsScore != 1.0 {
		t.Fatalf("expected clamp to 1.0, got %v", result.TechSkillsScore)
	}
	if result.DescriptionMatchScore != 0.0 {
		t.Fatalf("expected clamp to 0.0, got %v", result.DescriptionMatchScore)
	}
}

func TestScoreFallsBackOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("service unavailable")}
	scorer := NewScorer(stub, time.Second, 0, zap.NewNop())

	result, err := scorer.Score(context.Background(), scoreRequest())
	if err != nil {
		t.Fatalf("provider failure must not surface as an error, got %v", err)
	}
	assertNeutral(t, result)
}

func TestScoreFallsBackOnUnparseableResponse(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "the candidate looks great"},
		{name: "missing keys", response: `{"industry_score": 50}`},
		{name: "non numeric", response: `{"industry_score": "high", "tech_skills_score": 1, "description_match_score": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scorer := NewScorer(&stubGenerator{response: tc.response}, time.Second, 0, zap.NewNop())

			result, err := scorer.Score(context.Background(), scoreRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertNeutral(t, result)
		})
	}
}

func TestScoreNilRequest(t *testing.T) {
	scorer := NewScorer(&stubGenerator{}, time.Second, 0, zap.NewNop())

	if _, err := scorer.Score(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil request")
	}
}

func assertNeutral(t *testing.T, result *ai.ScoreResult) {
	t.Helper()

	if !result.Degraded {
		t.Fatal("expected a degraded result")
	}
	if result.IndustryScore != 0.5 || result.TechSkillsScore != 0.5 || result.DescriptionMatchScore != 0.5 {
		t.Fatalf("expected neutral 0.5 scores, got %+v", result)
	}
	if result.Explanation != ai.FallbackExplanation {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
}
