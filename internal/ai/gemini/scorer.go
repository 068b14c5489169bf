package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer judges CV/job pairs with Gemini. Provider failures never surface as
// errors: the neutral fallback result is returned instead so batch scoring
// always gets a usable value.
type Scorer struct {
	generator contentGenerator
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

// NewScorer creates a Gemini-backed scorer.
func NewScorer(generator contentGenerator, timeout time.Duration, maxLogLength int, logger *zap.Logger) *Scorer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Score implements ai.Scorer.
func (s *Scorer) Score(ctx context.Context, req *ai.ScoreRequest) (*ai.ScoreResult, error) {
	if req == nil {
		return nil, errors.New("score request is required")
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	s.logger.Debug("gemini score request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		s.logger.Warn("gemini call failed, falling back to neutral scores", zap.Error(err))
		return ai.NeutralFallback(), nil
	}

	s.logger.Debug("gemini score response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		s.logger.Warn("gemini response unusable, falling back to neutral scores",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
		)
		return ai.NeutralFallback(), nil
	}

	return result, nil
}

func buildPrompt(req *ai.ScoreRequest) (string, error) {
	skills := req.Skills
	if skills == nil {
		skills = map[string]float64{}
	}

	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("marshal skills map: %w", err)
	}

	industry := strings.TrimSpace(req.JobIndustry)
	if industry == "" {
		industry = "unspecified"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{JOB_INDUSTRY}}", industry)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS_JSON}}", string(skillsJSON))
	prompt = strings.ReplaceAll(prompt, "{{CV_TEXT}}", req.CVText)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", req.JobDescription)
	return prompt, nil
}

// parseResponse extracts the scoring JSON from a raw model response. Scores
// arrive on a 0-100 scale and are normalized to fractions.
func parseResponse(raw string) (*ai.ScoreResult, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	industry, ok := coerceScore(data["industry_score"])
	if !ok {
		return nil, errors.New("response is missing industry_score")
	}
	skills, ok := coerceScore(data["tech_skills_score"])
	if !ok {
		return nil, errors.New("response is missing tech_skills_score")
	}
	description, ok := coerceScore(data["description_match_score"])
	if !ok {
		return nil, errors.New("response is missing description_match_score")
	}

	explanation, _ := data["explanation"].(string)

	return &ai.ScoreResult{
		IndustryScore:         industry / 100,
		TechSkillsScore:       skills / 100,
		DescriptionMatchScore: description / 100,
		Explanation:           strings.TrimSpace(explanation),
	}, nil
}

// extractJSON strips markdown fences and isolates the outermost JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

// coerceScore accepts numbers or numeric strings and clamps to [0, 100].
func coerceScore(v any) (float64, bool) {
	var score float64
	switch val := v.(type) {
	case float64:
		score = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		score = parsed
	default:
		return 0, false
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, true
}
