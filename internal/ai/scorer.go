// Package ai defines the contract for external CV scoring providers.
package ai

import "context"

// ScoreRequest carries everything a provider needs to judge one CV against
// one job.
type ScoreRequest struct {
	CVText         string
	JobDescription string
	JobIndustry    string
	// Skills maps required skill names to their 0-100 weights.
	Skills map[string]float64
}

// ScoreResult holds the three judged dimensions as fractions in [0, 1] plus a
// short natural-language rationale. Explanation may be empty.
type ScoreResult struct {
	IndustryScore         float64
	TechSkillsScore       float64
	DescriptionMatchScore float64
	Explanation           string
	// Degraded marks results produced by the neutral fallback path instead of
	// a real provider judgment.
	Degraded bool
}

// Scorer judges how well a CV matches a job. Implementations must always
// return a usable result for provider-side failures (unreachable service,
// malformed response); an error indicates caller misuse only.
type Scorer interface {
	Score(ctx context.Context, req *ScoreRequest) (*ScoreResult, error)
}

// FallbackExplanation is recorded when a provider response cannot be used.
const FallbackExplanation = "could not process result"

// NeutralFallback returns the degraded result substituted when the external
// provider fails: a neutral 0.5 on every dimension.
func NeutralFallback() *ScoreResult {
	return &ScoreResult{
		IndustryScore:         0.5,
		TechSkillsScore:       0.5,
		DescriptionMatchScore: 0.5,
		Explanation:           FallbackExplanation,
		Degraded:              true,
	}
}
