// Package match aggregates the component scores into persisted match
// results and drives batch scoring and ranking queries.
package match

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/scoring"
	"github.com/spigell/cv-matcher/internal/store"
)

// Strategy selects how the component scores are produced.
type Strategy string

const (
	// StrategyTFIDF computes industry and skill scores from the catalogs and
	// the semantic score from local TF-IDF cosine similarity.
	StrategyTFIDF Strategy = "tfidf"
	// StrategyGemini delegates all three dimensions to the external judge.
	StrategyGemini Strategy = "gemini"
)

// DefaultConcurrency bounds the batch worker pool. Kept small to respect
// external provider rate limits.
const DefaultConcurrency = 3

// Service computes, persists and ranks match results.
type Service struct {
	store       *store.Store
	scorer      ai.Scorer
	strategy    Strategy
	concurrency int
	cache       *resultCache
	logger      *zap.Logger
}

// NewService creates the matching service. scorer may be nil for the tfidf
// strategy; the gemini strategy requires it.
func NewService(st *store.Store, scorer ai.Scorer, strategy Strategy, concurrency int, logger *zap.Logger) (*Service, error) {
	switch strategy {
	case StrategyTFIDF:
	case StrategyGemini:
		if scorer == nil {
			return nil, errors.New("gemini strategy requires a configured scorer")
		}
	default:
		return nil, fmt.Errorf("unknown matching strategy: %q", strategy)
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:       st,
		scorer:      scorer,
		strategy:    strategy,
		concurrency: concurrency,
		cache:       newResultCache(),
		logger:      logger,
	}, nil
}

// Compute scores one CV against one job and upserts the result. Results are
// cached by a content-sensitive fingerprint so unchanged pairs skip
// recomputation (and external calls) until the entry expires.
func (s *Service) Compute(ctx context.Context, cv *store.CV, job *store.JobRequirement) (*store.MatchResult, error) {
	key := Fingerprint(cv.ID, job.ID, cv.Content, job.Description)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("match served from cache",
			zap.Uint("cv_id", cv.ID),
			zap.Uint("job_id", job.ID),
		)
		return cached, nil
	}

	scores, err := s.evaluate(ctx, cv, job)
	if err != nil {
		return nil, err
	}

	overall := scoring.Overall(scores.IndustryScore, scores.TechSkillsScore, scores.DescriptionMatchScore)

	result := &store.MatchResult{
		CVID:             cv.ID,
		JobRequirementID: job.ID,
		OverallScore:     overall * 100,
		IndustryScore:    scores.IndustryScore * 100,
		SkillsScore:      scores.TechSkillsScore * 100,
		SemanticScore:    scores.DescriptionMatchScore * 100,
		Explanation:      scores.Explanation,
	}

	if err := s.store.UpsertMatch(result); err != nil {
		return nil, err
	}

	ttl := successTTL
	if scores.Degraded {
		ttl = degradedTTL
	}
	s.cache.Set(key, result, ttl)

	s.logger.Debug("match computed",
		zap.Uint("cv_id", cv.ID),
		zap.Uint("job_id", job.ID),
		zap.Float64("overall", result.OverallScore),
		zap.Bool("degraded", scores.Degraded),
	)

	return result, nil
}

func (s *Service) evaluate(ctx context.Context, cv *store.CV, job *store.JobRequirement) (*ai.ScoreResult, error) {
	if s.strategy == StrategyGemini {
		return s.scorer.Score(ctx, &ai.ScoreRequest{
			CVText:         cv.Content,
			JobDescription: job.Description,
			JobIndustry:    job.IndustryLabel(),
			Skills:         job.SkillWeights(),
		})
	}

	return &ai.ScoreResult{
		IndustryScore:         scoring.IndustryScore(cv.IndustryNames(), job.IndustryNames()),
		TechSkillsScore:       scoring.SkillScore(cv.SkillNames(), job.SkillWeights()),
		DescriptionMatchScore: scoring.SemanticScore(cv.Content, job.Description),
	}, nil
}

// lookupOrCompute reuses a stored result unless force is set.
func (s *Service) lookupOrCompute(ctx context.Context, cv *store.CV, job *store.JobRequirement, force bool) (*store.MatchResult, error) {
	if !force {
		if existing, err := s.store.GetMatch(cv.ID, job.ID); err == nil {
			return existing, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return s.Compute(ctx, cv, job)
}
