package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-matcher/internal/store"
)

// Pair is one (cv, job) unit of batch work.
type Pair struct {
	CV  *store.CV
	Job *store.JobRequirement
}

// Outcome is the per-unit batch result. A failing unit is reported as
// degraded with zero component scores instead of aborting the batch.
type Outcome struct {
	CVID     uint
	JobID    uint
	Result   *store.MatchResult
	Degraded bool
	Reason   string
}

// ComputeBatch scores the provided pairs with a bounded worker pool. Every
// input pair produces exactly one outcome; ordering follows the input after
// de-duplication of identical pairs. A unit failure never cancels siblings.
func (s *Service) ComputeBatch(ctx context.Context, pairs []Pair) []Outcome {
	pairs = dedupe(pairs)
	outcomes := make([]Outcome, len(pairs))

	var group errgroup.Group
	group.SetLimit(s.concurrency)

	for i, pair := range pairs {
		group.Go(func() error {
			outcomes[i] = s.computeUnit(ctx, pair)
			return nil
		})
	}

	// Workers never return errors; failures live in the outcomes.
	_ = group.Wait()

	degraded := 0
	for _, outcome := range outcomes {
		if outcome.Degraded {
			degraded++
		}
	}
	s.logger.Info("batch scoring finished",
		zap.Int("pairs", len(pairs)),
		zap.Int("degraded", degraded),
	)

	return outcomes
}

func (s *Service) computeUnit(ctx context.Context, pair Pair) Outcome {
	outcome := Outcome{CVID: pair.CV.ID, JobID: pair.Job.ID}

	result, err := s.Compute(ctx, pair.CV, pair.Job)
	if err != nil {
		s.logger.Warn("batch unit failed",
			zap.Uint("cv_id", pair.CV.ID),
			zap.Uint("job_id", pair.Job.ID),
			zap.Error(err),
		)
		outcome.Degraded = true
		outcome.Reason = err.Error()
		outcome.Result = &store.MatchResult{
			CVID:             pair.CV.ID,
			JobRequirementID: pair.Job.ID,
		}
		return outcome
	}

	outcome.Result = result
	return outcome
}

// dedupe drops duplicate (cv, job) pairs so concurrent recomputation of the
// same pair is never dispatched from one batch.
func dedupe(pairs []Pair) []Pair {
	seen := make(map[string]bool, len(pairs))
	unique := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if pair.CV == nil || pair.Job == nil {
			continue
		}
		key := fmt.Sprintf("%d:%d", pair.CV.ID, pair.Job.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, pair)
	}
	return unique
}
