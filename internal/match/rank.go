package match

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/store"
)

// DefaultTopLimit is the default number of candidates returned by
// TopCVsForJob.
const DefaultTopLimit = 5

var (
	// ErrNoJobs indicates the system holds no jobs to rank against.
	ErrNoJobs = errors.New("no jobs available")
	// ErrNoCandidates indicates no CV with extractable text exists.
	ErrNoCandidates = errors.New("no candidates available")
)

// RankedJob pairs a job with the match result for one CV.
type RankedJob struct {
	Job    store.JobRequirement
	Result *store.MatchResult
}

// RankedCV pairs a CV with the match result for one job.
type RankedCV struct {
	CV     store.CV
	Result *store.MatchResult
}

// BestJobForCV scores the CV against every known job and returns the single
// best match. Ties resolve to the lowest job ID. Stored results are reused
// unless force is set.
func (s *Service) BestJobForCV(ctx context.Context, cvID uint, force bool) (*RankedJob, error) {
	cv, err := s.store.GetCV(cvID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.store.ListJobs()
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	var best *RankedJob
	for i := range jobs {
		job := &jobs[i]
		result, err := s.lookupOrCompute(ctx, cv, job, force)
		if err != nil {
			return nil, err
		}

		// Jobs arrive ordered by ID, strict comparison keeps the lowest ID
		// on ties.
		if best == nil || result.OverallScore > best.Result.OverallScore {
			best = &RankedJob{Job: *job, Result: result}
		}
	}

	s.logger.Info("best job selected",
		zap.Uint("cv_id", cvID),
		zap.Uint("job_id", best.Job.ID),
		zap.Float64("overall", best.Result.OverallScore),
	)

	return best, nil
}

// TopCVsForJob scores every known CV against the job and returns the best
// `limit` matches, highest overall score first. CVs without extractable text
// are omitted entirely, not scored as zero. Stored results are reused unless
// force is set.
func (s *Service) TopCVsForJob(ctx context.Context, jobID uint, limit int, force bool) ([]RankedCV, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	job, err := s.store.GetJob(jobID)
	if err != nil {
		return nil, err
	}

	cvs, err := s.store.ListCVs()
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]store.CV, len(cvs))
	var pairs []Pair
	var reused []RankedCV

	for i := range cvs {
		cv := &cvs[i]
		if !cv.HasContent() {
			s.logger.Debug("skipping cv without content", zap.Uint("cv_id", cv.ID))
			continue
		}
		byID[cv.ID] = *cv

		if !force {
			if existing, err := s.store.GetMatch(cv.ID, job.ID); err == nil {
				reused = append(reused, RankedCV{CV: *cv, Result: existing})
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}
		pairs = append(pairs, Pair{CV: cv, Job: job})
	}

	if len(pairs) == 0 && len(reused) == 0 {
		return nil, ErrNoCandidates
	}

	ranked := reused
	for _, outcome := range s.ComputeBatch(ctx, pairs) {
		ranked = append(ranked, RankedCV{CV: byID[outcome.CVID], Result: outcome.Result})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Result.OverallScore != ranked[j].Result.OverallScore {
			return ranked[i].Result.OverallScore > ranked[j].Result.OverallScore
		}
		return ranked[i].CV.ID < ranked[j].CV.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// RescoreAll recomputes every (cv, job) pair through the batch orchestrator
// and returns the outcomes. CVs without content are skipped.
func (s *Service) RescoreAll(ctx context.Context) ([]Outcome, error) {
	cvs, err := s.store.ListCVs()
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.ListJobs()
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	var pairs []Pair
	for i := range cvs {
		if !cvs[i].HasContent() {
			continue
		}
		for j := range jobs {
			pairs = append(pairs, Pair{CV: &cvs[i], Job: &jobs[j]})
		}
	}
	if len(pairs) == 0 {
		return nil, ErrNoCandidates
	}

	return s.ComputeBatch(ctx, pairs), nil
}
