// Package store persists catalogs, CVs, job requirements and match results
// in SQLite via GORM.
package store

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the GORM handle with the repository operations the matching
// engine needs.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the SQLite database at path and migrates the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database %q: %w", path, err)
	}

	err = db.AutoMigrate(
		&Skill{},
		&Industry{},
		&CV{},
		&JobRequirement{},
		&RequiredSkill{},
		&MatchResult{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	logger.Debug("database ready", zap.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

// SeedCatalog ensures the provided skill and industry names exist. Existing
// entries are left untouched.
func (s *Store) SeedCatalog(skills, industries []string) error {
	for _, name := range skills {
		skill := Skill{Name: name}
		if err := s.db.FirstOrCreate(&skill, Skill{Name: name}).Error; err != nil {
			return fmt.Errorf("seeding skill %q: %w", name, err)
		}
	}
	for _, name := range industries {
		industry := Industry{Name: name}
		if err := s.db.FirstOrCreate(&industry, Industry{Name: name}).Error; err != nil {
			return fmt.Errorf("seeding industry %q: %w", name, err)
		}
	}
	return nil
}

// SkillNames returns all catalog skill names.
func (s *Store) SkillNames() ([]string, error) {
	var names []string
	if err := s.db.Model(&Skill{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	return names, nil
}

// IndustryNames returns all catalog industry names.
func (s *Store) IndustryNames() ([]string, error) {
	var names []string
	if err := s.db.Model(&Industry{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("listing industries: %w", err)
	}
	return names, nil
}

// SkillsByName resolves catalog skills for the provided names. Unknown names
// are skipped.
func (s *Store) SkillsByName(names []string) ([]Skill, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var skills []Skill
	if err := s.db.Where("name IN ?", names).Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("resolving skills: %w", err)
	}
	return skills, nil
}

// IndustriesByName resolves catalog industries for the provided names.
func (s *Store) IndustriesByName(names []string) ([]Industry, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var industries []Industry
	if err := s.db.Where("name IN ?", names).Find(&industries).Error; err != nil {
		return nil, fmt.Errorf("resolving industries: %w", err)
	}
	return industries, nil
}

// SaveCV persists a CV together with its skill and industry associations.
func (s *Store) SaveCV(cv *CV) error {
	if cv.UploadedAt.IsZero() {
		cv.UploadedAt = time.Now()
	}
	if err := s.db.Create(cv).Error; err != nil {
		return fmt.Errorf("saving cv %q: %w", cv.Title, err)
	}
	return nil
}

// GetCV loads a CV with its associations.
func (s *Store) GetCV(id uint) (*CV, error) {
	var cv CV
	err := s.db.Preload("Skills").Preload("Industries").First(&cv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cv %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading cv %d: %w", id, err)
	}
	return &cv, nil
}

// ListCVs returns all CVs with associations, oldest first.
func (s *Store) ListCVs() ([]CV, error) {
	var cvs []CV
	err := s.db.Preload("Skills").Preload("Industries").Order("id").Find(&cvs).Error
	if err != nil {
		return nil, fmt.Errorf("listing cvs: %w", err)
	}
	return cvs, nil
}

// UpsertJob creates or updates a job requirement by its unique title. On
// update the description, industries and required skills are replaced as a
// whole inside one transaction.
func (s *Store) UpsertJob(job *JobRequirement) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing JobRequirement
		err := tx.Where("title = ?", job.Title).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if job.UploadedAt.IsZero() {
				job.UploadedAt = time.Now()
			}
			if err := tx.Create(job).Error; err != nil {
				return fmt.Errorf("creating job %q: %w", job.Title, err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("looking up job %q: %w", job.Title, err)
		}

		job.ID = existing.ID
		job.UploadedAt = existing.UploadedAt

		if err := tx.Model(&existing).Update("description", job.Description).Error; err != nil {
			return fmt.Errorf("updating job %q: %w", job.Title, err)
		}
		if err := tx.Model(&existing).Association("Industries").Replace(job.Industries); err != nil {
			return fmt.Errorf("replacing industries for job %q: %w", job.Title, err)
		}
		if err := tx.Where("job_requirement_id = ?", existing.ID).Delete(&RequiredSkill{}).Error; err != nil {
			return fmt.Errorf("clearing required skills for job %q: %w", job.Title, err)
		}
		for i := range job.RequiredSkills {
			job.RequiredSkills[i].ID = 0
			job.RequiredSkills[i].JobRequirementID = existing.ID
		}
		if len(job.RequiredSkills) > 0 {
			if err := tx.Create(&job.RequiredSkills).Error; err != nil {
				return fmt.Errorf("saving required skills for job %q: %w", job.Title, err)
			}
		}
		return nil
	})
}

// GetJob loads a job with its associations.
func (s *Store) GetJob(id uint) (*JobRequirement, error) {
	var job JobRequirement
	err := s.db.Preload("Industries").Preload("RequiredSkills.Skill").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %d: %w", id, err)
	}
	return &job, nil
}

// ListJobs returns all job requirements with associations, oldest first.
func (s *Store) ListJobs() ([]JobRequirement, error) {
	var jobs []JobRequirement
	err := s.db.Preload("Industries").Preload("RequiredSkills.Skill").Order("id").Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// UpsertMatch writes the match result for its (cv, job) pair. A second write
// for the same pair updates the scores in place, never duplicates.
func (s *Store) UpsertMatch(result *MatchResult) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cv_id"}, {Name: "job_requirement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_score",
			"industry_score",
			"skills_score",
			"semantic_score",
			"explanation",
			"updated_at",
		}),
	}).Create(result).Error
	if err != nil {
		return fmt.Errorf("upserting match cv=%d job=%d: %w", result.CVID, result.JobRequirementID, err)
	}
	return nil
}

// GetMatch loads the stored result for a (cv, job) pair.
func (s *Store) GetMatch(cvID, jobID uint) (*MatchResult, error) {
	var result MatchResult
	err := s.db.Where("cv_id = ? AND job_requirement_id = ?", cvID, jobID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("match cv=%d job=%d: %w", cvID, jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading match cv=%d job=%d: %w", cvID, jobID, err)
	}
	return &result, nil
}

// CountMatches returns the number of stored results for a (cv, job) pair.
// The unique index keeps it at most 1; tests assert on it.
func (s *Store) CountMatches(cvID, jobID uint) (int64, error) {
	var count int64
	err := s.db.Model(&MatchResult{}).
		Where("cv_id = ? AND job_requirement_id = ?", cvID, jobID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return count, nil
}

// ListMatchesForJob returns all stored results for a job, best first.
func (s *Store) ListMatchesForJob(jobID uint) ([]MatchResult, error) {
	var results []MatchResult
	err := s.db.Where("job_requirement_id = ?", jobID).
		Order("overall_score DESC").Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("listing matches for job %d: %w", jobID, err)
	}
	return results, nil
}

// ListMatchesForCV returns all stored results for a CV, best first.
func (s *Store) ListMatchesForCV(cvID uint) ([]MatchResult, error) {
	var results []MatchResult
	err := s.db.Where("cv_id = ?", cvID).
		Order("overall_score DESC").Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("listing matches for cv %d: %w", cvID, err)
	}
	return results, nil
}
