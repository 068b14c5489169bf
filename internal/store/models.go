package store

import (
	"strings"
	"time"
)

// Skill is a catalog entry referenced by CVs and job requirements. Identity
// is the unique name; matching against text is case-insensitive.
type Skill struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

// Industry is a catalog entry with the same semantics as Skill.
type Industry struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

// CV is an uploaded candidate résumé with its extracted plain text and the
// catalog entities found in it.
type CV struct {
	ID         uint   `gorm:"primarykey"`
	Title      string `gorm:"size:255;not null"`
	Content    string
	FilePath   string `gorm:"size:255"`
	UploadedAt time.Time
	Skills     []Skill    `gorm:"many2many:cv_skills;"`
	Industries []Industry `gorm:"many2many:cv_industries;"`
}

// JobRequirement is a job posting. The title acts as the natural key for
// upserts.
type JobRequirement struct {
	ID             uint   `gorm:"primarykey"`
	Title          string `gorm:"size:255;uniqueIndex;not null"`
	Description    string
	UploadedAt     time.Time
	Industries     []Industry      `gorm:"many2many:job_industries;"`
	RequiredSkills []RequiredSkill `gorm:"constraint:OnDelete:CASCADE;"`
}

// RequiredSkill attaches a 0-100 weight to a (job, skill) pair. At most one
// weight per pair.
type RequiredSkill struct {
	ID               uint `gorm:"primarykey"`
	JobRequirementID uint `gorm:"uniqueIndex:idx_job_skill;not null"`
	SkillID          uint `gorm:"uniqueIndex:idx_job_skill;not null"`
	Skill            Skill
	Weight           float64
}

// MatchResult is the persisted outcome of scoring one CV against one job.
// The (cv, job) pair is unique, recomputation updates in place. Scores are
// stored on a 0-100 scale.
type MatchResult struct {
	ID               uint `gorm:"primarykey"`
	CVID             uint `gorm:"column:cv_id;uniqueIndex:idx_cv_job;not null"`
	JobRequirementID uint `gorm:"uniqueIndex:idx_cv_job;not null"`
	OverallScore     float64
	IndustryScore    float64
	SkillsScore      float64
	SemanticScore    float64
	Explanation      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SkillNames returns the CV's associated skill names.
func (c *CV) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, skill := range c.Skills {
		names = append(names, skill.Name)
	}
	return names
}

// IndustryNames returns the CV's associated industry names.
func (c *CV) IndustryNames() []string {
	names := make([]string, 0, len(c.Industries))
	for _, industry := range c.Industries {
		names = append(names, industry.Name)
	}
	return names
}

// HasContent reports whether the CV carries extractable text.
func (c *CV) HasContent() bool {
	return strings.TrimSpace(c.Content) != ""
}

// IndustryNames returns the job's required industry names.
func (j *JobRequirement) IndustryNames() []string {
	names := make([]string, 0, len(j.Industries))
	for _, industry := range j.Industries {
		names = append(names, industry.Name)
	}
	return names
}

// IndustryLabel renders the required industries as a single free-text label
// for the external judge.
func (j *JobRequirement) IndustryLabel() string {
	return strings.Join(j.IndustryNames(), ", ")
}

// SkillWeights returns the required skills as a name-to-weight map.
func (j *JobRequirement) SkillWeights() map[string]float64 {
	weights := make(map[string]float64, len(j.RequiredSkills))
	for _, rs := range j.RequiredSkills {
		weights[rs.Skill.Name] = rs.Weight
	}
	return weights
}
