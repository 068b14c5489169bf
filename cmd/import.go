package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/cv-matcher/internal/catalog"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CVs and job requirements",
}

var importCVCmd = &cobra.Command{
	Use:   "cv <file.txt>",
	Short: "Import a CV from a plain-text file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importCV(cmd, args[0])
	},
}

var importJobCmd = &cobra.Command{
	Use:   "job <file.yaml>",
	Short: "Import (or update by title) a job requirement from a YAML file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		importJob(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importCVCmd)
	importCmd.AddCommand(importJobCmd)

	importCVCmd.Flags().String("title", "", "display title for the CV (defaults to the file name)")
}

// importCV reads extracted plain text, tags it with catalog skills and
// industries and stores it. Text extraction from binary formats happens
// before this tool runs.
func importCV(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := openStore(config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading cv file", zap.String("path", path), zap.Error(err))
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		logger.Fatal("cv file contains no text", zap.String("path", path))
	}

	title := cmd.Flag("title").Value.String()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	skills, industries, err := extractEntities(st, content)
	if err != nil {
		logger.Fatal("extracting entities", zap.Error(err))
	}

	cv := &store.CV{
		Title:      title,
		Content:    content,
		FilePath:   path,
		Skills:     skills,
		Industries: industries,
	}
	if err := st.SaveCV(cv); err != nil {
		logger.Fatal("saving cv", zap.Error(err))
	}

	logger.Info("cv imported",
		zap.Uint("cv_id", cv.ID),
		zap.String("title", cv.Title),
		zap.Strings("skills", cv.SkillNames()),
		zap.Strings("industries", cv.IndustryNames()),
	)
}

// extractEntities finds catalog skills and industries in the CV text.
func extractEntities(st *store.Store, content string) ([]store.Skill, []store.Industry, error) {
	skillNames, err := st.SkillNames()
	if err != nil {
		return nil, nil, err
	}
	industryNames, err := st.IndustryNames()
	if err != nil {
		return nil, nil, err
	}

	skillMatcher, err := catalog.NewMatcher(skillNames)
	if err != nil {
		return nil, nil, err
	}
	industryMatcher, err := catalog.NewMatcher(industryNames)
	if err != nil {
		return nil, nil, err
	}

	skills, err := st.SkillsByName(skillMatcher.Extract(content))
	if err != nil {
		return nil, nil, err
	}
	industries, err := st.IndustriesByName(industryMatcher.Extract(content))
	if err != nil {
		return nil, nil, err
	}
	return skills, industries, nil
}

// jobFile is the YAML shape of a job requirement definition.
type jobFile struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Industries  []string           `yaml:"industries"`
	Skills      map[string]float64 `yaml:"skills"`
}

func (j *jobFile) validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("job title is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		return fmt.Errorf("job description is required")
	}
	for name, weight := range j.Skills {
		if weight < 0 || weight > 100 {
			return fmt.Errorf("weight for skill %q must be within 0-100, got %v", name, weight)
		}
	}
	return nil
}

func importJob(path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := openStore(config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading job file", zap.String("path", path), zap.Error(err))
	}

	var def jobFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		logger.Fatal("parsing job file", zap.String("path", path), zap.Error(err))
	}
	if err := def.validate(); err != nil {
		logger.Fatal("invalid job definition", zap.String("path", path), zap.Error(err))
	}

	job, err := buildJob(st, &def)
	if err != nil {
		logger.Fatal("building job", zap.Error(err))
	}

	if err := st.UpsertJob(job); err != nil {
		logger.Fatal("upserting job", zap.Error(err))
	}

	logger.Info("job imported",
		zap.Uint("job_id", job.ID),
		zap.String("title", job.Title),
		zap.Int("required_skills", len(job.RequiredSkills)),
	)
}

// buildJob resolves the definition against the catalog, seeding names the
// catalog does not know yet.
func buildJob(st *store.Store, def *jobFile) (*store.JobRequirement, error) {
	skillNames := make([]string, 0, len(def.Skills))
	for name := range def.Skills {
		skillNames = append(skillNames, name)
	}
	if err := st.SeedCatalog(skillNames, def.Industries); err != nil {
		return nil, err
	}

	industries, err := st.IndustriesByName(def.Industries)
	if err != nil {
		return nil, err
	}
	skills, err := st.SkillsByName(skillNames)
	if err != nil {
		return nil, err
	}

	required := make([]store.RequiredSkill, 0, len(skills))
	for _, skill := range skills {
		required = append(required, store.RequiredSkill{
			SkillID: skill.ID,
			Weight:  def.Skills[skill.Name],
		})
	}

	return &store.JobRequirement{
		Title:          def.Title,
		Description:    def.Description,
		Industries:     industries,
		RequiredSkills: required,
	}, nil
}
