package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/match"
	"github.com/spigell/cv-matcher/internal/store"
)

var bestJobCmd = &cobra.Command{
	Use:   "best-job <cv-id>",
	Short: "Find the best matching job for a CV",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bestJob(cmd, args[0])
	},
}

var topCVsCmd = &cobra.Command{
	Use:   "top-cvs <job-id>",
	Short: "Find the top matching CVs for a job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		topCVs(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(bestJobCmd)
	rootCmd.AddCommand(topCVsCmd)

	bestJobCmd.Flags().Bool("force", false, "recompute even when a stored result exists")
	topCVsCmd.Flags().Bool("force", false, "recompute even when stored results exist")
	topCVsCmd.Flags().IntP("limit", "n", match.DefaultTopLimit, "number of candidates to return")
}

func bestJob(cmd *cobra.Command, rawID string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cvID, err := parseID(rawID)
	if err != nil {
		logger.Fatal("invalid cv id", zap.String("arg", rawID), zap.Error(err))
	}

	service := mustService(ctx, logger)

	force, _ := cmd.Flags().GetBool("force")
	best, err := service.BestJobForCV(ctx, cvID, force)
	switch {
	case errors.Is(err, match.ErrNoJobs):
		logger.Warn("no jobs found", zap.Uint("cv_id", cvID))
		return
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("cv not found", zap.Uint("cv_id", cvID))
		return
	case err != nil:
		logger.Fatal("finding best job", zap.Error(err))
	}

	fmt.Printf("Best job for CV %d: %q (job %d)\n", cvID, best.Job.Title, best.Job.ID)
	printScores(best.Result)
}

func topCVs(cmd *cobra.Command, rawID string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	jobID, err := parseID(rawID)
	if err != nil {
		logger.Fatal("invalid job id", zap.String("arg", rawID), zap.Error(err))
	}

	service := mustService(ctx, logger)

	force, _ := cmd.Flags().GetBool("force")
	limit, _ := cmd.Flags().GetInt("limit")

	top, err := service.TopCVsForJob(ctx, jobID, limit, force)
	switch {
	case errors.Is(err, match.ErrNoCandidates):
		logger.Warn("no candidates with extractable text", zap.Uint("job_id", jobID))
		return
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("job not found", zap.Uint("job_id", jobID))
		return
	case err != nil:
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	fmt.Printf("Top %d candidates for job %d:\n", len(top), jobID)
	for i, ranked := range top {
		fmt.Printf("%d. %q (cv %d)\n", i+1, ranked.CV.Title, ranked.CV.ID)
		printScores(ranked.Result)
	}
}

func mustService(ctx context.Context, logger *zap.Logger) *match.Service {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := openStore(config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	service, err := newService(ctx, config, st, logger)
	if err != nil {
		logger.Fatal("building the matching service", zap.Error(err))
	}
	return service
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func printScores(result *store.MatchResult) {
	fmt.Printf("   overall: %.1f (industry %.1f, skills %.1f, semantic %.1f)\n",
		result.OverallScore, result.IndustryScore, result.SkillsScore, result.SemanticScore)
	if result.Explanation != "" {
		fmt.Printf("   explanation: %s\n", result.Explanation)
	}
}
