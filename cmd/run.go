package cmd

import (
	"context"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/match"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score every CV against every job requirement",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before scoring")
	runCmd.Flags().String("every", "", "cron expression to keep rescoring on a schedule (e.g. \"@every 24h\")")
}

// run scores all pairs once, or on a schedule when --every is set.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-matcher",
		zap.String("version", version),
		zap.String("strategy", config.Matching.Strategy),
	)

	st, err := openStore(config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	service, err := newService(ctx, config, st, logger)
	if err != nil {
		logger.Fatal("building the matching service", zap.Error(err))
	}

	if cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: "Score every CV against every job?",
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	rescore(ctx, service, logger)

	schedule := cmd.Flag("every").Value.String()
	if schedule == "" {
		return
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(schedule, func() {
		rescore(ctx, service, logger)
	})
	if err != nil {
		logger.Fatal("invalid cron expression", zap.String("every", schedule), zap.Error(err))
	}

	logger.Info("rescoring on a schedule", zap.String("every", schedule))
	scheduler.Run()
}

func rescore(ctx context.Context, service *match.Service, logger *zap.Logger) {
	outcomes, err := service.RescoreAll(ctx)
	if err != nil {
		logger.Error("rescoring failed", zap.Error(err))
		return
	}

	for _, outcome := range outcomes {
		if outcome.Degraded {
			logger.Warn("pair scored with degraded result",
				zap.Uint("cv_id", outcome.CVID),
				zap.Uint("job_id", outcome.JobID),
				zap.String("reason", outcome.Reason),
			)
			continue
		}
		logger.Info("pair scored",
			zap.Uint("cv_id", outcome.CVID),
			zap.Uint("job_id", outcome.JobID),
			zap.Float64("overall", outcome.Result.OverallScore),
		)
	}
}
