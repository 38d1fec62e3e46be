package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/records"
)

var recordsCmd = &cobra.Command{
	Use:   "records FILE...",
	Short: "Rank scraped résumé records (csv, xlsx, json or saved listing html) with the rule-only scorer",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rankRecords(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)

	addShortlistFlags(recordsCmd)
}

func rankRecords(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()
	defer logger.Sync()

	d, err := setup(logger)
	if err != nil {
		logger.Fatal("preparing matcher", zap.Error(err))
	}

	job := loadJob(cmd, logger)

	var all []records.Record
	for _, path := range args {
		recs, skipped, err := records.Load(path, logger)
		if err != nil {
			logger.Fatal("loading records", zap.String("path", path), zap.Error(err))
		}
		logger.Info("records loaded", zap.String("path", path), zap.Int("count", len(recs)), zap.Int("skipped", skipped))
		all = append(all, recs...)
	}

	pool, err := newPool(cmd, d)
	if err != nil {
		logger.Fatal("preparing batch", zap.Error(err))
	}

	ranked, stats, err := pool.RankRecords(ctx, all, job)
	if err != nil {
		logger.Fatal("ranking records", zap.Error(err))
	}

	summary := summaryOf(stats, job)
	summary.ScannedFiles = args

	session := &shortlistSession{
		config:  d.config,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		ranked:  ranked,
		summary: summary,
	}
	session.run(cmd)
}
