package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/batch"
	"github.com/spigell/resume-matcher/internal/export"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/jobtext"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

var matchCmd = &cobra.Command{
	Use:   "match [DIR|FILE...]",
	Short: "Rank plain-text résumés against a job description",
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addShortlistFlags(matchCmd)
	matchCmd.Flags().String("profile", "", "a profile JSON (as printed by analyze) to score on its own")
}

func match(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()
	defer logger.Sync()

	d, err := setup(logger)
	if err != nil {
		logger.Fatal("preparing matcher", zap.Error(err))
	}

	job := loadJob(cmd, logger)

	profilePath, _ := cmd.Flags().GetString("profile")
	if profilePath == "" && len(args) == 0 {
		logger.Fatal("nothing to match", zap.String("hint", "pass résumé files or directories, or --profile"))
	}

	if profilePath != "" {
		if err := matchProfile(cmd, d, profilePath, job); err != nil {
			logger.Fatal("matching input profile", zap.Error(err))
		}
	}

	if len(args) == 0 {
		return
	}

	docs, err := batch.LoadDocuments(args, os.Stdin)
	if err != nil {
		logger.Fatal("loading documents", zap.Error(err))
	}
	logger.Info("starting the batch", zap.Int("documents", len(docs)))

	pool, err := newPool(cmd, d)
	if err != nil {
		logger.Fatal("preparing batch", zap.Error(err))
	}

	ranked, stats, err := pool.RankDocuments(ctx, docs, job)
	if err != nil {
		logger.Fatal("ranking documents", zap.Error(err))
	}

	session := &shortlistSession{
		config:  d.config,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		ranked:  ranked,
		summary: summaryOf(stats, job),
	}
	session.run(cmd)
}

func loadJob(cmd *cobra.Command, logger *zap.Logger) string {
	inline, _ := cmd.Flags().GetString("job")
	file, _ := cmd.Flags().GetString("job-file")

	job, err := jobtext.Load(jobtext.Source{Inline: inline, File: file})
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err), zap.String("hint", "set --job or --job-file"))
	}
	return job
}

// matchProfile scores a single already-extracted profile and prints the result.
func matchProfile(cmd *cobra.Command, d *deps, path, job string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding profile %s: %w", path, err)
	}

	result, err := d.engine.Score(&p, job)
	if err != nil {
		return err
	}
	d.logger.Info("input profile matched", zap.String("profile", path), zap.Stringer("result", result))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"input_resume_match": result})
}

func newPool(cmd *cobra.Command, d *deps) (*batch.Pool, error) {
	steps := filtering.Default()
	if include, _ := cmd.Flags().GetBool("include-excluded"); include {
		filtering.DisableByName(steps, "exclude_file", "include-excluded flag is set")
	}

	filter := func(ctx context.Context, c *shortlist.Candidates) (*shortlist.Candidates, error) {
		return filtering.Run(ctx, &d.config.Filters, filtering.Deps{Logger: d.logger}, steps, c)
	}

	pool, err := batch.New(d.config.Batch, d.builder, d.engine, d.records, d.logger, batch.WithFilter(filter))
	if err != nil {
		return nil, err
	}

	for _, status := range filtering.Describe(steps) {
		d.logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}
	return pool, nil
}

func summaryOf(stats batch.Stats, job string) export.Summary {
	return export.Summary{
		BatchID:      stats.BatchID,
		Job:          job,
		TotalScanned: stats.TotalScanned,
		TotalMatched: stats.TotalMatched,
		Failed:       stats.Failed,
		TimedOut:     stats.TimedOut,
		ScannedFiles: stats.ScannedFiles,
		GeneratedAt:  time.Now(),
	}
}
