package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/batch"
)

type analyzed struct {
	Document string `json:"document"`
	analysis.Result
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Extract a candidate profile from plain-text résumés (use - for stdin)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Sync()

	d, err := setup(logger)
	if err != nil {
		logger.Fatal("preparing analysis", zap.Error(err))
	}

	docs, err := batch.LoadDocuments(args, os.Stdin)
	if err != nil {
		logger.Fatal("loading documents", zap.Error(err))
	}

	out := make([]analyzed, 0, len(docs))
	for _, doc := range docs {
		res := d.builder.Analyze(doc.Text)
		logger.Info("document analyzed", zap.String("document", doc.ID), zap.Bool("success", res.Success))
		out = append(out, analyzed{Document: doc.ID, Result: res})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal("printing profiles", zap.Error(err))
	}
}
