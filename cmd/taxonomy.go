package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print skill counts of the active taxonomy",
	Run: func(cmd *cobra.Command, _ []string) {
		showTaxonomy(cmd)
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().Bool("check", false, "only validate the taxonomy")
}

func showTaxonomy(cmd *cobra.Command) {
	logger := newLogger()
	defer logger.Sync()

	path := viper.GetString("taxonomy-file")
	tax, err := loadTaxonomy(path)
	if err != nil {
		logger.Fatal("loading taxonomy", zap.Error(err))
	}
	if err := tax.Validate(); err != nil {
		logger.Fatal("invalid taxonomy", zap.Error(err))
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		logger.Info("taxonomy is valid", zap.String("path", path), zap.Int("categories", len(tax.Categories)))
		return
	}

	stats := tax.Stats()
	out := cmd.OutOrStdout()
	for _, name := range slices.Sorted(maps.Keys(stats)) {
		fmt.Fprintf(out, "%-24s %d\n", name, stats[name])
	}
	fmt.Fprintf(out, "%-24s %d\n", "total", len(tax.Skills()))
}
