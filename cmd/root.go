package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/batch"
	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"
)

const (
	app       = "resume-matcher"
	envPrefix = "RESUME_MATCHER"
)

type Config struct {
	Scoring      scoring.Config   `mapstructure:"scoring" json:"scoring"`
	Batch        batch.Config     `mapstructure:"batch" json:"batch"`
	Filters      filtering.Config `mapstructure:"filters" json:"filters"`
	Export       ExportConfig     `mapstructure:"export" json:"export"`
	TaxonomyFile string           `mapstructure:"taxonomy-file" json:"taxonomy_file"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir" json:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher extracts candidate profiles from Thai/English résumés and ranks them against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("taxonomy-file", "", "a YAML skill taxonomy replacing the built-in one")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rootCmd.PersistentFlags().Float64("min-score", 0, "drop candidates with a lower total score")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("taxonomy-file", rootCmd.PersistentFlags().Lookup("taxonomy-file"))
	viper.BindPFlag("filters.exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("filters.min-score", rootCmd.PersistentFlags().Lookup("min-score"))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{
		Scoring: scoring.DefaultConfig(),
		Batch:   batch.DefaultConfig(),
		Export:  ExportConfig{Dir: "."},
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Batch.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// deps is the wiring shared by every command that extracts or scores.
type deps struct {
	config  *Config
	logger  *zap.Logger
	tax     *taxonomy.Taxonomy
	builder *analysis.Builder
	engine  *scoring.Engine
	records *records.Scorer
}

func setup(l *zap.Logger) (*deps, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	tax, err := loadTaxonomy(config.TaxonomyFile)
	if err != nil {
		return nil, err
	}

	ext := extract.New(tax, extract.WithLogger(l))
	engine, err := scoring.New(ext, config.Scoring, l)
	if err != nil {
		return nil, err
	}

	return &deps{
		config:  config,
		logger:  l,
		tax:     tax,
		builder: analysis.New(ext, l),
		engine:  engine,
		records: records.NewScorer(ext, engine, l),
	}, nil
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return taxonomy.Default()
	}
	tax, err := taxonomy.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return tax, nil
}
