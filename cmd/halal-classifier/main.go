package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haukened/halal-classifier/internal/halal/common/clock"
	"github.com/haukened/halal-classifier/internal/halal/common/log"
	"github.com/haukened/halal-classifier/internal/halal/config"
	"github.com/haukened/halal-classifier/internal/halal/repos/decisioncache"
	"github.com/haukened/halal-classifier/internal/halal/repos/overrides"
	"github.com/haukened/halal-classifier/internal/halal/repos/rules"
	"github.com/haukened/halal-classifier/internal/halal/services/classifier"
	"github.com/haukened/halal-classifier/internal/halal/services/pipeline"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "halal-classifier"

	cmdDesc     = `Rule-based halal status labeling for material CSV exports.`
	cmdExamples = `  # label data/materials_df.csv using config/halal_rules.json:
  halal-classifier

  # preview the label counts without writing anything:
  halal-classifier --dry-run

  # relabel every row, including rows that already have a status:
  halal-classifier --overwrite --output data/relabeled.csv`
)

// Application holds all the components of one labeling run
type Application struct {
	config     *config.AppConfig
	rules      *rules.RuleSet
	overrides  *overrides.Index
	classifier *classifier.Classifier
	pipeline   *pipeline.Pipeline
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the cobra command; flags are owned by the config package.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         cmdDesc,
		Example:       cmdExamples,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
				return fmt.Errorf("logging configuration error: %w", err)
			}
			defer func() { _ = log.GetLogger().Sync() }()

			log.Info(map[string]any{
				"version":   version,
				"env":       cfg.Env,
				"log_level": cfg.LogLevel,
				"input":     cfg.Input,
				"rules":     cfg.Rules,
			}, "Starting halal classifier")

			app, err := buildApplication(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx, cmd.OutOrStdout())
		},
	}

	config.AddFlags(cmd.Flags())
	return cmd
}

// buildApplication loads the rules and wires the classifier and pipeline
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	rs, err := rules.Load(cfg.Rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	if rs.Len() == 0 {
		log.Warn(map[string]any{"rules": cfg.Rules}, "Rules file has no rules, every row will be left unlabeled")
	}

	idx, err := overrides.New(rs.Overrides, overrides.DefaultFPRate)
	if err != nil {
		return nil, fmt.Errorf("failed to build override index: %w", err)
	}

	cache, err := decisioncache.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}
	if cfg.CacheSize == 0 {
		log.Info(map[string]any{"disabled": true}, "Decision caching disabled")
	}

	clf := classifier.New(classifier.Options{
		Overrides: idx,
		Haram:     rs.Haram,
		Review:    rs.Review,
		Halal:     rs.Halal,
		Cache:     cache,
		Logger:    logger,
	})

	p := pipeline.New(pipeline.Deps{
		Classifier: clf,
		Labels:     rs,
		Clock:      clock.RealClock{},
		Logger:     logger,
	})

	return &Application{
		config:     cfg,
		rules:      rs,
		overrides:  idx,
		classifier: clf,
		pipeline:   p,
	}, nil
}

// Run labels the configured input and prints the summary to out
func (app *Application) Run(ctx context.Context, out io.Writer) error {
	summary, err := app.pipeline.Run(ctx, pipeline.Options{
		Input:        app.config.Input,
		Output:       app.config.Output,
		NameColumn:   app.config.NameColumn,
		StatusColumn: app.config.StatusColumn,
		ReasonColumn: app.config.ReasonColumn,
		Overwrite:    app.config.Overwrite,
		DryRun:       app.config.DryRun,
	})
	if err != nil {
		return err
	}

	stats := app.classifier.CacheStats()
	log.Debug(map[string]any{
		"capacity":  stats.Capacity,
		"size":      stats.Size,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": stats.Evictions,
	}, "Decision cache stats")

	idxStats := app.overrides.Stats()
	log.Debug(map[string]any{
		"entries":       idxStats.Entries,
		"lookups":       idxStats.Lookups,
		"bloom_rejects": idxStats.BloomRejects,
	}, "Override index stats")

	return pipeline.Report(out, summary)
}
