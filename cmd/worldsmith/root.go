package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/config"
	"github.com/stygianmud/worldsmith/internal/observability"
	"github.com/stygianmud/worldsmith/internal/overworld"
)

var (
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "worldsmith",
	Short: "World-graph content pipeline",
	Long: `worldsmith drives the staged content pipeline from authored documents to
engine-facing world artifacts:

  overworld  export and validate the zone/portal graph
  shape      draft and validate per-zone shape files
  area       generate, budget-fill, and validate room graphs
  proto      check protoadventure coverage and annotate zones`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = observability.NewRunLogger(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults plus WORLDSMITH_* env when omitted)")
	rootCmd.AddCommand(overworldCmd)
	rootCmd.AddCommand(shapeCmd)
	rootCmd.AddCommand(areaCmd)
	rootCmd.AddCommand(protoCmd)
}

// Execute runs the root command and exits non-zero on hard failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadGraph() (*overworld.Graph, error) {
	g, err := overworld.LoadGraph(cfg.Paths.OverworldYAML)
	if err != nil {
		return nil, fmt.Errorf("loading overworld graph: %w", err)
	}
	return g, nil
}

func loadBeats() (*beats.Doc, error) {
	doc, err := beats.Load(cfg.Paths.BeatsDoc)
	if err != nil {
		return nil, fmt.Errorf("loading beats document: %w", err)
	}
	return doc, nil
}

// logWarnings emits advisory findings without affecting the exit status.
func logWarnings(warnings []string) {
	for _, w := range warnings {
		logger.Warn(w)
	}
}
