package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stygianmud/worldsmith/internal/overworld"
)

var overworldCmd = &cobra.Command{
	Use:   "overworld",
	Short: "Export and validate the overworld zone/portal graph",
}

var overworldExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the layout document to overworld.yaml, pairs.tsv, and summary.json",
	RunE:  runOverworldExport,
}

var overworldValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the exported overworld graph",
	RunE:  runOverworldValidate,
}

func init() {
	overworldCmd.AddCommand(overworldExportCmd)
	overworldCmd.AddCommand(overworldValidateCmd)
}

func runOverworldExport(cmd *cobra.Command, args []string) error {
	src := cfg.Paths.LayoutDoc
	text, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading layout document: %w", err)
	}

	g, err := overworld.Export(string(text), src, time.Now().UTC())
	if err != nil {
		return err
	}

	data, err := overworld.MarshalGraph(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Paths.OverworldYAML, data, 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}

	tsv, err := overworld.PairsTSV(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Paths.PairsTSV, []byte(tsv), 0o644); err != nil {
		return fmt.Errorf("writing pairs: %w", err)
	}

	summary, err := overworld.MarshalSummary(overworld.BuildSummary(g))
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Paths.SummaryJSON, summary, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	logger.Info("exported overworld graph",
		zap.String("source", src),
		zap.Int("zones", len(g.Zones)),
		zap.Int("portals", len(g.Portals)),
		zap.Int("edges", len(g.Edges)))
	return nil
}

func runOverworldValidate(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}
	if err := overworld.Validate(g, cfg.World.StarterZones); err != nil {
		return err
	}
	logger.Info("overworld graph valid",
		zap.Int("zones", len(g.Zones)),
		zap.Int("portals", len(g.Portals)),
		zap.Int("edges", len(g.Edges)))
	return nil
}
