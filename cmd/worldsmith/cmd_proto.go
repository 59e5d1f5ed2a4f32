package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stygianmud/worldsmith/internal/adventure"
)

var (
	protoShowOK bool
	protoZoneID string
	protoDryRun bool
)

var protoCmd = &cobra.Command{
	Use:   "proto",
	Short: "Check protoadventure coverage and annotate zone shapes",
}

var protoCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Check that protoadventures cover every official cluster",
	RunE:  runProtoCoverage,
}

var protoAnnotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Rewrite the derived protoadventures block in zone shape files",
	RunE:  runProtoAnnotate,
}

var protoLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint protoadventure room graphs against the todo document",
	RunE:  runProtoLint,
}

func init() {
	protoCoverageCmd.Flags().BoolVar(&protoShowOK, "show-ok", false, "also list zones with full coverage")
	protoAnnotateCmd.Flags().StringVar(&protoZoneID, "zone-id", "", "only annotate one zone_id")
	protoAnnotateCmd.Flags().BoolVar(&protoDryRun, "dry-run", false, "report changes without writing")

	protoCmd.AddCommand(protoCoverageCmd)
	protoCmd.AddCommand(protoAnnotateCmd)
	protoCmd.AddCommand(protoLintCmd)
}

func runProtoCoverage(cmd *cobra.Command, args []string) error {
	doc, err := loadBeats()
	if err != nil {
		return err
	}
	cov, err := adventure.CheckCoverage(doc, cfg.Paths.ProtoDir)
	if err != nil {
		return err
	}
	logWarnings(cov.Warnings())

	if !cov.Complete() {
		names := make([]string, 0, len(cov.MissingByZone))
		for zname := range cov.MissingByZone {
			names = append(names, zname)
		}
		sort.Strings(names)
		for _, zname := range names {
			logger.Error("missing cluster coverage",
				zap.String("zone", zname),
				zap.Strings("clusters", cov.MissingByZone[zname]))
		}
		return fmt.Errorf("missing cluster coverage in %d zone(s)", len(names))
	}

	logger.Info("protoadventure coverage complete",
		zap.Int("zones", len(doc.Zones)),
		zap.Int("clusters", len(doc.AllClusterIDs())))
	if protoShowOK {
		names := make([]string, 0, len(doc.Zones))
		for _, z := range doc.Zones {
			names = append(names, z.Name)
		}
		sort.Strings(names)
		for _, zname := range names {
			fmt.Printf("- %s: ok\n", zname)
		}
	}
	return nil
}

func runProtoAnnotate(cmd *cobra.Command, args []string) error {
	doc, err := loadBeats()
	if err != nil {
		return err
	}
	g, err := loadGraph()
	if err != nil {
		return err
	}

	mapped, warnings, err := adventure.ProtosByZoneID(doc, g, cfg.Paths.ProtoDir)
	if err != nil {
		return err
	}
	logWarnings(warnings)

	res, err := adventure.AnnotateZones(cfg.Paths.ZonesDir, mapped, protoZoneID, protoDryRun)
	if err != nil {
		return err
	}
	logger.Info("annotated zone files",
		zap.Int("files", res.Files),
		zap.Int("changed", res.Changed),
		zap.Bool("dry_run", protoDryRun))
	return nil
}

func runProtoLint(cmd *cobra.Command, args []string) error {
	res, linted, err := adventure.LintAll(cfg.Paths.TodoDoc, cfg.Paths.ProtoDir)
	if err != nil {
		return err
	}
	logWarnings(res.Warnings)
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			logger.Error(e)
		}
		return fmt.Errorf("protoadventure lint failed: %d error(s)", len(res.Errors))
	}
	logger.Info("protoadventures linted", zap.Int("files", linted))
	return nil
}
