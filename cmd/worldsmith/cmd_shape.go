package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/overworld"
	"github.com/stygianmud/worldsmith/internal/shape"
)

var (
	shapeZoneIDs   []string
	shapeAll       bool
	shapeOverwrite bool
	shapeMargin    int
)

var shapeCmd = &cobra.Command{
	Use:   "shape",
	Short: "Generate and validate per-zone shape files",
}

var shapeDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Write minimal shape drafts (clusters and portals only)",
	RunE:  runShapeDraft,
}

var shapeStubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Write full shape stubs with budgets, anchor, and bounds",
	RunE:  runShapeStub,
}

var shapeValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every shape file against the graph and beats document",
	RunE:  runShapeValidate,
}

func init() {
	for _, c := range []*cobra.Command{shapeDraftCmd, shapeStubCmd} {
		c.Flags().StringArrayVar(&shapeZoneIDs, "zone-id", nil, "generate only this zone_id (repeatable)")
		c.Flags().BoolVar(&shapeAll, "all", false, "generate for every zone in the graph")
		c.Flags().BoolVar(&shapeOverwrite, "overwrite", false, "overwrite existing files")
		c.Flags().IntVar(&shapeMargin, "margin", -1, "bounds margin (default from config)")
	}
	shapeCmd.AddCommand(shapeDraftCmd)
	shapeCmd.AddCommand(shapeStubCmd)
	shapeCmd.AddCommand(shapeValidateCmd)
}

func shapeTargets(g *overworld.Graph) ([]string, error) {
	if shapeAll {
		ids := make([]string, 0, len(g.Zones))
		for _, z := range g.Zones {
			ids = append(ids, z.ID)
		}
		return ids, nil
	}
	if len(shapeZoneIDs) == 0 {
		return nil, fmt.Errorf("pass --all or at least one --zone-id")
	}
	return shapeZoneIDs, nil
}

func runShapeDraft(cmd *cobra.Command, args []string) error {
	margin := shapeMargin
	if margin < 0 {
		margin = cfg.World.DraftMargin
	}
	return runShapeGenerate(func(zone overworld.Zone, meta *beats.ZoneMeta, portals []overworld.Portal) ([]byte, error) {
		f, err := shape.BuildDraft(zone, meta, portals, margin)
		if err != nil {
			return nil, err
		}
		return shape.Marshal(f)
	})
}

func runShapeStub(cmd *cobra.Command, args []string) error {
	margin := shapeMargin
	if margin < 0 {
		margin = cfg.World.StubMargin
	}
	return runShapeGenerate(func(zone overworld.Zone, meta *beats.ZoneMeta, portals []overworld.Portal) ([]byte, error) {
		f, err := shape.BuildStub(zone, meta, portals, margin)
		if err != nil {
			return nil, err
		}
		return shape.RenderStub(f), nil
	})
}

func runShapeGenerate(build shape.Builder) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}
	doc, err := loadBeats()
	if err != nil {
		return err
	}
	ids, err := shapeTargets(g)
	if err != nil {
		return err
	}

	res, err := shape.Generate(g, doc, ids, cfg.Paths.ZonesDir, shapeOverwrite, build)
	if err != nil {
		return err
	}
	logger.Info("generated shape files",
		zap.Int("wrote", res.Wrote),
		zap.Int("skipped", res.Skipped))
	return nil
}

func runShapeValidate(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}
	doc, err := loadBeats()
	if err != nil {
		return err
	}
	count, err := shape.ValidateDir(cfg.Paths.ZonesDir, g, doc)
	if err != nil {
		return err
	}
	logger.Info("shape files valid", zap.Int("files", count))
	return nil
}
