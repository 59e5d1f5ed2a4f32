package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stygianmud/worldsmith/internal/area"
	"github.com/stygianmud/worldsmith/internal/shape"
)

var (
	areaZoneIDs   []string
	areaAll       bool
	areaOverwrite bool
	areaDryRun    bool
	reportFormat  string
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Generate, budget-fill, and validate room-graph area files",
}

var areaStubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Write minimal area stubs with portal rooms, anchor, and key rooms",
	RunE:  runAreaStub,
}

var areaFillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Append filler rooms until per-cluster budgets are met",
	RunE:  runAreaFill,
}

var areaValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every area file against the graph and zone shapes",
	RunE:  runAreaValidate,
}

var areaReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report maturity metrics per area file",
	RunE:  runAreaReport,
}

func init() {
	areaStubCmd.Flags().StringArrayVar(&areaZoneIDs, "zone-id", nil, "generate only this zone_id (repeatable)")
	areaStubCmd.Flags().BoolVar(&areaAll, "all", false, "generate for every zone in the graph")
	areaStubCmd.Flags().BoolVar(&areaOverwrite, "overwrite", false, "overwrite existing files")

	areaFillCmd.Flags().StringArrayVar(&areaZoneIDs, "zone-id", nil, "fill only this zone_id (repeatable)")
	areaFillCmd.Flags().BoolVar(&areaAll, "all", false, "fill every area file found")
	areaFillCmd.Flags().BoolVar(&areaDryRun, "dry-run", false, "report what would be added without writing")

	areaReportCmd.Flags().StringArrayVar(&areaZoneIDs, "zone-id", nil, "filter to this zone_id (repeatable)")
	areaReportCmd.Flags().StringVar(&reportFormat, "format", "md", "output format: md or tsv")

	areaCmd.AddCommand(areaStubCmd)
	areaCmd.AddCommand(areaFillCmd)
	areaCmd.AddCommand(areaValidateCmd)
	areaCmd.AddCommand(areaReportCmd)
}

func runAreaStub(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}

	var ids []string
	if areaAll {
		for _, z := range g.Zones {
			ids = append(ids, z.ID)
		}
	} else if len(areaZoneIDs) > 0 {
		ids = areaZoneIDs
	} else {
		return fmt.Errorf("pass --all or at least one --zone-id")
	}

	if err := os.MkdirAll(cfg.Paths.AreasDir, 0o755); err != nil {
		return fmt.Errorf("creating areas dir: %w", err)
	}

	wrote, skipped := 0, 0
	for _, zid := range ids {
		sh, err := shape.Load(filepath.Join(cfg.Paths.ZonesDir, zid+".yaml"))
		if err != nil {
			return fmt.Errorf("%s: missing zone shape: %w", zid, err)
		}
		f, err := area.BuildStub(g, sh, zid)
		if err != nil {
			return err
		}
		data, err := area.Marshal(f)
		if err != nil {
			return err
		}
		written, err := shape.WriteArtifact(filepath.Join(cfg.Paths.AreasDir, zid+".yaml"), data, areaOverwrite)
		if err != nil {
			return err
		}
		if written {
			wrote++
		} else {
			skipped++
		}
	}
	logger.Info("generated area stubs", zap.Int("wrote", wrote), zap.Int("skipped", skipped))
	return nil
}

// fillTargets resolves the zone ids to fill: explicit flags, or every area
// file on disk under --all.
func fillTargets() ([]string, error) {
	if !areaAll {
		if len(areaZoneIDs) == 0 {
			return nil, fmt.Errorf("pass --all or at least one --zone-id")
		}
		return areaZoneIDs, nil
	}
	entries, err := os.ReadDir(cfg.Paths.AreasDir)
	if err != nil {
		return nil, fmt.Errorf("reading areas dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}

func runAreaFill(cmd *cobra.Command, args []string) error {
	ids, err := fillTargets()
	if err != nil {
		return err
	}

	for _, zid := range ids {
		sh, err := shape.Load(filepath.Join(cfg.Paths.ZonesDir, zid+".yaml"))
		if err != nil {
			return fmt.Errorf("%s: missing zone shape: %w", zid, err)
		}
		path := filepath.Join(cfg.Paths.AreasDir, zid+".yaml")
		f, err := area.Load(path)
		if err != nil {
			return fmt.Errorf("%s: missing area file (run stub first): %w", zid, err)
		}

		added, err := area.FillBudget(f, sh)
		if err != nil {
			return err
		}
		if areaDryRun {
			logger.Info("would add filler rooms", zap.String("zone", zid), zap.Int("rooms", added))
			continue
		}
		// Untouched files are not rewritten, keeping the pass idempotent.
		if added > 0 {
			if err := area.Save(path, f); err != nil {
				return err
			}
		}
		logger.Info("added filler rooms", zap.String("zone", zid), zap.Int("rooms", added))
	}
	return nil
}

func runAreaValidate(cmd *cobra.Command, args []string) error {
	g, err := loadGraph()
	if err != nil {
		return err
	}
	count, warnings, err := area.ValidateDir(cfg.Paths.AreasDir, cfg.Paths.ZonesDir, g)
	logWarnings(warnings)
	if err != nil {
		return err
	}
	logger.Info("area files valid", zap.Int("files", count))
	return nil
}

func runAreaReport(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(cfg.Paths.AreasDir)
	if err != nil {
		return fmt.Errorf("reading areas dir: %w", err)
	}

	want := make(map[string]bool, len(areaZoneIDs))
	for _, zid := range areaZoneIDs {
		want[zid] = true
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".yaml")
		if len(want) > 0 && !want[stem] {
			continue
		}
		names = append(names, e.Name())
		delete(want, stem)
	}
	sort.Strings(names)
	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for zid := range want {
			missing = append(missing, zid)
		}
		sort.Strings(missing)
		return fmt.Errorf("missing area files for zone_id: %s", strings.Join(missing, ", "))
	}

	var stats []area.AreaStats
	for _, name := range names {
		f, err := area.Load(filepath.Join(cfg.Paths.AreasDir, name))
		if err != nil {
			return err
		}
		s, err := area.CountRooms(f)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		stats = append(stats, s)
	}

	switch reportFormat {
	case "md":
		fmt.Print(area.FormatReportMD(stats))
	case "tsv":
		fmt.Print(area.FormatReportTSV(stats))
	default:
		return fmt.Errorf("unknown format %q (want md or tsv)", reportFormat)
	}
	return nil
}
