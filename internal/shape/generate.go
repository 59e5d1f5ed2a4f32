package shape

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/overworld"
)

// BuildDraft derives the draft shape file for one zone: bounds from portal
// coordinates, the authoritative cluster list as bare ids, and the zone's
// portals. Level band and room target are carried when the beats document
// declares them.
//
// A zone with no clusters or no portals is a data-modelling error, not a
// tolerable edge case.
func BuildDraft(zone overworld.Zone, meta *beats.ZoneMeta, portals []overworld.Portal, margin int) (*File, error) {
	if meta == nil || len(meta.Clusters) == 0 {
		return nil, fmt.Errorf("no clusters for zone %q in beats document", zone.Name)
	}
	if len(portals) == 0 {
		return nil, fmt.Errorf("no portals for zone_id %s in overworld graph", zone.ID)
	}

	bounds := ComputeBounds(portals, margin)
	f := &File{
		Version:     1,
		ZoneID:      zone.ID,
		ZoneName:    zone.Name,
		AreaID:      "A01",
		TargetRooms: meta.TargetRooms,
		Bounds:      &bounds,
	}
	if meta.Levels != nil {
		f.LevelBand = []int{meta.Levels.Min, meta.Levels.Max}
	}
	for _, c := range meta.Clusters {
		f.Clusters = append(f.Clusters, ClusterRef{ID: c.ID})
	}
	for _, p := range portals {
		f.Portals = append(f.Portals, PortalRef{ID: p.ID})
	}
	return f, nil
}

// BuildStub derives the stub shape file for one zone. Unlike the draft it is
// budget-aware: it requires the level/rooms trailer on the zone's beats
// heading and carries per-cluster room budgets and the zone anchor.
func BuildStub(zone overworld.Zone, meta *beats.ZoneMeta, portals []overworld.Portal, margin int) (*File, error) {
	if meta == nil || len(meta.Clusters) == 0 {
		return nil, fmt.Errorf("no clusters for zone %q in beats document", zone.Name)
	}
	if meta.Levels == nil || meta.TargetRooms == nil {
		return nil, fmt.Errorf("zone %q beats heading has no (L<min>-L<max>, <N> rooms) trailer", zone.Name)
	}
	if len(portals) == 0 {
		return nil, fmt.Errorf("no portals for zone_id %s in overworld graph", zone.ID)
	}

	var clusters []ClusterRef
	for _, c := range meta.Clusters {
		if c.Rooms == nil {
			continue
		}
		clusters = append(clusters, ClusterRef{ID: c.ID, Rooms: c.Rooms})
	}
	if len(clusters) == 0 {
		return nil, fmt.Errorf("no budgeted clusters for zone %q in beats document", zone.Name)
	}

	anchor := zone.Anchor
	bounds := ComputeBounds(portals, margin)
	f := &File{
		Version:     1,
		ZoneID:      zone.ID,
		ZoneName:    zone.Name,
		AreaID:      "A01",
		LevelBand:   []int{meta.Levels.Min, meta.Levels.Max},
		TargetRooms: meta.TargetRooms,
		Anchor:      &anchor,
		Bounds:      &bounds,
		Clusters:    clusters,
	}
	for _, p := range portals {
		f.Portals = append(f.Portals, PortalRef{ID: p.ID, Cluster: p.ClusterHint})
	}
	return f, nil
}

// RenderStub hand-renders a stub shape file. The layout is kept stable and
// comment-bearing because these files are edited by humans afterwards.
func RenderStub(f *File) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %d\n", f.Version)
	fmt.Fprintf(&b, "zone_id: %s\n", f.ZoneID)
	fmt.Fprintf(&b, "zone_name: %s\n", quote(f.ZoneName))
	b.WriteString("\n")
	fmt.Fprintf(&b, "area_id: %s\n", f.AreaID)
	fmt.Fprintf(&b, "level_band: [%d, %d]\n", f.LevelBand[0], f.LevelBand[1])
	fmt.Fprintf(&b, "target_rooms: %d\n", *f.TargetRooms)
	b.WriteString("\n")
	b.WriteString("anchor:\n")
	fmt.Fprintf(&b, "  x: %d\n", f.Anchor.X)
	fmt.Fprintf(&b, "  y: %d\n", f.Anchor.Y)
	b.WriteString("\n")
	b.WriteString("# Global cartesian bounds for planning and validation only.\n")
	b.WriteString("bounds:\n")
	b.WriteString("  min:\n")
	fmt.Fprintf(&b, "    x: %d\n", f.Bounds.Min.X)
	fmt.Fprintf(&b, "    y: %d\n", f.Bounds.Min.Y)
	b.WriteString("  max:\n")
	fmt.Fprintf(&b, "    x: %d\n", f.Bounds.Max.X)
	fmt.Fprintf(&b, "    y: %d\n", f.Bounds.Max.Y)
	b.WriteString("\n")
	b.WriteString("clusters:\n")
	for _, c := range f.Clusters {
		fmt.Fprintf(&b, "  - id: %s\n", c.ID)
		fmt.Fprintf(&b, "    rooms: %d\n", *c.Rooms)
	}
	b.WriteString("\n")
	b.WriteString("portals:\n")
	for _, p := range f.Portals {
		fmt.Fprintf(&b, "  - id: %s\n", p.ID)
		fmt.Fprintf(&b, "    cluster: %s\n", p.Cluster)
	}
	return []byte(b.String())
}

// GenerateResult counts what a generator run did.
type GenerateResult struct {
	Wrote   int
	Skipped int
}

// Builder derives one zone's shape file bytes.
type Builder func(zone overworld.Zone, meta *beats.ZoneMeta, portals []overworld.Portal) ([]byte, error)

// Generate runs a builder for each requested zone id and writes
// <zones-dir>/<zone_id>.yaml. Existing files are skipped unless overwrite is
// set; output is computed fully in memory before any write.
func Generate(g *overworld.Graph, doc *beats.Doc, zoneIDs []string, zonesDir string, overwrite bool, build Builder) (GenerateResult, error) {
	var res GenerateResult

	zoneByID := g.ZoneByID()
	if len(zoneByID) == 0 {
		return res, fmt.Errorf("no zones found in overworld graph")
	}
	if len(zoneIDs) == 0 {
		return res, fmt.Errorf("no zone ids requested")
	}

	for _, zoneID := range zoneIDs {
		zone, ok := zoneByID[zoneID]
		if !ok {
			return res, fmt.Errorf("unknown zone_id: %s", zoneID)
		}
		meta, _ := doc.Zone(zone.Name)
		data, err := build(zone, meta, g.ZonePortals(zoneID))
		if err != nil {
			return res, err
		}

		outPath := filepath.Join(zonesDir, zoneID+".yaml")
		wrote, err := WriteArtifact(outPath, data, overwrite)
		if err != nil {
			return res, err
		}
		if wrote {
			res.Wrote++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// WriteArtifact writes data to path, creating parent directories. When
// overwrite is false an existing file is left untouched and (false, nil) is
// returned.
func WriteArtifact(path string, data []byte, overwrite bool) (bool, error) {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// quote renders a YAML double-quoted scalar.
func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
