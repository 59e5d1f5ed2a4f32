package shape

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/overworld"
)

// Validate checks one shape file against the overworld graph and the
// authoritative beats document. stem is the file's name without extension;
// it must equal the declared zone_id. Every violation is a hard failure.
func Validate(f *File, stem string, g *overworld.Graph, doc *beats.Doc) error {
	if f.ZoneID != stem {
		return fmt.Errorf("zone_id %q must match filename stem %q", f.ZoneID, stem)
	}
	zone, ok := g.ZoneByID()[f.ZoneID]
	if !ok {
		return fmt.Errorf("unknown zone_id in overworld graph: %s", f.ZoneID)
	}
	if f.ZoneName != "" && f.ZoneName != zone.Name {
		return fmt.Errorf("zone_name %q does not match overworld %q", f.ZoneName, zone.Name)
	}
	if f.Bounds == nil {
		return fmt.Errorf("missing bounds.min/bounds.max")
	}

	meta, ok := doc.Zone(zone.Name)
	if !ok || len(meta.Clusters) == 0 {
		return fmt.Errorf("could not find clusters for zone in beats document: %s", zone.Name)
	}
	expectedClusters := meta.ClusterIDs()
	expectedClusterSet := make(map[string]bool, len(expectedClusters))
	for _, c := range expectedClusters {
		expectedClusterSet[c] = true
	}

	// Portals must be exactly the zone's portals in the overworld graph.
	var expectedPortals []string
	for _, p := range g.ZonePortals(f.ZoneID) {
		expectedPortals = append(expectedPortals, p.ID)
	}
	sort.Strings(expectedPortals)

	var gotPortals []string
	for _, p := range f.Portals {
		if p.ID == "" {
			return fmt.Errorf("invalid portal entry: missing id")
		}
		gotPortals = append(gotPortals, p.ID)
	}
	sort.Strings(gotPortals)
	if !equalStrings(gotPortals, expectedPortals) {
		return fmt.Errorf("portals mismatch\n  expected: %s\n  got:      %s",
			setList(expectedPortals), setList(gotPortals))
	}

	// Portal coords within bounds, cluster_hint membership, edge per pair.
	edgeKeys := g.EdgeLengths()
	portalByID := g.PortalByID()
	for _, pid := range expectedPortals {
		p := portalByID[pid]
		if !f.Bounds.Contains(p.Pos) {
			return fmt.Errorf("portal %s at (%d,%d) is outside bounds", pid, p.Pos.X, p.Pos.Y)
		}
		if p.ClusterHint != "" && !expectedClusterSet[p.ClusterHint] {
			return fmt.Errorf("portal %s cluster_hint not in zone clusters: %s", pid, p.ClusterHint)
		}
		if _, ok := edgeKeys[overworld.NewEdgeKey(pid, p.ConnectsTo)]; !ok {
			return fmt.Errorf("missing edge length for portal pair %s <-> %s", pid, p.ConnectsTo)
		}
	}

	// Clusters must equal the authoritative set exactly.
	gotClusters := make([]string, 0, len(f.Clusters))
	declaredClusterSet := make(map[string]bool, len(f.Clusters))
	for _, c := range f.Clusters {
		if c.ID == "" {
			return fmt.Errorf("invalid cluster entry: missing id")
		}
		gotClusters = append(gotClusters, c.ID)
		declaredClusterSet[c.ID] = true
	}
	sortedExpected := append([]string(nil), expectedClusters...)
	sort.Strings(sortedExpected)
	sort.Strings(gotClusters)
	if !equalStrings(gotClusters, sortedExpected) {
		return fmt.Errorf("clusters mismatch vs beats document\n  expected: %s\n  got:      %s",
			setList(sortedExpected), setList(gotClusters))
	}

	// Portal entries naming a cluster must name a declared one.
	for _, p := range f.Portals {
		if p.Cluster != "" && !declaredClusterSet[p.Cluster] {
			return fmt.Errorf("portal %q references unknown cluster: %s", p.ID, p.Cluster)
		}
	}

	// Optional authoring hints: structural cross-reference checks only.
	for _, e := range f.ClusterEdges {
		if e.A == "" || e.B == "" {
			return fmt.Errorf("cluster_edges entries must have string a/b: %+v", e)
		}
		if !declaredClusterSet[e.A] || !declaredClusterSet[e.B] {
			return fmt.Errorf("cluster_edges references unknown cluster(s): %q %q", e.A, e.B)
		}
	}
	for _, kr := range f.KeyRooms {
		if kr.ID == "" || kr.Cluster == "" {
			return fmt.Errorf("key_rooms entries must have string id/cluster: %+v", kr)
		}
		if !declaredClusterSet[kr.Cluster] {
			return fmt.Errorf("key_room %q references unknown cluster: %q", kr.ID, kr.Cluster)
		}
	}

	return nil
}

// ValidateDir validates every shape file in zonesDir, in name order, and
// returns how many passed. The first failure aborts the run, naming the file.
func ValidateDir(zonesDir string, g *overworld.Graph, doc *beats.Doc) (int, error) {
	paths, err := listYAML(zonesDir)
	if err != nil {
		return 0, err
	}
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			return 0, err
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := Validate(f, stem, g, doc); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	return len(paths), nil
}

func listYAML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// setList renders a sorted id set for diffable mismatch messages.
func setList(ids []string) string {
	return "[" + strings.Join(ids, " ") + "]"
}
