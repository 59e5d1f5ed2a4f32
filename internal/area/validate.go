package area

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stygianmud/worldsmith/internal/overworld"
	"github.com/stygianmud/worldsmith/internal/shape"
)

// Validate checks one area file against the overworld graph and its zone
// shape. The returned error is a hard failure. Warnings cover advisory
// findings that should not block a build: under-budget clusters and rooms
// unreachable from start_room.
//
// Precondition: stem is the filename stem the file was loaded from.
func Validate(f *File, stem string, g *overworld.Graph, sh *shape.File) ([]string, error) {
	if f.ZoneID == "" {
		return nil, fmt.Errorf("%s: missing zone_id", stem)
	}
	if f.ZoneID != stem {
		return nil, fmt.Errorf("%s: zone_id %q must match filename stem %q", stem, f.ZoneID, stem)
	}
	zone, ok := g.ZoneByID()[f.ZoneID]
	if !ok {
		return nil, fmt.Errorf("%s: unknown zone_id in overworld: %s", stem, f.ZoneID)
	}
	if f.ZoneName != "" && f.ZoneName != zone.Name {
		return nil, fmt.Errorf("%s: zone_name %q does not match overworld %q", stem, f.ZoneName, zone.Name)
	}

	clusterIDs := sh.ClusterIDs()
	if len(clusterIDs) == 0 {
		return nil, fmt.Errorf("%s: zone shape has no clusters", stem)
	}
	clusterSet := make(map[string]bool, len(clusterIDs))
	for _, cid := range clusterIDs {
		clusterSet[cid] = true
	}

	if len(f.Rooms) == 0 {
		return nil, fmt.Errorf("%s: missing rooms list", stem)
	}

	roomByID := make(map[string]*Room, len(f.Rooms))
	roomsByCluster := make(map[string][]string)
	for _, r := range f.Rooms {
		if r.ID == "" {
			return nil, fmt.Errorf("%s: room missing id", stem)
		}
		if _, dup := roomByID[r.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate room id: %s", stem, r.ID)
		}
		if !clusterSet[r.Cluster] {
			return nil, fmt.Errorf("%s: room %s: unknown cluster: %q", stem, r.ID, r.Cluster)
		}
		roomByID[r.ID] = r
		roomsByCluster[r.Cluster] = append(roomsByCluster[r.Cluster], r.ID)
	}

	if f.StartRoom != "" {
		if _, ok := roomByID[f.StartRoom]; !ok {
			return nil, fmt.Errorf("%s: start_room must be a room id in this file: %q", stem, f.StartRoom)
		}
	}

	portalByID := g.PortalByID()

	// Every exit resolves to a room in-file, an overworld portal, or a
	// sealed placeholder for a later area.
	for _, r := range f.Rooms {
		for _, ex := range r.Exits {
			if strings.TrimSpace(ex.Dir) == "" {
				return nil, fmt.Errorf("%s: room %s: exit missing dir", stem, r.ID)
			}
			if strings.TrimSpace(ex.To) == "" {
				return nil, fmt.Errorf("%s: room %s: exit missing to", stem, r.ID)
			}
			if ex.Len < 1 {
				return nil, fmt.Errorf("%s: room %s: exit len must be >= 1", stem, r.ID)
			}
			if _, ok := roomByID[ex.To]; ok {
				continue
			}
			if _, ok := portalByID[ex.To]; ok {
				continue
			}
			if ex.Sealed() {
				continue
			}
			return nil, fmt.Errorf("%s: room %s: exit points to unknown target (not room/portal/sealed): %q", stem, r.ID, ex.To)
		}
	}

	edgeLens := g.EdgeLengths()
	for _, p := range g.ZonePortals(f.ZoneID) {
		pr, ok := roomByID[p.ID]
		if !ok {
			return nil, fmt.Errorf("%s: missing portal room for %s (room id must exist)", stem, p.ID)
		}
		if p.ClusterHint != "" && pr.Cluster != p.ClusterHint {
			return nil, fmt.Errorf("%s: portal room %s: cluster %q must match overworld cluster_hint %q", stem, p.ID, pr.Cluster, p.ClusterHint)
		}
		if _, ok := portalByID[p.ConnectsTo]; !ok {
			return nil, fmt.Errorf("%s: portal %s: invalid connects_to: %q", stem, p.ID, p.ConnectsTo)
		}
		expected, ok := edgeLens[overworld.NewEdgeKey(p.ID, p.ConnectsTo)]
		if !ok {
			return nil, fmt.Errorf("%s: missing overworld edge length for portal pair %s <-> %s", stem, p.ID, p.ConnectsTo)
		}
		found := false
		for _, ex := range pr.Exits {
			if ex.To != p.ConnectsTo {
				continue
			}
			if ex.Len != expected {
				return nil, fmt.Errorf("%s: portal room %s: exit to %s must have len=%d (got %d)", stem, p.ID, p.ConnectsTo, expected, ex.Len)
			}
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%s: portal room %s: missing exit to connects_to portal %s", stem, p.ID, p.ConnectsTo)
		}
	}

	var warnings []string

	budgets := sh.ClusterBudgets()
	budgeted := make([]string, 0, len(budgets))
	for cid := range budgets {
		budgeted = append(budgeted, cid)
	}
	sort.Strings(budgeted)
	for _, cid := range budgeted {
		if got := len(roomsByCluster[cid]); got < budgets[cid] {
			warnings = append(warnings, fmt.Sprintf("%s: cluster %s under target rooms: got %d, target %d", stem, cid, got, budgets[cid]))
		}
	}

	if f.StartRoom != "" {
		if unreached := unreachableFrom(f.StartRoom, roomByID); len(unreached) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: unreachable rooms from start_room (%s): %d", stem, f.StartRoom, len(unreached)))
		}
	}

	return warnings, nil
}

// unreachableFrom walks in-file exits breadth first and returns the sorted
// room ids not reached from start. Exits leaving the file are ignored.
func unreachableFrom(start string, roomByID map[string]*Room) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ex := range roomByID[cur].Exits {
			if _, ok := roomByID[ex.To]; !ok {
				continue
			}
			if !seen[ex.To] {
				seen[ex.To] = true
				queue = append(queue, ex.To)
			}
		}
	}
	if len(seen) == len(roomByID) {
		return nil
	}
	var out []string
	for rid := range roomByID {
		if !seen[rid] {
			out = append(out, rid)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateDir validates every area file in areasDir, loading the matching
// zone shape from zonesDir per file. Returns the number of files validated
// and the accumulated warnings.
func ValidateDir(areasDir, zonesDir string, g *overworld.Graph) (int, []string, error) {
	entries, err := os.ReadDir(areasDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("reading areas dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	count := 0
	var warnings []string
	for _, name := range names {
		stem := strings.TrimSuffix(name, ".yaml")
		f, err := Load(filepath.Join(areasDir, name))
		if err != nil {
			return count, warnings, err
		}
		sh, err := shape.Load(filepath.Join(zonesDir, stem+".yaml"))
		if err != nil {
			return count, warnings, fmt.Errorf("%s: missing zone shape: %w", stem, err)
		}
		w, err := Validate(f, stem, g, sh)
		warnings = append(warnings, w...)
		if err != nil {
			return count, warnings, err
		}
		count++
	}
	return count, warnings, nil
}
