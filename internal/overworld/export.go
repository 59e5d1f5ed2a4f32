package overworld

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stygianmud/worldsmith/internal/mdtable"
)

// Header signatures for the three design-document tables the exporter
// consumes. Matching is exact; first-seen wins.
var (
	anchorsHeader = []string{"Zone", "Anchor (x,y)"}
	portalsHeader = []string{"Portal ID", "Zone", "Cluster hint", "Connects to", "(x,y)"}
	lengthsHeader = []string{"From", "To", "len", "Notes"}
)

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9]+`)
	coordRe   = regexp.MustCompile(`^\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)$`)
)

// Slugify derives a stable zone id from a display name: lower-case,
// non-alphanumeric runs collapsed to single underscores, trimmed.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "zone"
	}
	return s
}

// ParseCoord parses a strict "(x, y)" coordinate.
func ParseCoord(s string) (Coord, error) {
	m := coordRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coord{}, fmt.Errorf("invalid coord: %q", s)
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return Coord{X: x, Y: y}, nil
}

// Export builds the overworld graph from the cartesian design document text.
// Output ordering follows document order throughout, so re-exporting the same
// document yields byte-identical zones, portals, and edges.
func Export(text, source string, now time.Time) (*Graph, error) {
	tables := mdtable.Extract(text)

	anchorRows, ok := mdtable.FindByHeader(tables, anchorsHeader)
	if !ok {
		return nil, fmt.Errorf("missing anchors table with header: %v", anchorsHeader)
	}
	portalRows, ok := mdtable.FindByHeader(tables, portalsHeader)
	if !ok {
		return nil, fmt.Errorf("missing portals table with header: %v", portalsHeader)
	}
	lengthRows, ok := mdtable.FindByHeader(tables, lengthsHeader)
	if !ok {
		return nil, fmt.Errorf("missing lengths table with header: %v", lengthsHeader)
	}

	g := &Graph{
		Version:        1,
		GeneratedAtUTC: now.UTC().Truncate(time.Second).Format(time.RFC3339),
		GeneratedFrom:  source,
		Units: Units{
			CoordUnit: "planning-grid",
			LenUnit:   "movement-cost",
		},
	}

	// Zones in declared order; slug collisions get _2, _3, ... suffixes.
	zoneIDByName := make(map[string]string)
	usedZoneIDs := make(map[string]bool)
	for _, row := range anchorRows {
		zoneName, anchorStr := row[0], row[1]
		base := Slugify(zoneName)
		zoneID := base
		for n := 2; usedZoneIDs[zoneID]; n++ {
			zoneID = fmt.Sprintf("%s_%d", base, n)
		}
		usedZoneIDs[zoneID] = true
		zoneIDByName[zoneName] = zoneID
		anchor, err := ParseCoord(anchorStr)
		if err != nil {
			return nil, fmt.Errorf("zone %q anchor: %w", zoneName, err)
		}
		g.Zones = append(g.Zones, Zone{ID: zoneID, Name: zoneName, Anchor: anchor})
	}

	portalSeen := make(map[string]bool)
	for _, row := range portalRows {
		portalID, zoneName, clusterHint, connectsTo, posStr := row[0], row[1], row[2], row[3], row[4]
		zoneID, ok := zoneIDByName[zoneName]
		if !ok {
			return nil, fmt.Errorf("portal %s references unknown zone: %q", portalID, zoneName)
		}
		pos, err := ParseCoord(posStr)
		if err != nil {
			return nil, fmt.Errorf("portal %s: %w", portalID, err)
		}
		if portalSeen[portalID] {
			return nil, fmt.Errorf("duplicate portal id: %s", portalID)
		}
		portalSeen[portalID] = true
		g.Portals = append(g.Portals, Portal{
			ID:          portalID,
			ZoneID:      zoneID,
			ZoneName:    zoneName,
			ClusterHint: clusterHint,
			ConnectsTo:  connectsTo,
			Pos:         pos,
		})
	}

	seenEdges := make(map[EdgeKey]bool)
	for _, row := range lengthRows {
		a, b, lenStr, notes := row[0], row[1], row[2], row[3]
		if !portalSeen[a] {
			return nil, fmt.Errorf("edge references unknown portal: %s", a)
		}
		if !portalSeen[b] {
			return nil, fmt.Errorf("edge references unknown portal: %s", b)
		}
		ln, err := strconv.Atoi(strings.TrimSpace(lenStr))
		if err != nil {
			return nil, fmt.Errorf("edge %s <-> %s has invalid len: %q", a, b, lenStr)
		}
		key := NewEdgeKey(a, b)
		if seenEdges[key] {
			return nil, fmt.Errorf("duplicate edge (undirected): %s <-> %s", a, b)
		}
		seenEdges[key] = true
		g.Edges = append(g.Edges, Edge{A: a, B: b, Len: ln, Notes: strings.TrimSpace(notes)})
	}

	return g, nil
}

// MarshalGraph serialises the graph as the canonical overworld YAML artifact.
func MarshalGraph(g *Graph) ([]byte, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("serialising overworld graph: %w", err)
	}
	return data, nil
}

// PairsTSV renders the flat edge listing: one row per edge with both endpoint
// coordinates and zone names.
func PairsTSV(g *Graph) (string, error) {
	portals := g.PortalByID()
	var b strings.Builder
	b.WriteString("a\tb\tlen\tax\tay\tbx\tby\ta_zone\tb_zone\tnotes\n")
	for _, e := range g.Edges {
		pa, ok := portals[e.A]
		if !ok {
			return "", fmt.Errorf("edge references unknown portal: %s", e.A)
		}
		pb, ok := portals[e.B]
		if !ok {
			return "", fmt.Errorf("edge references unknown portal: %s", e.B)
		}
		fmt.Fprintf(&b, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			e.A, e.B, e.Len, pa.Pos.X, pa.Pos.Y, pb.Pos.X, pb.Pos.Y,
			pa.ZoneName, pb.ZoneName, e.Notes)
	}
	return b.String(), nil
}

// ZoneSummary is one zone's entry in the export summary.
type ZoneSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PortalCount int    `json:"portal_count"`
}

// Summary is the machine-readable export summary.
type Summary struct {
	GeneratedAtUTC string        `json:"generated_at_utc"`
	Zones          []ZoneSummary `json:"zones"`
	PortalCount    int           `json:"portal_count"`
	EdgeCount      int           `json:"edge_count"`
}

// BuildSummary derives per-zone portal counts and totals from the graph.
func BuildSummary(g *Graph) Summary {
	counts := make(map[string]int)
	for _, p := range g.Portals {
		counts[p.ZoneID]++
	}
	s := Summary{
		GeneratedAtUTC: g.GeneratedAtUTC,
		PortalCount:    len(g.Portals),
		EdgeCount:      len(g.Edges),
	}
	for _, z := range g.Zones {
		s.Zones = append(s.Zones, ZoneSummary{ID: z.ID, Name: z.Name, PortalCount: counts[z.ID]})
	}
	return s
}

// MarshalSummary serialises the summary as indented JSON with a trailing
// newline.
func MarshalSummary(s Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialising summary: %w", err)
	}
	return append(data, '\n'), nil
}
