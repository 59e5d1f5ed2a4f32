// Package overworld models the exported overworld graph: zones, inter-zone
// portals, and the movement-cost edges between paired portals.
package overworld

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Coord is a 2D integer coordinate on the planning grid.
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Zone is a top-level region of the game world.
type Zone struct {
	// ID is the stable slug derived from the display name.
	ID string `yaml:"id"`
	// Name is the display name and the source of truth for identity.
	Name   string `yaml:"name"`
	Anchor Coord  `yaml:"anchor"`
}

// Portal is a paired connection point between two zones.
type Portal struct {
	ID          string `yaml:"id"`
	ZoneID      string `yaml:"zone_id"`
	ZoneName    string `yaml:"zone_name"`
	ClusterHint string `yaml:"cluster_hint"`
	// ConnectsTo is the paired portal in another zone. Pairing is symmetric.
	ConnectsTo string `yaml:"connects_to"`
	Pos        Coord  `yaml:"pos"`
}

// Edge is the movement cost between an unordered pair of portals.
type Edge struct {
	A     string `yaml:"a"`
	B     string `yaml:"b"`
	Len   int    `yaml:"len"`
	Notes string `yaml:"notes,omitempty"`
}

// Units documents the units the graph is expressed in.
type Units struct {
	CoordUnit string `yaml:"coord_unit"`
	LenUnit   string `yaml:"len_unit"`
}

// Graph is the full overworld artifact.
type Graph struct {
	Version        int      `yaml:"version"`
	GeneratedAtUTC string   `yaml:"generated_at_utc"`
	GeneratedFrom  string   `yaml:"generated_from"`
	Units          Units    `yaml:"units"`
	Zones          []Zone   `yaml:"zones"`
	Portals        []Portal `yaml:"portals"`
	Edges          []Edge   `yaml:"edges"`
}

// EdgeKey identifies an undirected edge: the two portal ids in sorted order.
type EdgeKey [2]string

// NewEdgeKey builds the canonical key for an unordered portal pair.
func NewEdgeKey(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// LoadGraph reads and parses an overworld YAML file.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overworld file %s: %w", path, err)
	}
	return ParseGraph(data)
}

// ParseGraph parses an overworld graph from YAML bytes.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing overworld YAML: %w", err)
	}
	return &g, nil
}

// ZoneByID returns the zone index keyed by zone id.
func (g *Graph) ZoneByID() map[string]Zone {
	out := make(map[string]Zone, len(g.Zones))
	for _, z := range g.Zones {
		out[z.ID] = z
	}
	return out
}

// ZoneIDByName returns the display-name to zone-id index.
func (g *Graph) ZoneIDByName() map[string]string {
	out := make(map[string]string, len(g.Zones))
	for _, z := range g.Zones {
		out[z.Name] = z.ID
	}
	return out
}

// PortalByID returns the portal index keyed by portal id.
func (g *Graph) PortalByID() map[string]Portal {
	out := make(map[string]Portal, len(g.Portals))
	for _, p := range g.Portals {
		out[p.ID] = p
	}
	return out
}

// ZonePortals returns the portals belonging to zoneID in graph order.
func (g *Graph) ZonePortals(zoneID string) []Portal {
	var out []Portal
	for _, p := range g.Portals {
		if p.ZoneID == zoneID {
			out = append(out, p)
		}
	}
	return out
}

// EdgeLengths returns the undirected edge to movement-cost index.
func (g *Graph) EdgeLengths() map[EdgeKey]int {
	out := make(map[EdgeKey]int, len(g.Edges))
	for _, e := range g.Edges {
		out[NewEdgeKey(e.A, e.B)] = e.Len
	}
	return out
}
