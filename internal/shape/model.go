// Package shape models per-zone planning files: bounds, clusters with room
// budgets, portal membership, and optional authoring hints.
package shape

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stygianmud/worldsmith/internal/overworld"
)

// Bounds is the inclusive planning rectangle for a zone.
type Bounds struct {
	Min overworld.Coord `yaml:"min"`
	Max overworld.Coord `yaml:"max"`
}

// Contains reports whether c lies within the rectangle.
func (b Bounds) Contains(c overworld.Coord) bool {
	return b.Min.X <= c.X && c.X <= b.Max.X && b.Min.Y <= c.Y && c.Y <= b.Max.Y
}

// ClusterRef is a cluster entry in a shape file. Authors may write either a
// bare cluster id or a mapping with a room budget; both forms round-trip.
type ClusterRef struct {
	ID string
	// Rooms is the budgeted room count; nil when the entry carried none.
	Rooms *int
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (c *ClusterRef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&c.ID)
	}
	var m struct {
		ID    string `yaml:"id"`
		Rooms *int   `yaml:"rooms"`
	}
	if err := n.Decode(&m); err != nil {
		return fmt.Errorf("invalid cluster entry: %w", err)
	}
	c.ID = m.ID
	c.Rooms = m.Rooms
	return nil
}

// MarshalYAML emits the scalar form when there is no budget.
func (c ClusterRef) MarshalYAML() (any, error) {
	if c.Rooms == nil {
		return c.ID, nil
	}
	return struct {
		ID    string `yaml:"id"`
		Rooms int    `yaml:"rooms"`
	}{c.ID, *c.Rooms}, nil
}

// PortalRef is a portal entry in a shape file: a bare portal id or a mapping
// that also names the cluster the portal sits in.
type PortalRef struct {
	ID      string
	Cluster string
}

// UnmarshalYAML accepts both forms; the mapping form may use either
// "cluster" or the overworld's "cluster_hint" key.
func (p *PortalRef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&p.ID)
	}
	var m struct {
		ID          string `yaml:"id"`
		Cluster     string `yaml:"cluster"`
		ClusterHint string `yaml:"cluster_hint"`
	}
	if err := n.Decode(&m); err != nil {
		return fmt.Errorf("invalid portal entry: %w", err)
	}
	p.ID = m.ID
	p.Cluster = m.Cluster
	if p.Cluster == "" {
		p.Cluster = m.ClusterHint
	}
	return nil
}

// MarshalYAML emits the scalar form when no cluster is recorded.
func (p PortalRef) MarshalYAML() (any, error) {
	if p.Cluster == "" {
		return p.ID, nil
	}
	return struct {
		ID      string `yaml:"id"`
		Cluster string `yaml:"cluster"`
	}{p.ID, p.Cluster}, nil
}

// KeyRoom is a pre-declared room stub tied to a cluster.
type KeyRoom struct {
	ID      string   `yaml:"id"`
	Cluster string   `yaml:"cluster"`
	Tags    []string `yaml:"tags,omitempty"`
}

// ClusterEdge is an authoring hint that two clusters should connect. It
// never drives graph logic.
type ClusterEdge struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// File is one zone's shape file.
type File struct {
	Version         int              `yaml:"version"`
	ZoneID          string           `yaml:"zone_id"`
	ZoneName        string           `yaml:"zone_name"`
	AreaID          string           `yaml:"area_id,omitempty"`
	LevelBand       []int            `yaml:"level_band,omitempty"`
	TargetRooms     *int             `yaml:"target_rooms,omitempty"`
	Anchor          *overworld.Coord `yaml:"anchor,omitempty"`
	Bounds          *Bounds          `yaml:"bounds,omitempty"`
	Clusters        []ClusterRef     `yaml:"clusters,omitempty"`
	Portals         []PortalRef      `yaml:"portals,omitempty"`
	KeyRooms        []KeyRoom        `yaml:"key_rooms,omitempty"`
	Hubs            []string         `yaml:"hubs,omitempty"`
	ClusterEdges    []ClusterEdge    `yaml:"cluster_edges,omitempty"`
	Protoadventures []string         `yaml:"protoadventures,omitempty"`
}

// ClusterIDs returns the declared cluster ids in file order.
func (f *File) ClusterIDs() []string {
	out := make([]string, len(f.Clusters))
	for i, c := range f.Clusters {
		out[i] = c.ID
	}
	return out
}

// ClusterBudgets returns the declared per-cluster room budgets.
func (f *File) ClusterBudgets() map[string]int {
	out := make(map[string]int)
	for _, c := range f.Clusters {
		if c.Rooms != nil {
			out[c.ID] = *c.Rooms
		}
	}
	return out
}

// PortalIDs returns the declared portal ids in file order.
func (f *File) PortalIDs() []string {
	out := make([]string, len(f.Portals))
	for i, p := range f.Portals {
		out[i] = p.ID
	}
	return out
}

// Load reads and parses a shape file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading shape file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a shape file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing shape YAML: %w", err)
	}
	return &f, nil
}

// Marshal serialises a shape file.
func Marshal(f *File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("serialising shape file: %w", err)
	}
	return data, nil
}
