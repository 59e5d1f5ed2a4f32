// Package area models per-zone area files: the concrete room/exit graphs the
// game runtime eventually serves. It also houses the generators and the
// validator that operate on them.
package area

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Exit is a passage out of a room. Dir is a free-form direction token; To
// resolves against an in-file room, an overworld portal, or a sealed
// placeholder.
type Exit struct {
	Dir string `yaml:"dir"`
	To  string `yaml:"to"`
	Len int    `yaml:"len"`
	// State marks a placeholder exit; "sealed" exits are not traversable yet.
	State string `yaml:"state,omitempty"`
	// OpensArea names the future area id ("A02"...) a sealed exit will open into.
	OpensArea string `yaml:"opens_area,omitempty"`
}

// UnmarshalYAML applies the default movement cost of 1 when len is omitted.
func (e *Exit) UnmarshalYAML(n *yaml.Node) error {
	type rawExit Exit
	raw := rawExit{Len: 1}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*e = Exit(raw)
	return nil
}

// Sealed reports whether the exit is an explicit placeholder rather than a
// resolvable target.
func (e Exit) Sealed() bool {
	return e.State == "sealed" || strings.HasPrefix(e.OpensArea, "A")
}

// Room is one location in the zone's graph.
type Room struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Cluster string   `yaml:"cluster"`
	Tags    []string `yaml:"tags,omitempty"`
	Desc    string   `yaml:"desc,omitempty"`
	Exits   []Exit   `yaml:"exits,omitempty"`
}

// HasTagPrefix reports whether any tag carries the given prefix.
func (r *Room) HasTagPrefix(prefix string) bool {
	for _, t := range r.Tags {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// EnsureExit appends ex unless the room already has an exit with the same
// (dir, to) pair.
func (r *Room) EnsureExit(ex Exit) {
	for _, e := range r.Exits {
		if e.Dir == ex.Dir && e.To == ex.To {
			return
		}
	}
	r.Exits = append(r.Exits, ex)
}

// File is one zone's area file.
type File struct {
	Version   int     `yaml:"version"`
	ZoneID    string  `yaml:"zone_id"`
	ZoneName  string  `yaml:"zone_name"`
	AreaID    string  `yaml:"area_id,omitempty"`
	LevelBand []int   `yaml:"level_band,omitempty"`
	StartRoom string  `yaml:"start_room,omitempty"`
	Rooms     []*Room `yaml:"rooms"`
}

// RoomByID returns the room index keyed by room id. Later duplicates win;
// the validator rejects duplicates before anything else relies on this.
func (f *File) RoomByID() map[string]*Room {
	out := make(map[string]*Room, len(f.Rooms))
	for _, r := range f.Rooms {
		out[r.ID] = r
	}
	return out
}

// RoomsByCluster returns room ids grouped by cluster, in file order.
func (f *File) RoomsByCluster() map[string][]string {
	out := make(map[string][]string)
	for _, r := range f.Rooms {
		out[r.Cluster] = append(out[r.Cluster], r.ID)
	}
	return out
}

// Load reads and parses an area file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading area file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses an area file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing area YAML: %w", err)
	}
	return &f, nil
}

// Marshal serialises an area file. Serialisation is deterministic: field
// order follows the struct, room order follows the slice.
func Marshal(f *File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("serialising area file: %w", err)
	}
	return data, nil
}

// Save writes the complete marshalled file in a single write.
func Save(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing area file %s: %w", path, err)
	}
	return nil
}
