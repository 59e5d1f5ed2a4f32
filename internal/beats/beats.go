// Package beats parses the authoritative cluster/beats design document.
//
// The document is the source of truth for cluster ids: one `### <Zone Name>`
// heading per zone, optionally carrying a trailing "(L<min>-L<max>, <N>
// rooms)" suffix, followed by a pipe table whose first column holds CL_*
// cluster ids and whose second column may hold an integer room budget.
package beats

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// LevelBand is the inclusive level range a zone is tuned for.
type LevelBand struct {
	Min int
	Max int
}

// ClusterBudget is one authoritative cluster id with an optional room budget.
type ClusterBudget struct {
	ID string
	// Rooms is nil when the table row carried no parseable budget.
	Rooms *int
}

// ZoneMeta is everything the beats document declares for one zone.
type ZoneMeta struct {
	Name string
	// Levels is nil when the heading had no conforming level/rooms trailer.
	Levels *LevelBand
	// TargetRooms is nil when the heading had no conforming trailer.
	TargetRooms *int
	Clusters    []ClusterBudget
}

// ClusterIDs returns the cluster ids in document order.
func (m *ZoneMeta) ClusterIDs() []string {
	out := make([]string, len(m.Clusters))
	for i, c := range m.Clusters {
		out[i] = c.ID
	}
	return out
}

// Doc is the parsed beats document.
type Doc struct {
	// Zones in document order.
	Zones  []*ZoneMeta
	byName map[string]*ZoneMeta
}

// Zone looks up a zone by display name.
func (d *Doc) Zone(name string) (*ZoneMeta, bool) {
	m, ok := d.byName[name]
	return m, ok
}

// ZoneByCluster returns the cluster-id to zone-display-name index.
func (d *Doc) ZoneByCluster() map[string]string {
	out := make(map[string]string)
	for _, z := range d.Zones {
		for _, c := range z.Clusters {
			out[c.ID] = z.Name
		}
	}
	return out
}

// AllClusterIDs returns every authoritative cluster id across all zones.
func (d *Doc) AllClusterIDs() map[string]bool {
	out := make(map[string]bool)
	for _, z := range d.Zones {
		for _, c := range z.Clusters {
			out[c.ID] = true
		}
	}
	return out
}

var (
	trailerRe = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)
	levelRe   = regexp.MustCompile(`\bL(\d+)\s*-\s*L(\d+)\b`)
	roomsRe   = regexp.MustCompile(`\b(\d+)\s*rooms\b`)
)

// Load reads and parses a beats document from disk.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading beats document %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse scans the beats document text. The scan threads an explicit
// current-zone accumulator; cluster rows bind to the most recent heading.
// Headings without a conforming trailer still declare a zone, just without
// level band or room target.
func Parse(text string) *Doc {
	doc := &Doc{byName: make(map[string]*ZoneMeta)}
	var current *ZoneMeta

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "### ") {
			title := strings.TrimSpace(line[len("### "):])
			// Strip only the trailing "(...)" group; parentheses inside the
			// zone name itself are preserved.
			name := strings.TrimSpace(trailerRe.ReplaceAllString(title, ""))

			meta, seen := doc.byName[name]
			if !seen {
				meta = &ZoneMeta{Name: name}
				doc.Zones = append(doc.Zones, meta)
				doc.byName[name] = meta
			}
			current = meta

			if m := trailerRe.FindStringSubmatch(title); m != nil {
				trailer := m[1]
				lm := levelRe.FindStringSubmatch(trailer)
				rm := roomsRe.FindStringSubmatch(trailer)
				if lm != nil && rm != nil {
					lo, _ := strconv.Atoi(lm[1])
					hi, _ := strconv.Atoi(lm[2])
					n, _ := strconv.Atoi(rm[1])
					meta.Levels = &LevelBand{Min: lo, Max: hi}
					meta.TargetRooms = &n
				}
			}
			continue
		}

		if current == nil || !strings.HasPrefix(strings.TrimLeft(line, " \t"), "| CL_") {
			continue
		}
		cells := splitCells(line)
		if len(cells) == 0 || !strings.HasPrefix(cells[0], "CL_") {
			continue
		}
		cb := ClusterBudget{ID: cells[0]}
		if len(cells) >= 2 {
			if n, err := strconv.Atoi(cells[1]); err == nil {
				cb.Rooms = &n
			}
		}
		current.Clusters = append(current.Clusters, cb)
	}

	return doc
}

func splitCells(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}
