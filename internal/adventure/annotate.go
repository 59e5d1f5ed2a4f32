package adventure

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/overworld"
)

// ProtosByZoneID derives which protoadventures constrain each zone: a
// protoadventure belongs to a zone when its front matter references any of
// that zone's clusters. Cluster ids unknown to the beats document are
// skipped; zone names absent from the overworld graph are reported as
// warnings.
func ProtosByZoneID(doc *beats.Doc, g *overworld.Graph, protoDir string) (map[string][]string, []string, error) {
	zoneByCluster := doc.ZoneByCluster()
	zoneIDByName := g.ZoneIDByName()

	byZoneName := make(map[string]map[string]bool)
	files, err := beats.ListAdventureFiles(protoDir)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range files {
		fm, err := beats.ReadFrontMatter(path)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range fm.Clusters {
			zname, ok := zoneByCluster[c]
			if !ok {
				continue
			}
			if byZoneName[zname] == nil {
				byZoneName[zname] = make(map[string]bool)
			}
			byZoneName[zname][fm.AdventureID] = true
		}
	}

	mapped := make(map[string][]string)
	var warnings []string
	names := make([]string, 0, len(byZoneName))
	for zname := range byZoneName {
		names = append(names, zname)
	}
	sort.Strings(names)
	for _, zname := range names {
		zid, ok := zoneIDByName[zname]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("zone name not found in overworld: %q", zname))
			continue
		}
		var advs []string
		for id := range byZoneName[zname] {
			advs = append(advs, id)
		}
		sort.Strings(advs)
		mapped[zid] = append(mapped[zid], advs...)
	}
	return mapped, warnings, nil
}

// FormatListBlock renders a top-level YAML list block for key.
func FormatListBlock(key string, items []string) string {
	var b strings.Builder
	b.WriteString(key + ":\n")
	for _, it := range items {
		b.WriteString("  - " + it + "\n")
	}
	return b.String()
}

// ReplaceTopLevelBlock swaps the top-level YAML block starting at "key:" for
// newBlock, or appends newBlock at EOF when the key is absent. The rest of
// the document is preserved byte for byte, so hand-authored formatting and
// comments survive repeated annotation runs.
func ReplaceTopLevelBlock(text, key, newBlock string) string {
	if !strings.HasSuffix(newBlock, "\n") {
		newBlock += "\n"
	}

	lines := strings.SplitAfter(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, key+":") {
			start = i
			break
		}
	}
	if start == -1 {
		out := text
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if out != "" && !strings.HasSuffix(out, "\n\n") {
			out += "\n"
		}
		return out + newBlock
	}

	// The block ends at the next non-blank line that starts a new top-level
	// key.
	end := start + 1
	for end < len(lines) {
		ln := lines[end]
		if strings.TrimSpace(ln) == "" {
			end++
			continue
		}
		if ln[0] == ' ' || ln[0] == '\t' {
			end++
			continue
		}
		break
	}

	var b strings.Builder
	for _, ln := range lines[:start] {
		b.WriteString(ln)
	}
	b.WriteString(newBlock)
	for _, ln := range lines[end:] {
		b.WriteString(ln)
	}
	return b.String()
}

// AnnotateResult summarizes an annotation pass over zone shape files.
type AnnotateResult struct {
	Files   int
	Changed int
}

// AnnotateZones rewrites the protoadventures block of every zone shape file
// in zonesDir from the derived mapping. Files already carrying the derived
// block are left untouched, making the pass idempotent. When zoneID is
// non-empty only that zone's file is annotated.
func AnnotateZones(zonesDir string, protosByZone map[string][]string, zoneID string, dryRun bool) (AnnotateResult, error) {
	var res AnnotateResult

	entries, err := os.ReadDir(zonesDir)
	if err != nil {
		return res, fmt.Errorf("reading zones dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if zoneID != "" {
		want := zoneID + ".yaml"
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			return res, fmt.Errorf("no such zone file: %s", zoneID)
		}
		names = []string{want}
	}

	for _, name := range names {
		path := filepath.Join(zonesDir, name)
		original, err := os.ReadFile(path)
		if err != nil {
			return res, err
		}
		stem := strings.TrimSuffix(name, ".yaml")
		block := FormatListBlock("protoadventures", protosByZone[stem])
		updated := ReplaceTopLevelBlock(string(original), "protoadventures", block)
		res.Files++
		if updated == string(original) {
			continue
		}
		res.Changed++
		if dryRun {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return res, err
		}
	}
	return res, nil
}
