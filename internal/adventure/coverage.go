// Package adventure checks and annotates protoadventure drafts: markdown
// files under protoadventures/ whose YAML front matter binds them to the
// clusters they constrain.
package adventure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/stygianmud/worldsmith/internal/beats"
)

// Coverage reports which official clusters the protoadventure set touches.
type Coverage struct {
	// Covered holds official cluster ids referenced by at least one
	// protoadventure.
	Covered map[string]bool
	// Unknown maps protoadventure filename to the CL_* ids it references
	// that the beats document does not declare.
	Unknown map[string][]string
	// MissingByZone maps zone display name to its uncovered cluster ids,
	// in beats document order.
	MissingByZone map[string][]string
}

// Complete reports whether every official cluster is covered.
func (c *Coverage) Complete() bool {
	return len(c.MissingByZone) == 0
}

// Warnings renders the unknown-cluster findings, one line per file, sorted.
func (c *Coverage) Warnings() []string {
	if len(c.Unknown) == 0 {
		return nil
	}
	files := make([]string, 0, len(c.Unknown))
	for f := range c.Unknown {
		files = append(files, f)
	}
	sort.Strings(files)
	out := make([]string, 0, len(files))
	for _, f := range files {
		ids := append([]string(nil), c.Unknown[f]...)
		sort.Strings(ids)
		out = append(out, f+" references unknown clusters: "+strings.Join(ids, ", "))
	}
	return out
}

// CheckCoverage compares the clusters declared in the beats document against
// the cluster references found in protoadventure front matter under protoDir.
//
// Postcondition: MissingByZone is empty iff every official cluster appears in
// at least one protoadventure.
func CheckCoverage(doc *beats.Doc, protoDir string) (*Coverage, error) {
	all := doc.AllClusterIDs()

	cov := &Coverage{
		Covered:       make(map[string]bool),
		Unknown:       make(map[string][]string),
		MissingByZone: make(map[string][]string),
	}

	files, err := beats.ListAdventureFiles(protoDir)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		fm, err := beats.ReadFrontMatter(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		for _, c := range fm.Clusters {
			switch {
			case all[c]:
				cov.Covered[c] = true
			case strings.HasPrefix(c, "CL_"):
				cov.Unknown[name] = append(cov.Unknown[name], c)
			}
		}
	}

	for _, z := range doc.Zones {
		var miss []string
		for _, c := range z.Clusters {
			if !cov.Covered[c.ID] {
				miss = append(miss, c.ID)
			}
		}
		if len(miss) > 0 {
			cov.MissingByZone[z.Name] = miss
		}
	}

	return cov, nil
}
