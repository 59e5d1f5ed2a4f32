package beats

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML front matter of a protoadventure file.
type FrontMatter struct {
	AdventureID  string
	Clusters     []string
	PartyClasses []string
}

// ParseFrontMatter extracts the leading "---" YAML block from a
// protoadventure document. Parsing is best-effort: missing or malformed
// front matter yields a zero FrontMatter, never an error, so one broken
// file cannot abort a whole-corpus scan.
func ParseFrontMatter(text string) FrontMatter {
	if !strings.HasPrefix(text, "---") {
		return FrontMatter{}
	}
	parts := strings.SplitN(text, "\n---", 2)
	raw := strings.TrimSpace(strings.TrimLeft(parts[0], "-"))

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return FrontMatter{}
	}

	var fm FrontMatter
	if id, ok := data["adventure_id"].(string); ok {
		fm.AdventureID = id
	}
	fm.Clusters = stringList(data["clusters"])
	fm.PartyClasses = stringList(data["party_classes"])
	return fm
}

// ReadFrontMatter reads a protoadventure file and parses its front matter.
// A file whose adventure_id is absent falls back to the filename stem.
func ReadFrontMatter(path string) (FrontMatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FrontMatter{}, err
	}
	fm := ParseFrontMatter(string(data))
	if fm.AdventureID == "" {
		base := filepath.Base(path)
		fm.AdventureID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return fm, nil
}

// ListAdventureFiles returns the protoadventure markdown files in dir,
// sorted by name, skipping the README and template.
func ListAdventureFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".md") || name == "README.md" || name == "_TEMPLATE.md" {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
