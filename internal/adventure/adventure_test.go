package adventure_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stygianmud/worldsmith/internal/adventure"
	"github.com/stygianmud/worldsmith/internal/beats"
	"github.com/stygianmud/worldsmith/internal/overworld"
)

const beatsDoc = `## Zones

### Sewers (L3-L6, 80 rooms)

| Cluster | Rooms | Notes |
| --- | --- | --- |
| CL_SEWERS_ENTRY | 15 | |
| CL_SEWERS_DEEP | 25 | |

### Meadowline (L1-L4, 60 rooms)

| Cluster | Rooms | Notes |
| --- | --- | --- |
| CL_MEADOW_EDGE | 20 | |
`

const protoSewersDeep = `---
adventure_id: q2-down-the-drain
clusters:
  - CL_SEWERS_DEEP
party_classes: [rat-catcher]
---

# Down the Drain

### 1. Entry Grate R_SEWER_GRATE_01

- exits: down -> ` + "`R_SEWER_TUNNEL_01`" + `

### 2. Slick Tunnel R_SEWER_TUNNEL_01

- exits:
  - back -> R_SEWER_GRATE_01
`

const protoMeadow = `---
adventure_id: q1-first-light
clusters:
  - CL_MEADOW_EDGE
  - CL_MEADOW_LOST
---

# First Light

### R_MEADOW_GATE_01

- exits: east -> R_MEADOW_PATH_01

### R_MEADOW_PATH_01
`

func writeProtoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q2-down-the-drain.md"), []byte(protoSewersDeep), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q1-first-light.md"), []byte(protoMeadow), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# readme"), 0o644))
	return dir
}

func testGraph() *overworld.Graph {
	return &overworld.Graph{
		Version: 1,
		Zones: []overworld.Zone{
			{ID: "sewers", Name: "Sewers"},
			{ID: "meadowline", Name: "Meadowline"},
		},
	}
}

func TestCheckCoverage_ReportsMissingCluster(t *testing.T) {
	doc := beats.Parse(beatsDoc)
	cov, err := adventure.CheckCoverage(doc, writeProtoDir(t))
	require.NoError(t, err)

	assert.False(t, cov.Complete())
	assert.True(t, cov.Covered["CL_SEWERS_DEEP"])
	assert.True(t, cov.Covered["CL_MEADOW_EDGE"])
	// CL_SEWERS_ENTRY has no protoadventure yet.
	assert.Equal(t, map[string][]string{"Sewers": {"CL_SEWERS_ENTRY"}}, cov.MissingByZone)

	// CL_MEADOW_LOST is not an official cluster.
	warnings := cov.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "q1-first-light.md")
	assert.Contains(t, warnings[0], "CL_MEADOW_LOST")
}

func TestCheckCoverage_CompleteWhenAllCovered(t *testing.T) {
	doc := beats.Parse(beatsDoc)
	dir := writeProtoDir(t)
	entry := "---\nadventure_id: q3-grate-watch\nclusters: [CL_SEWERS_ENTRY]\n---\n\n### R_SEWER_GRATE_02\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q3-grate-watch.md"), []byte(entry), 0o644))

	cov, err := adventure.CheckCoverage(doc, dir)
	require.NoError(t, err)
	assert.True(t, cov.Complete())
}

func TestParseAdventureIDs(t *testing.T) {
	todo := "# Adventures\n\n## 01) `q1-first-light`\n\nnotes\n\n## 02) `q2-down-the-drain`\n\n## not-an-id\n"
	assert.Equal(t, []string{"q1-first-light", "q2-down-the-drain"}, adventure.ParseAdventureIDs(todo))
}

func TestLint_CleanFile(t *testing.T) {
	res := adventure.Lint("q2.md", protoSewersDeep)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestLint_TerminalRoomWarnsOnly(t *testing.T) {
	res := adventure.Lint("q1.md", protoMeadow)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "rooms without exits: R_MEADOW_PATH_01")
}

func TestLint_UnknownExitTarget(t *testing.T) {
	text := "### R_A_01\n\n- exits: on -> R_B_01\n"
	res := adventure.Lint("bad.md", text)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], `R_A_01 exit "on" -> R_B_01 (unknown)`)
}

func TestLint_DuplicateRoom(t *testing.T) {
	text := "### R_A_01\n\n- exits: on -> R_A_01\n\n### R_A_01\n"
	res := adventure.Lint("dup.md", text)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "duplicate room id R_A_01")
}

func TestLint_UnreachableRooms(t *testing.T) {
	text := "### R_A_01\n\n- exits: on -> R_B_01\n\n### R_B_01\n\n- exits: back -> R_A_01\n\n### R_C_01\n\n- exits: out -> R_A_01\n"
	res := adventure.Lint("loop.md", text)
	assert.Empty(t, res.Errors)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "unreachable rooms from R_A_01: R_C_01")
}

func TestLint_NoRoomHeadings(t *testing.T) {
	res := adventure.Lint("empty.md", "# Title\n\nprose only\n")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "no room headings found")
}

func TestLint_SubheadingsDoNotEndRoom(t *testing.T) {
	text := "### R_A_01\n\n#### Mood\n\n- exits: on -> R_B_01\n\n### R_B_01\n\n- exits: back -> R_A_01\n"
	res := adventure.Lint("sub.md", text)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestLint_ProseRUnderscoreIgnored(t *testing.T) {
	text := "### R_A_01 and some r_lowercase prose\n\n- exits: on -> R_A_01\n"
	res := adventure.Lint("prose.md", text)
	assert.Empty(t, res.Errors)
}

func TestLintAll(t *testing.T) {
	dir := writeProtoDir(t)
	todoPath := filepath.Join(dir, "adventures_todo.md")
	todo := "## 01) `q1-first-light`\n## 02) `q2-down-the-drain`\n## 03) `q9-missing`\n"
	require.NoError(t, os.WriteFile(todoPath, []byte(todo), 0o644))

	res, n, err := adventure.LintAll(todoPath, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "q9-missing.md: missing protoadventure file")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "rooms without exits")
}

func TestLintAll_EmptyTodoFails(t *testing.T) {
	dir := t.TempDir()
	todoPath := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(todoPath, []byte("# nothing here\n"), 0o644))
	_, _, err := adventure.LintAll(todoPath, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no adventure ids")
}

func TestProtosByZoneID(t *testing.T) {
	doc := beats.Parse(beatsDoc)
	mapped, warnings, err := adventure.ProtosByZoneID(doc, testGraph(), writeProtoDir(t))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, map[string][]string{
		"sewers":     {"q2-down-the-drain"},
		"meadowline": {"q1-first-light"},
	}, mapped)
}

func TestProtosByZoneID_UnknownZoneWarns(t *testing.T) {
	doc := beats.Parse(beatsDoc)
	g := testGraph()
	g.Zones = g.Zones[:1]
	mapped, warnings, err := adventure.ProtosByZoneID(doc, g, writeProtoDir(t))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"Meadowline"`)
	assert.NotContains(t, mapped, "meadowline")
}

func TestReplaceTopLevelBlock(t *testing.T) {
	t.Run("replaces existing block", func(t *testing.T) {
		in := "version: 1\nprotoadventures:\n  - old-one\n\nclusters:\n  - CL_A\n"
		out := adventure.ReplaceTopLevelBlock(in, "protoadventures", "protoadventures:\n  - q1\n  - q2\n")
		assert.Equal(t, "version: 1\nprotoadventures:\n  - q1\n  - q2\nclusters:\n  - CL_A\n", out)
	})

	t.Run("appends when missing", func(t *testing.T) {
		in := "version: 1\n"
		out := adventure.ReplaceTopLevelBlock(in, "protoadventures", "protoadventures:\n  - q1\n")
		assert.Equal(t, "version: 1\n\nprotoadventures:\n  - q1\n", out)
	})

	t.Run("idempotent", func(t *testing.T) {
		block := "protoadventures:\n  - q1\n"
		once := adventure.ReplaceTopLevelBlock("version: 1\n", "protoadventures", block)
		twice := adventure.ReplaceTopLevelBlock(once, "protoadventures", block)
		assert.Equal(t, once, twice)
	})
}

func TestAnnotateZones(t *testing.T) {
	doc := beats.Parse(beatsDoc)
	protoDir := writeProtoDir(t)
	zonesDir := t.TempDir()
	sewersShape := "version: 1\nzone_id: sewers\nzone_name: Sewers\nclusters:\n  - CL_SEWERS_ENTRY\n  - CL_SEWERS_DEEP\n"
	require.NoError(t, os.WriteFile(filepath.Join(zonesDir, "sewers.yaml"), []byte(sewersShape), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(zonesDir, "meadowline.yaml"),
		[]byte("version: 1\nzone_id: meadowline\nzone_name: Meadowline\nprotoadventures:\n  - stale-entry\n"), 0o644))

	mapped, _, err := adventure.ProtosByZoneID(doc, testGraph(), protoDir)
	require.NoError(t, err)

	res, err := adventure.AnnotateZones(zonesDir, mapped, "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 2, res.Changed)

	sewers, err := os.ReadFile(filepath.Join(zonesDir, "sewers.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(sewers), "protoadventures:\n  - q2-down-the-drain\n")
	// Hand-authored content above the block is untouched.
	assert.Contains(t, string(sewers), "clusters:\n  - CL_SEWERS_ENTRY\n")

	meadow, err := os.ReadFile(filepath.Join(zonesDir, "meadowline.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(meadow), "protoadventures:\n  - q1-first-light\n")
	assert.NotContains(t, string(meadow), "stale-entry")

	// A second pass changes nothing.
	res, err = adventure.AnnotateZones(zonesDir, mapped, "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Zero(t, res.Changed)
}

func TestAnnotateZones_DryRun(t *testing.T) {
	zonesDir := t.TempDir()
	original := "version: 1\nzone_id: sewers\n"
	require.NoError(t, os.WriteFile(filepath.Join(zonesDir, "sewers.yaml"), []byte(original), 0o644))

	res, err := adventure.AnnotateZones(zonesDir, map[string][]string{"sewers": {"q1"}}, "sewers", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)

	back, err := os.ReadFile(filepath.Join(zonesDir, "sewers.yaml"))
	require.NoError(t, err)
	assert.Equal(t, original, string(back))
}

func TestAnnotateZones_UnknownZone(t *testing.T) {
	_, err := adventure.AnnotateZones(t.TempDir(), nil, "nope", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such zone file")
}
