package overworld_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/stygianmud/worldsmith/internal/overworld"
)

const designDoc = `# Overworld cartesian layout

## Zone anchors

| Zone | Anchor (x,y) |
| --- | --- |
| Meadowline | (0, 4) |
| Sewers | (2, -1) |
| Scrap Orchard | (6, 4) |

## Portals

| Portal ID | Zone | Cluster hint | Connects to | (x,y) |
| --- | --- | --- | --- | --- |
| P_MEADOW_E | Meadowline | CL_MEADOW_EDGE | P_ORCHARD_W | (3, 4) |
| P_ORCHARD_W | Scrap Orchard | CL_ORCHARD_GATE | P_MEADOW_E | (4, 4) |
| P_MEADOW_S | Meadowline | CL_MEADOW_EDGE | P_SEWERS_N | (1, 2) |
| P_SEWERS_N | Sewers | CL_SEWERS_ENTRY | P_MEADOW_S | (1, 0) |

## Lengths

| From | To | len | Notes |
| --- | --- | --- | --- |
| P_MEADOW_E | P_ORCHARD_W | 1 | old fence stile |
| P_MEADOW_S | P_SEWERS_N | 3 | |
`

var exportTime = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

func TestExport_Graph(t *testing.T) {
	g, err := overworld.Export(designDoc, "docs/overworld_cartesian_layout.md", exportTime)
	require.NoError(t, err)

	require.Len(t, g.Zones, 3)
	assert.Equal(t, "meadowline", g.Zones[0].ID)
	assert.Equal(t, "scrap_orchard", g.Zones[2].ID)
	assert.Equal(t, overworld.Coord{X: 0, Y: 4}, g.Zones[0].Anchor)

	require.Len(t, g.Portals, 4)
	assert.Equal(t, "meadowline", g.Portals[0].ZoneID)
	assert.Equal(t, "P_ORCHARD_W", g.Portals[0].ConnectsTo)

	require.Len(t, g.Edges, 2)
	assert.Equal(t, 3, g.Edges[1].Len)
	assert.Equal(t, "old fence stile", g.Edges[0].Notes)
	assert.Equal(t, "", g.Edges[1].Notes)

	assert.Equal(t, "2026-02-14T09:30:00Z", g.GeneratedAtUTC)
	assert.Equal(t, "docs/overworld_cartesian_layout.md", g.GeneratedFrom)
}

func TestExport_Deterministic(t *testing.T) {
	g1, err := overworld.Export(designDoc, "src.md", exportTime)
	require.NoError(t, err)
	g2, err := overworld.Export(designDoc, "src.md", exportTime)
	require.NoError(t, err)

	b1, err := overworld.MarshalGraph(g1)
	require.NoError(t, err)
	b2, err := overworld.MarshalGraph(g2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestExport_SlugCollision(t *testing.T) {
	doc := `
| Zone | Anchor (x,y) |
| --- | --- |
| Gaia Gate | (0, 0) |
| Gaia  Gate | (1, 1) |
| Gaia-Gate | (2, 2) |

| Portal ID | Zone | Cluster hint | Connects to | (x,y) |
| --- | --- | --- | --- | --- |

| From | To | len | Notes |
| --- | --- | --- | --- |
`
	g, err := overworld.Export(doc, "src.md", exportTime)
	require.NoError(t, err)
	require.Len(t, g.Zones, 3)
	assert.Equal(t, "gaia_gate", g.Zones[0].ID)
	assert.Equal(t, "gaia_gate_2", g.Zones[1].ID)
	assert.Equal(t, "gaia_gate_3", g.Zones[2].ID)
}

func TestExport_MalformedCoordAborts(t *testing.T) {
	doc := `
| Zone | Anchor (x,y) |
| --- | --- |
| Meadowline | (0; 4) |

| Portal ID | Zone | Cluster hint | Connects to | (x,y) |
| --- | --- | --- | --- | --- |

| From | To | len | Notes |
| --- | --- | --- | --- |
`
	_, err := overworld.Export(doc, "src.md", exportTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coord")
}

func TestExport_DuplicateEdgeAborts(t *testing.T) {
	doc := `
| Zone | Anchor (x,y) |
| --- | --- |
| A | (0, 0) |
| B | (5, 0) |

| Portal ID | Zone | Cluster hint | Connects to | (x,y) |
| --- | --- | --- | --- | --- |
| P_A | A | CL_A_X | P_B | (1, 0) |
| P_B | B | CL_B_X | P_A | (2, 0) |

| From | To | len | Notes |
| --- | --- | --- | --- |
| P_A | P_B | 2 | |
| P_B | P_A | 2 | |
`
	_, err := overworld.Export(doc, "src.md", exportTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate edge")
}

func TestExport_UnknownPortalEdgeAborts(t *testing.T) {
	doc := `
| Zone | Anchor (x,y) |
| --- | --- |
| A | (0, 0) |

| Portal ID | Zone | Cluster hint | Connects to | (x,y) |
| --- | --- | --- | --- | --- |
| P_A | A | CL_A_X | P_GHOST | (1, 0) |

| From | To | len | Notes |
| --- | --- | --- | --- |
| P_A | P_GHOST | 2 | |
`
	_, err := overworld.Export(doc, "src.md", exportTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown portal: P_GHOST")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Town: Gaia Gate":              "town_gaia_gate",
		"  Meadowline  ":               "meadowline",
		"Factory District (Outskirts)": "factory_district_outskirts",
		"!!!":                          "zone",
	}
	for in, want := range cases {
		assert.Equal(t, want, overworld.Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugify_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[ -~]{0,40}`).Draw(t, "name")
		s := overworld.Slugify(name)
		assert.NotEmpty(t, s)
		assert.Equal(t, s, overworld.Slugify(name), "slugify must be deterministic")
		assert.Equal(t, s, overworld.Slugify(s), "slugify must be idempotent on its own output")
		for _, r := range s {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
			assert.True(t, ok, "unexpected rune %q in slug %q", r, s)
		}
	})
}

func TestParseCoord(t *testing.T) {
	c, err := overworld.ParseCoord(" (-3, 12) ")
	require.NoError(t, err)
	assert.Equal(t, overworld.Coord{X: -3, Y: 12}, c)

	for _, bad := range []string{"", "(1)", "(a, b)", "1, 2", "(1, 2) extra"} {
		_, err := overworld.ParseCoord(bad)
		assert.Error(t, err, "ParseCoord(%q)", bad)
	}
}

func TestPairsTSV(t *testing.T) {
	g, err := overworld.Export(designDoc, "src.md", exportTime)
	require.NoError(t, err)

	tsv, err := overworld.PairsTSV(g)
	require.NoError(t, err)
	assert.Contains(t, tsv, "a\tb\tlen\tax\tay\tbx\tby\ta_zone\tb_zone\tnotes\n")
	assert.Contains(t, tsv, "P_MEADOW_E\tP_ORCHARD_W\t1\t3\t4\t4\t4\tMeadowline\tScrap Orchard\told fence stile\n")
}

func TestBuildSummary(t *testing.T) {
	g, err := overworld.Export(designDoc, "src.md", exportTime)
	require.NoError(t, err)

	s := overworld.BuildSummary(g)
	assert.Equal(t, 4, s.PortalCount)
	assert.Equal(t, 2, s.EdgeCount)
	require.Len(t, s.Zones, 3)
	assert.Equal(t, overworld.ZoneSummary{ID: "meadowline", Name: "Meadowline", PortalCount: 2}, s.Zones[0])
	assert.Equal(t, overworld.ZoneSummary{ID: "sewers", Name: "Sewers", PortalCount: 1}, s.Zones[1])
}

func TestGraphRoundTrip(t *testing.T) {
	g, err := overworld.Export(designDoc, "src.md", exportTime)
	require.NoError(t, err)

	data, err := overworld.MarshalGraph(g)
	require.NoError(t, err)

	parsed, err := overworld.ParseGraph(data)
	require.NoError(t, err)
	assert.Equal(t, g, parsed)
}
