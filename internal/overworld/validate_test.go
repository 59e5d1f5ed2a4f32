package overworld_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stygianmud/worldsmith/internal/overworld"
)

func validGraph() *overworld.Graph {
	return &overworld.Graph{
		Version: 1,
		Zones: []overworld.Zone{
			{ID: "meadowline", Name: "Meadowline", Anchor: overworld.Coord{X: 0, Y: 4}},
			{ID: "sewers", Name: "Sewers", Anchor: overworld.Coord{X: 2, Y: -1}},
		},
		Portals: []overworld.Portal{
			{ID: "P_MEADOW_S", ZoneID: "meadowline", ZoneName: "Meadowline", ClusterHint: "CL_MEADOW_EDGE", ConnectsTo: "P_SEWERS_N", Pos: overworld.Coord{X: 1, Y: 2}},
			{ID: "P_SEWERS_N", ZoneID: "sewers", ZoneName: "Sewers", ClusterHint: "CL_SEWERS_ENTRY", ConnectsTo: "P_MEADOW_S", Pos: overworld.Coord{X: 1, Y: 0}},
		},
		Edges: []overworld.Edge{
			{A: "P_MEADOW_S", B: "P_SEWERS_N", Len: 3},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, overworld.Validate(validGraph(), nil))
}

func TestValidate_DuplicateZoneID(t *testing.T) {
	g := validGraph()
	g.Zones = append(g.Zones, overworld.Zone{ID: "sewers", Name: "Sewers Again"})
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate zone id: sewers")
}

func TestValidate_PortalUnknownZone(t *testing.T) {
	g := validGraph()
	g.Portals[0].ZoneID = "nowhere"
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zone_id")
}

func TestValidate_NonPositiveLen(t *testing.T) {
	g := validGraph()
	g.Edges[0].Len = 0
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid len")
}

func TestValidate_DuplicateUndirectedEdge(t *testing.T) {
	g := validGraph()
	g.Edges = append(g.Edges, overworld.Edge{A: "P_SEWERS_N", B: "P_MEADOW_S", Len: 3})
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate edge")
}

func TestValidate_StarterZoneLenRule(t *testing.T) {
	g := validGraph()
	err := overworld.Validate(g, []string{"Meadowline"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starter-region edge must be len=1")

	g.Edges[0].Len = 1
	assert.NoError(t, overworld.Validate(g, []string{"Meadowline"}))
}

func TestValidate_NonReciprocalConnectsTo(t *testing.T) {
	g := validGraph()
	g.Portals[1].ConnectsTo = "P_SEWERS_N" // points at itself
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reciprocal")
}

func TestValidate_ReciprocalPairWithoutEdge(t *testing.T) {
	g := validGraph()
	g.Edges = nil
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing edge length for portal pair")
}

func TestValidate_EdgeWithoutReciprocalPartners(t *testing.T) {
	// Four portals forming two reciprocal pairs, but an extra edge joins
	// portals that are not partners of each other.
	g := validGraph()
	g.Zones = append(g.Zones, overworld.Zone{ID: "orchard", Name: "Scrap Orchard"})
	g.Portals = append(g.Portals,
		overworld.Portal{ID: "P_MEADOW_E", ZoneID: "meadowline", ZoneName: "Meadowline", ConnectsTo: "P_ORCHARD_W", Pos: overworld.Coord{X: 3, Y: 4}},
		overworld.Portal{ID: "P_ORCHARD_W", ZoneID: "orchard", ZoneName: "Scrap Orchard", ConnectsTo: "P_MEADOW_E", Pos: overworld.Coord{X: 4, Y: 4}},
	)
	g.Edges = append(g.Edges,
		overworld.Edge{A: "P_MEADOW_E", B: "P_ORCHARD_W", Len: 2},
		overworld.Edge{A: "P_MEADOW_S", B: "P_ORCHARD_W", Len: 2},
	)
	err := overworld.Validate(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edge exists but portals do not connect_to each other")
}
