package overworld

import "fmt"

// Validate checks the persisted overworld artifact for internal consistency.
// It re-derives nothing; every check is against the records as written.
//
// starterZones is the set of zone display names whose edges must all have
// len=1 (the starter-region rule). All violations are hard failures.
func Validate(g *Graph, starterZones []string) error {
	starter := make(map[string]bool, len(starterZones))
	for _, name := range starterZones {
		starter[name] = true
	}

	zoneByID := make(map[string]Zone, len(g.Zones))
	for _, z := range g.Zones {
		if z.ID == "" {
			return fmt.Errorf("zone missing id")
		}
		if _, dup := zoneByID[z.ID]; dup {
			return fmt.Errorf("duplicate zone id: %s", z.ID)
		}
		zoneByID[z.ID] = z
	}

	portalByID := make(map[string]Portal, len(g.Portals))
	for _, p := range g.Portals {
		if p.ID == "" {
			return fmt.Errorf("portal missing id")
		}
		if _, dup := portalByID[p.ID]; dup {
			return fmt.Errorf("duplicate portal id: %s", p.ID)
		}
		if _, ok := zoneByID[p.ZoneID]; !ok {
			return fmt.Errorf("portal %s references unknown zone_id: %q", p.ID, p.ZoneID)
		}
		portalByID[p.ID] = p
	}

	edgeKeys := make(map[EdgeKey]bool, len(g.Edges))
	for _, e := range g.Edges {
		pa, okA := portalByID[e.A]
		pb, okB := portalByID[e.B]
		if !okA || !okB {
			return fmt.Errorf("edge references unknown portal(s): %q %q", e.A, e.B)
		}
		if e.Len <= 0 {
			return fmt.Errorf("edge %s <-> %s has invalid len: %d", e.A, e.B, e.Len)
		}
		key := NewEdgeKey(e.A, e.B)
		if edgeKeys[key] {
			return fmt.Errorf("duplicate edge (undirected): %s <-> %s", e.A, e.B)
		}
		edgeKeys[key] = true

		if (starter[pa.ZoneName] || starter[pb.ZoneName]) && e.Len != 1 {
			return fmt.Errorf("starter-region edge must be len=1: %s (%s) <-> %s (%s) is len=%d",
				e.A, pa.ZoneName, e.B, pb.ZoneName, e.Len)
		}
	}

	// Portals must have reciprocal connects_to and a matching edge length.
	for _, p := range g.Portals {
		other, ok := portalByID[p.ConnectsTo]
		if !ok {
			return fmt.Errorf("portal %s connects_to unknown portal: %q", p.ID, p.ConnectsTo)
		}
		if other.ConnectsTo != p.ID {
			return fmt.Errorf("portal %s connects_to %s but not reciprocal", p.ID, p.ConnectsTo)
		}
		if !edgeKeys[NewEdgeKey(p.ID, p.ConnectsTo)] {
			return fmt.Errorf("missing edge length for portal pair: %s <-> %s", p.ID, p.ConnectsTo)
		}
	}

	// Edge lengths may only exist for actual portal pairs.
	for key := range edgeKeys {
		a, b := key[0], key[1]
		if portalByID[a].ConnectsTo != b || portalByID[b].ConnectsTo != a {
			return fmt.Errorf("edge exists but portals do not connect_to each other: %s <-> %s", a, b)
		}
	}

	return nil
}
