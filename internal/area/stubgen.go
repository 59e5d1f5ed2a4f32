package area

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/stygianmud/worldsmith/internal/overworld"
	"github.com/stygianmud/worldsmith/internal/shape"
)

var anchorSlugRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// synthAnchorID builds a fallback anchor room id from the zone id when the
// zone shape declares no key rooms.
func synthAnchorID(zoneID string) string {
	s := strings.Trim(anchorSlugRe.ReplaceAllString(zoneID, "_"), "_")
	return "R_" + strings.ToUpper(s) + "_ANCHOR_01"
}

// pickAnchorKeyRoom prefers a HUB_* tagged key room, else the first one.
func pickAnchorKeyRoom(keyRooms []shape.KeyRoom) *shape.KeyRoom {
	for i := range keyRooms {
		for _, t := range keyRooms[i].Tags {
			if strings.HasPrefix(t, "HUB_") {
				return &keyRooms[i]
			}
		}
	}
	if len(keyRooms) > 0 {
		return &keyRooms[0]
	}
	return nil
}

// BuildStub assembles a minimal area file for one zone: a room per overworld
// portal, one anchor room, the shape's key rooms, and exits making everything
// reachable from start_room. The result is meant to be edited by hand.
//
// Precondition: g and sh describe the same zone and have been validated.
// Postcondition: every room is reachable from the returned file's StartRoom.
func BuildStub(g *overworld.Graph, sh *shape.File, zoneID string) (*File, error) {
	zone, ok := g.ZoneByID()[zoneID]
	if !ok {
		return nil, fmt.Errorf("unknown zone_id: %s", zoneID)
	}

	clusterIDs := sh.ClusterIDs()
	if len(clusterIDs) == 0 {
		return nil, fmt.Errorf("no clusters in zone shape for %s", zoneID)
	}

	var anchorID, anchorCluster string
	var anchorTags []string
	if kr := pickAnchorKeyRoom(sh.KeyRooms); kr != nil {
		anchorID = kr.ID
		anchorCluster = kr.Cluster
		if anchorCluster == "" {
			anchorCluster = clusterIDs[0]
		}
		anchorTags = kr.Tags
	} else {
		anchorID = synthAnchorID(zoneID)
		anchorCluster = clusterIDs[0]
	}

	myPortals := g.ZonePortals(zoneID)
	if len(myPortals) == 0 {
		return nil, fmt.Errorf("zone has no portals in overworld: %s", zoneID)
	}
	startRoom := myPortals[0].ID

	edgeLens := g.EdgeLengths()
	portalByID := g.PortalByID()

	sorted := make([]overworld.Portal, len(myPortals))
	copy(sorted, myPortals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	f := &File{
		Version:   1,
		ZoneID:    zoneID,
		ZoneName:  zone.Name,
		AreaID:    sh.AreaID,
		LevelBand: sh.LevelBand,
		StartRoom: startRoom,
	}
	if f.AreaID == "" {
		f.AreaID = "A01"
	}

	seen := make(map[string]bool)
	for _, p := range sorted {
		other, ok := portalByID[p.ConnectsTo]
		if !ok {
			return nil, fmt.Errorf("portal %s invalid connects_to: %q", p.ID, p.ConnectsTo)
		}
		ln, ok := edgeLens[overworld.NewEdgeKey(p.ID, other.ID)]
		if !ok {
			return nil, fmt.Errorf("missing edge len for portal pair %s <-> %s", p.ID, other.ID)
		}
		otherZone := other.ZoneName
		if otherZone == "" {
			otherZone = "Unknown Zone"
		}
		cluster := p.ClusterHint
		if cluster == "" {
			cluster = clusterIDs[0]
		}
		f.Rooms = append(f.Rooms, &Room{
			ID:      p.ID,
			Name:    otherZone + " Transfer",
			Cluster: cluster,
			Tags:    []string{"portal." + p.ID},
			Desc:    "Portal stub to " + otherZone + ".",
			Exits: []Exit{
				{Dir: "out", To: other.ID, Len: ln},
				{Dir: "in", To: anchorID, Len: 1},
			},
		})
		seen[p.ID] = true
	}

	if !seen[anchorID] {
		f.Rooms = append(f.Rooms, &Room{
			ID:      anchorID,
			Name:    zone.Name + " Anchor",
			Cluster: anchorCluster,
			Tags:    anchorTags,
			Desc:    "Anchor room for " + zone.Name + ". TODO: flesh out room graph.",
		})
	}
	seen[anchorID] = true

	for _, kr := range sh.KeyRooms {
		if kr.ID == anchorID || seen[kr.ID] {
			continue
		}
		cluster := kr.Cluster
		if cluster == "" {
			cluster = clusterIDs[0]
		}
		f.Rooms = append(f.Rooms, &Room{
			ID:      kr.ID,
			Name:    kr.ID,
			Cluster: cluster,
			Tags:    kr.Tags,
			Desc:    "Key room stub: " + kr.ID + ". TODO: write original prose.",
			Exits:   []Exit{{Dir: "hub", To: anchorID, Len: 1}},
		})
		seen[kr.ID] = true
	}

	// The anchor reaches every other room directly so nothing is stranded.
	anchor := f.RoomByID()[anchorID]
	for _, r := range f.Rooms {
		if r.ID == anchorID {
			continue
		}
		anchor.Exits = append(anchor.Exits, Exit{Dir: "to_" + r.ID, To: r.ID, Len: 1})
	}

	return f, nil
}
