package area

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stygianmud/worldsmith/internal/shape"
)

// pickAnchorRoom finds the room new filler should chain off: a key room
// declared for the cluster, else a portal room in it, else its first room.
func pickAnchorRoom(cid string, roomByID map[string]*Room, roomsByCluster map[string][]string, sh *shape.File) string {
	for _, kr := range sh.KeyRooms {
		if kr.Cluster != cid {
			continue
		}
		if _, ok := roomByID[kr.ID]; ok {
			return kr.ID
		}
	}
	for _, rid := range roomsByCluster[cid] {
		if strings.HasPrefix(rid, "P_") {
			return rid
		}
	}
	if ids := roomsByCluster[cid]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// pickZoneHub finds the room that seeds empty clusters: a HUB_* tagged key
// room, else start_room, else the first room in the file.
func pickZoneHub(f *File, roomByID map[string]*Room, sh *shape.File) string {
	for _, kr := range sh.KeyRooms {
		if _, ok := roomByID[kr.ID]; !ok {
			continue
		}
		for _, t := range kr.Tags {
			if strings.HasPrefix(t, "HUB_") {
				return kr.ID
			}
		}
	}
	if f.StartRoom != "" {
		if _, ok := roomByID[f.StartRoom]; ok {
			return f.StartRoom
		}
	}
	if len(f.Rooms) > 0 {
		return f.Rooms[0].ID
	}
	return ""
}

func fillerID(prefix string, n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return prefix + s
}

// FillBudget appends deterministic filler rooms to f until every budgeted
// cluster in sh meets its room count. Each under-budget cluster gets a chain
// of loop rooms anchored at both ends to an existing room, so everything new
// stays reachable from start_room. Empty clusters are first seeded from a
// zone hub. Returns the number of rooms added.
//
// The generated rooms are placeholders. Expect to refine by hand.
func FillBudget(f *File, sh *shape.File) (int, error) {
	if len(f.Rooms) == 0 {
		return 0, fmt.Errorf("%s: missing rooms list", f.ZoneID)
	}

	clusterIDs := sh.ClusterIDs()
	if len(clusterIDs) == 0 {
		return 0, fmt.Errorf("no clusters in zone shape for %s", f.ZoneID)
	}
	budgets := sh.ClusterBudgets()
	prefixToken := commonClusterPrefixToken(clusterIDs)

	roomByID := f.RoomByID()
	roomsByCluster := f.RoomsByCluster()
	existing := make(map[string]bool, len(roomByID))
	orderedIDs := make([]string, 0, len(f.Rooms))
	for _, r := range f.Rooms {
		existing[r.ID] = true
		orderedIDs = append(orderedIDs, r.ID)
	}

	zoneToken := zoneTokenFromRooms(orderedIDs, prefixToken, f.ZoneID)
	zoneHubID := pickZoneHub(f, roomByID, sh)

	budgeted := make([]string, 0, len(budgets))
	for cid := range budgets {
		budgeted = append(budgeted, cid)
	}
	sort.Strings(budgeted)

	added := 0
	for _, cid := range budgeted {
		need := budgets[cid] - len(roomsByCluster[cid])
		if need <= 0 {
			continue
		}

		anchorID := pickAnchorRoom(cid, roomByID, roomsByCluster, sh)
		clusterLocal := clusterLocalName(cid, prefixToken)

		token, ok := tokenFromExistingIDs(zoneToken, roomsByCluster[cid])
		if !ok {
			token = tokenFromCluster(clusterLocal)
		}

		prefix := "R_" + zoneToken + "_" + token + "_"
		mx := maxNumericSuffix(prefix, existing)
		grow := need
		if grow < 1 {
			grow = 1
		}
		width := len(strconv.Itoa(mx + grow))
		if width < 2 {
			width = 2
		}
		label := clusterLabel(clusterLocal)

		if anchorID == "" {
			hub, ok := roomByID[zoneHubID]
			if !ok {
				return added, fmt.Errorf("%s: cannot pick zone hub to seed empty cluster %s", f.ZoneID, cid)
			}

			seedNum := mx + 1
			seedID := fillerID(prefix, seedNum, width)
			for existing[seedID] {
				seedNum++
				seedID = fillerID(prefix, seedNum, width)
			}

			hub.EnsureExit(Exit{Dir: "to_" + strings.ToLower(token), To: seedID, Len: 1})
			seed := &Room{
				ID:      seedID,
				Name:    label + " Seed",
				Cluster: cid,
				Tags:    []string{"seed." + cid},
				Desc:    "Seed room for " + cid + ". TODO: replace with themed content.",
				Exits:   []Exit{{Dir: "back", To: zoneHubID, Len: 1}},
			}
			f.Rooms = append(f.Rooms, seed)
			roomByID[seedID] = seed
			roomsByCluster[cid] = append(roomsByCluster[cid], seedID)
			existing[seedID] = true

			added++
			anchorID = seedID
			need--
			if need <= 0 {
				continue
			}
		}

		fillerIDs := make([]string, 0, need)
		next := mx + 1
		for len(fillerIDs) < need {
			rid := fillerID(prefix, next, width)
			next++
			if existing[rid] {
				continue
			}
			fillerIDs = append(fillerIDs, rid)
			existing[rid] = true
		}

		anchor := roomByID[anchorID]
		anchor.EnsureExit(Exit{Dir: "wander_" + strings.ToLower(token), To: fillerIDs[0], Len: 1})

		for i, rid := range fillerIDs {
			backTo := anchorID
			if i > 0 {
				backTo = fillerIDs[i-1]
			}
			aheadTo := anchorID
			if i < len(fillerIDs)-1 {
				aheadTo = fillerIDs[i+1]
			}
			room := &Room{
				ID:      rid,
				Name:    label + " Loop",
				Cluster: cid,
				Tags:    []string{"filler." + cid},
				Desc:    "Filler room for " + cid + ". TODO: replace with themed content.",
				Exits: []Exit{
					{Dir: "back", To: backTo, Len: 1},
					{Dir: "ahead", To: aheadTo, Len: 1},
				},
			}
			f.Rooms = append(f.Rooms, room)
			roomByID[rid] = room
			roomsByCluster[cid] = append(roomsByCluster[cid], rid)
		}

		added += need
	}

	return added, nil
}
