package area

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stopSegments are cluster-name segments too generic to name a room family.
// The fallback chain skips them when a better token is available.
var stopSegments = map[string]bool{
	"FIELD":  true,
	"FIELDS": true,
	"LOOP":   true,
	"LOOPS":  true,
	"RUN":    true,
	"RUNS":   true,
	"WING":   true,
	"WINGS":  true,
}

var titleCaser = cases.Title(language.English)

// singular strips a trailing "S" unless the segment ends in a double S.
func singular(seg string) string {
	if strings.HasSuffix(seg, "SS") {
		return seg
	}
	if strings.HasSuffix(seg, "S") && len(seg) > 1 {
		return seg[:len(seg)-1]
	}
	return seg
}

// clusterCore strips the CL_ namespace prefix.
func clusterCore(clusterID string) string {
	return strings.TrimPrefix(clusterID, "CL_")
}

// commonClusterPrefixToken returns the first underscore-delimited segment
// shared by every cluster id in the zone, or "" when they disagree.
func commonClusterPrefixToken(clusterIDs []string) string {
	if len(clusterIDs) == 0 {
		return ""
	}
	var token string
	for i, cid := range clusterIDs {
		core := clusterCore(cid)
		first, _, _ := strings.Cut(core, "_")
		if i == 0 {
			token = first
			continue
		}
		if first != token {
			return ""
		}
	}
	return token
}

// zoneTokenFromRooms derives the zone naming token used in R_<TOKEN>_* ids:
// the dominant token among existing room ids (first-seen wins on ties), else
// the common cluster prefix, else the first segment of the slugged zone id.
func zoneTokenFromRooms(roomIDs []string, clusterPrefixToken, zoneID string) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, rid := range roomIDs {
		if !strings.HasPrefix(rid, "R_") {
			continue
		}
		parts := strings.Split(rid, "_")
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		tok := parts[1]
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = i
		}
		counts[tok]++
	}
	if best := mostCommon(counts, firstSeen); best != "" {
		return best
	}

	if clusterPrefixToken != "" {
		return clusterPrefixToken
	}

	// Fallback: slug the zone id, first segment only to keep ids short.
	var b strings.Builder
	for _, r := range strings.ToUpper(zoneID) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	for _, seg := range strings.Split(b.String(), "_") {
		if seg != "" {
			return seg
		}
	}
	return "ZONE"
}

// tokenFromExistingIDs reuses a naming token already established in a
// cluster: the dominant TOKEN among R_<ZONE>_<TOKEN>_<NN> ids. Reuse
// requires at least two rooms sharing the token so a cluster's one-off
// specific id (say a lone TRAIL_01) is never extended, and skips tokens
// ending in a digit so families like VALVE1/VALVE2 stay closed.
func tokenFromExistingIDs(zoneToken string, clusterRoomIDs []string) (string, bool) {
	prefix := "R_" + zoneToken + "_"
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, rid := range clusterRoomIDs {
		if !strings.HasPrefix(rid, prefix) {
			continue
		}
		parts := strings.Split(rid, "_")
		if len(parts) < 4 || parts[0] != "R" || parts[1] != zoneToken {
			continue
		}
		last := parts[len(parts)-1]
		if !allDigits(last) {
			continue
		}
		token := strings.Trim(strings.Join(parts[2:len(parts)-1], "_"), "_")
		if token == "" {
			continue
		}
		if token[len(token)-1] >= '0' && token[len(token)-1] <= '9' {
			continue
		}
		if _, ok := firstSeen[token]; !ok {
			firstSeen[token] = i
		}
		counts[token]++
	}

	best := mostCommon(counts, firstSeen)
	if best == "" || counts[best] < 2 {
		return "", false
	}
	return best, true
}

// tokenFromCluster derives a room-family token from a cluster's local name:
// the singularised last segment, unless stoplisted, then the first segment,
// then the whole local name.
func tokenFromCluster(clusterLocal string) string {
	var parts []string
	for _, p := range strings.Split(clusterLocal, "_") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "FILL"
	}

	last := singular(parts[len(parts)-1])
	first := singular(parts[0])

	if !stopSegments[last] {
		return last
	}
	if !stopSegments[first] {
		return first
	}
	return singular(clusterLocal)
}

// clusterLocalName strips the zone-wide prefix token from a cluster core,
// leaving the part that distinguishes it within the zone.
func clusterLocalName(clusterID, clusterPrefixToken string) string {
	core := clusterCore(clusterID)
	if clusterPrefixToken != "" && strings.HasPrefix(core, clusterPrefixToken+"_") {
		core = core[len(clusterPrefixToken)+1:]
	}
	return core
}

// clusterLabel renders a cluster local name as display prose.
func clusterLabel(clusterLocal string) string {
	return titleCaser.String(strings.ReplaceAll(clusterLocal, "_", " "))
}

// maxNumericSuffix finds the highest numeric suffix among existing ids
// sharing prefix exactly.
func maxNumericSuffix(prefix string, existing map[string]bool) int {
	mx := 0
	for rid := range existing {
		if !strings.HasPrefix(rid, prefix) {
			continue
		}
		suf := rid[len(prefix):]
		if !allDigits(suf) {
			continue
		}
		n := 0
		for _, r := range suf {
			n = n*10 + int(r-'0')
		}
		if n > mx {
			mx = n
		}
	}
	return mx
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mostCommon picks the highest-count token; ties resolve to the token seen
// earliest so the result is independent of map iteration order.
func mostCommon(counts map[string]int, firstSeen map[string]int) string {
	best := ""
	for tok, n := range counts {
		if best == "" {
			best = tok
			continue
		}
		bn := counts[best]
		if n > bn || (n == bn && firstSeen[tok] < firstSeen[best]) {
			best = tok
		}
	}
	return best
}
