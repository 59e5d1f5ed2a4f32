package area

import (
	"fmt"
	"strings"
)

// AreaStats summarizes how much of an area file is still scaffolding.
// Portal rooms are counted by id prefix, setpiece and filler rooms by tag.
type AreaStats struct {
	ZoneID        string
	ZoneName      string
	RoomsTotal    int
	RoomsPortal   int
	RoomsSetpiece int
	RoomsFiller   int
}

// FillerPct is the share of rooms still tagged as filler or seed content.
func (s AreaStats) FillerPct() float64 {
	if s.RoomsTotal == 0 {
		return 0
	}
	return 100.0 * float64(s.RoomsFiller) / float64(s.RoomsTotal)
}

// CountRooms computes maturity stats for one area file.
func CountRooms(f *File) (AreaStats, error) {
	if f.ZoneID == "" {
		return AreaStats{}, fmt.Errorf("missing zone_id")
	}
	s := AreaStats{ZoneID: f.ZoneID, ZoneName: f.ZoneName}
	if s.ZoneName == "" {
		s.ZoneName = s.ZoneID
	}

	for _, r := range f.Rooms {
		if r.ID == "" {
			continue
		}
		s.RoomsTotal++
		if strings.HasPrefix(r.ID, "P_") {
			s.RoomsPortal++
		}
		if r.HasTagPrefix("setpiece.") {
			s.RoomsSetpiece++
		}
		if r.HasTagPrefix("filler.") || r.HasTagPrefix("seed.") {
			s.RoomsFiller++
		}
	}
	return s, nil
}

// FormatReportMD renders stats as a markdown table.
func FormatReportMD(stats []AreaStats) string {
	var b strings.Builder
	b.WriteString("| zone_id | rooms | portals | setpieces | filler | filler% |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %d | %.1f |\n",
			s.ZoneID, s.RoomsTotal, s.RoomsPortal, s.RoomsSetpiece, s.RoomsFiller, s.FillerPct())
	}
	return b.String()
}

// FormatReportTSV renders stats tab separated, one zone per line.
func FormatReportTSV(stats []AreaStats) string {
	var b strings.Builder
	b.WriteString("zone_id\trooms\tportals\tsetpieces\tfiller\tfiller_pct\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%s\t%d\t%d\t%d\t%d\t%.1f\n",
			s.ZoneID, s.RoomsTotal, s.RoomsPortal, s.RoomsSetpiece, s.RoomsFiller, s.FillerPct())
	}
	return b.String()
}
