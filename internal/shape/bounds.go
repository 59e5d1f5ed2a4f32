package shape

import "github.com/stygianmud/worldsmith/internal/overworld"

// ComputeBounds derives a zone's planning rectangle from its portal
// coordinates: the bounding box padded by margin on every side, with any
// degenerate (zero-width or zero-height) axis expanded by one unit in each
// direction so the rectangle always has area.
//
// Precondition: portals must be non-empty; generators enforce this before
// calling.
func ComputeBounds(portals []overworld.Portal, margin int) Bounds {
	minX, maxX := portals[0].Pos.X, portals[0].Pos.X
	minY, maxY := portals[0].Pos.Y, portals[0].Pos.Y
	for _, p := range portals[1:] {
		if p.Pos.X < minX {
			minX = p.Pos.X
		}
		if p.Pos.X > maxX {
			maxX = p.Pos.X
		}
		if p.Pos.Y < minY {
			minY = p.Pos.Y
		}
		if p.Pos.Y > maxY {
			maxY = p.Pos.Y
		}
	}

	minX -= margin
	maxX += margin
	minY -= margin
	maxY += margin
	if minX == maxX {
		minX--
		maxX++
	}
	if minY == maxY {
		minY--
		maxY++
	}

	return Bounds{
		Min: overworld.Coord{X: minX, Y: minY},
		Max: overworld.Coord{X: maxX, Y: maxY},
	}
}
