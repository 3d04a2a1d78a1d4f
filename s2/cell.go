package s2

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// CellIDWithLevel returns the ancestor of cellID at level.
func CellIDWithLevel(cellID s2.CellID, level CellLevel) s2.CellID {
	return cellID.Parent(int(level))
}

// CellIDForPoint returns the cell containing pt at level.
func CellIDForPoint(pt orb.Point, level CellLevel) s2.CellID {
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(pt.Lat(), pt.Lon()))
	return CellIDWithLevel(leaf, level)
}

// CellToken is the compact token of the cell containing pt at level,
// usable as a grouping key for nearby points.
func CellToken(pt orb.Point, level CellLevel) string {
	return CellIDForPoint(pt, level).ToToken()
}

// CellPolygon is the outline of the cell containing pt at level.
func CellPolygon(pt orb.Point, level CellLevel) orb.Polygon {
	cell := s2.CellFromCellID(CellIDForPoint(pt, level))

	vertices := make(orb.Ring, 0, 5)
	for i := 0; i < 4; i++ {
		ll := s2.LatLngFromPoint(cell.Vertex(i))
		vertices = append(vertices, orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()})
	}
	// Close the ring.
	vertices = append(vertices, vertices[0])
	return orb.Polygon{vertices}
}
