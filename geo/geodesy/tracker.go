package geodesy

import "github.com/paulmach/orb"

// BearingTracker yields bearings along a track, substituting the last valid
// bearing where the geometry is degenerate.
//
// Degenerate means coincident points (bearing undefined), and also a bearing
// landing exactly on 0, 90, 180 or 270 degrees. The cardinal case rejects
// legitimate due-north/east/south/west steps too; it reproduces how logged
// sessions were historically corrected and should be treated as approximate.
// A correct bearing primitive does not need it.
type BearingTracker struct {
	last float64

	// Degenerate counts substitutions.
	Degenerate int
}

// Next returns the bearing from one point to the next and whether it was substituted.
// Before any valid bearing has been seen the substitute is 0.
func (bt *BearingTracker) Next(from, to orb.Point) (bearing float64, degenerate bool) {
	if from.Equal(to) {
		bt.Degenerate++
		return bt.last, true
	}
	b := Bearing(from, to)
	if IsCardinal(b) {
		bt.Degenerate++
		return bt.last, true
	}
	bt.last = b
	return b, false
}

// Observe records a bearing known from elsewhere, such as a supplied heading,
// as the last valid bearing.
func (bt *BearingTracker) Observe(bearing float64) {
	bt.last = bearing
}

// Last returns the last valid bearing.
func (bt *BearingTracker) Last() float64 {
	return bt.last
}
