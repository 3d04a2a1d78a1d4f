/*
Package geodesy holds the spherical-earth primitives the drift engine is built on:
bearing, great-circle distance, and destination-point projection.

Points are orb.Points, [lon, lat] in degrees. Bearings are compass degrees,
clockwise from true north, in [0, 360).
*/
package geodesy

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/catdrift/common"
)

// Bearing returns the initial great-circle bearing from one point to another,
// normalized into [0, 360).
// The bearing between coincident points is undefined; see BearingTracker.
func Bearing(from, to orb.Point) float64 {
	return common.NormalizeDegrees(geo.Bearing(from, to))
}

// IsCardinal reports whether a bearing sits exactly on north, east, south or west.
func IsCardinal(bearing float64) bool {
	switch bearing {
	case common.BearingNorth, common.BearingEast, common.BearingSouth, common.BearingWest:
		return true
	}
	return false
}

// Sphere is a spherical earth of fixed radius.
// orb/geo works on orb.EarthRadius; distances are rescaled onto the sphere's radius,
// which is exact since both haversine distance and the direct formula's
// angular distance are linear in the radius.
type Sphere struct {
	// RadiusMeters is the sphere radius.
	RadiusMeters float64
}

// DefaultSphere uses common.EarthRadiusKm.
var DefaultSphere = NewSphere(common.EarthRadiusKm)

func NewSphere(radiusKm float64) Sphere {
	return Sphere{RadiusMeters: radiusKm * common.MetersPerKm}
}

func (s Sphere) scale() float64 {
	return s.RadiusMeters / orb.EarthRadius
}

// Distance is the haversine great-circle distance in meters.
func (s Sphere) Distance(a, b orb.Point) float64 {
	if a.Equal(b) {
		return 0
	}
	return geo.DistanceHaversine(a, b) * s.scale()
}

// Project returns the point reached travelling distance meters from origin
// along the initial heading (degrees). A zero distance returns origin unchanged.
func (s Sphere) Project(origin orb.Point, heading, distance float64) orb.Point {
	if distance == 0 {
		return origin
	}
	return geo.PointAtBearingAndDistance(origin, heading, distance/s.scale())
}
