package common

// All units are in metric:
// - Distance is in meters
// - Angles are in degrees, clockwise from true north

// EarthRadiusKm is the fixed spherical earth radius the projector uses
// unless configured otherwise. It is orb.EarthRadius rounded to 100 m.
const EarthRadiusKm = 6378.1

const MetersPerKm = 1000.0

// Cardinal bearings.
const (
	BearingNorth = 0.0
	BearingEast  = 90.0
	BearingSouth = 180.0
	BearingWest  = 270.0
)
