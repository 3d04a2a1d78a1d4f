package observation

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Observation is one paired sample of the device (dead-reckoning) track and
// the reference (satellite) track at the same instant.
// Observations are read-only once loaded.
type Observation struct {
	Time      time.Time
	Device    orb.Point
	Reference orb.Point

	// Heading is the device heading in degrees, when supplied by the device.
	// Otherwise it is derived from consecutive device coordinates.
	Heading *float64

	// StepDistance is the device-measured distance from the previous sample
	// in meters (eg. from a doppler rate sensor).
	// Otherwise it is derived from consecutive device coordinates.
	StepDistance *float64
}

// Float64 returns a pointer to f, for the optional fields.
func Float64(f float64) *float64 {
	return &f
}

func (o Observation) String() string {
	return fmt.Sprintf("%s device=[%.7f,%.7f] reference=[%.7f,%.7f]",
		o.Time.Format(time.RFC3339Nano),
		o.Device.Lat(), o.Device.Lon(),
		o.Reference.Lat(), o.Reference.Lon())
}
