package testdata

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catdrift/geo/geodesy"
	"github.com/rotblauer/catdrift/types/observation"
)

// Origin is downtown Minneapolis.
var Origin = orb.Point{-93.2650, 44.9778}

var Start = time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC)

// Walk describes a synthetic pair of tracks starting at the same point.
// At every step the device moves along Heading(i) and the reference along
// Heading(i)+Drift(i), both by StepMeters.
type Walk struct {
	Origin     orb.Point
	Start      time.Time
	Interval   time.Duration
	Count      int
	StepMeters float64

	Heading func(i int) float64
	Drift   func(i int) float64

	// SupplyHeading sets each observation's Heading to Heading(i),
	// as a device with a compass would.
	SupplyHeading bool

	Sphere geodesy.Sphere
}

func Constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

// Straight is a walk of n observations where the reference equals the device.
// Avoid due north or south headings; their bearings come back exactly cardinal.
func Straight(n int, heading float64) Walk {
	return ConstantDrift(n, heading, 0)
}

// ConstantDrift is a walk where the reference always turns drift degrees
// from the device heading.
func ConstantDrift(n int, heading, drift float64) Walk {
	return Walk{
		Origin:     Origin,
		Start:      Start,
		Interval:   time.Second,
		Count:      n,
		StepMeters: 10,
		Heading:    Constant(heading),
		Drift:      Constant(drift),
		Sphere:     geodesy.DefaultSphere,
	}
}

func (w Walk) Observations() []observation.Observation {
	out := make([]observation.Observation, 0, w.Count)
	device, reference := w.Origin, w.Origin
	for i := 0; i < w.Count; i++ {
		if i > 0 {
			device = w.Sphere.Project(device, w.Heading(i), w.StepMeters)
			reference = w.Sphere.Project(reference, w.Heading(i)+w.Drift(i), w.StepMeters)
		}
		o := observation.Observation{
			Time:      w.Start.Add(time.Duration(i) * w.Interval),
			Device:    device,
			Reference: reference,
		}
		if w.SupplyHeading && i > 0 {
			o.Heading = observation.Float64(w.Heading(i))
		}
		out = append(out, o)
	}
	return out
}

func (w Walk) Records() []observation.Record {
	obs := w.Observations()
	out := make([]observation.Record, 0, len(obs))
	for _, o := range obs {
		out = append(out, observation.FromObservation(o))
	}
	return out
}
