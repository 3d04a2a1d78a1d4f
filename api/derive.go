package api

import (
	"github.com/rotblauer/catdrift/common"
	"github.com/rotblauer/catdrift/geo/geodesy"
	"github.com/rotblauer/catdrift/types/observation"
	"github.com/rotblauer/catdrift/types/sample"
)

// Derive computes the per-pair geometry of a series, index-aligned with obs.
// Supplied device headings and step distances take precedence over those
// derived from consecutive device coordinates. Supplied headings are
// normalized to [0, 360) and stand in for the last device bearing.
// Degenerate bearings are substituted, never returned as errors.
func Derive(sphere geodesy.Sphere, obs []observation.Observation) []sample.Derived {
	out := make([]sample.Derived, len(obs))
	device, reference := &geodesy.BearingTracker{}, &geodesy.BearingTracker{}

	for i, o := range obs {
		d := sample.Derived{
			Index:         i,
			Time:          o.Time,
			DriftDistance: sphere.Distance(o.Device, o.Reference),
		}
		if i == 0 {
			out[i] = d
			continue
		}
		prev := obs[i-1]
		d.HasPredecessor = true

		var deviceDegenerate, referenceDegenerate bool
		if o.Heading != nil {
			d.DeviceBearing = common.NormalizeDegrees(*o.Heading)
			device.Observe(d.DeviceBearing)
		} else {
			d.DeviceBearing, deviceDegenerate = device.Next(prev.Device, o.Device)
		}
		d.ReferenceBearing, referenceDegenerate = reference.Next(prev.Reference, o.Reference)
		d.DegenerateBearing = deviceDegenerate || referenceDegenerate
		d.BearingDelta = d.ReferenceBearing - d.DeviceBearing

		if o.StepDistance != nil {
			d.DeviceStepDistance = *o.StepDistance
		} else {
			d.DeviceStepDistance = sphere.Distance(prev.Device, o.Device)
		}
		d.ReferenceStepDistance = sphere.Distance(prev.Reference, o.Reference)

		out[i] = d
	}
	return out
}
