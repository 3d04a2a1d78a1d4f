/*
Package projector rebuilds a corrected track by dead reckoning: each step
projects the previous corrected position along an effective heading by a
compensated step distance.

A step depends only on the previous corrected position and the current
sample, so the projector can run over an unbounded sequence.
*/
package projector

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/catdrift/geo/geodesy"
)

// State is the projector's running state.
type State struct {
	Position orb.Point

	// PreviousHeading is the device bearing of the last step,
	// the fallback heading for anomalous samples.
	PreviousHeading    float64
	HasPreviousHeading bool

	Steps int
}

type Projector struct {
	sphere geodesy.Sphere
	factor float64
	state  State
}

// New seeds a projector at seed, usually the first reference coordinate.
// Step distances are multiplied by factor.
func New(sphere geodesy.Sphere, seed orb.Point, factor float64) *Projector {
	return &Projector{
		sphere: sphere,
		factor: factor,
		state:  State{Position: seed},
	}
}

// Step advances the corrected position along heading by stepDistance*factor
// and remembers deviceBearing as the previous heading.
func (p *Projector) Step(heading, deviceBearing, stepDistance float64) orb.Point {
	p.state.Position = p.sphere.Project(p.state.Position, heading, stepDistance*p.factor)
	p.state.PreviousHeading = deviceBearing
	p.state.HasPreviousHeading = true
	p.state.Steps++
	return p.state.Position
}

func (p *Projector) Position() orb.Point {
	return p.state.Position
}

func (p *Projector) State() State {
	return p.state
}

// CorrectionError is the distance from the current corrected position to reference.
// It is diagnostic and does not feed back into projection.
func (p *Projector) CorrectionError(reference orb.Point) float64 {
	return p.sphere.Distance(p.state.Position, reference)
}
