/*
Package drift estimates the systematic bearing offset between a device track
and a reference track, averaged over fixed blocks of samples.

The window is not sliding. It advances a whole block (Size samples) at a time,
and the average of a block is applied to that same block's samples: the
estimate looks ahead within its own block, and holds for every sample in it.
*/
package drift

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/types/sample"
)

// WindowState is the current block, half-open [Start, End).
type WindowState struct {
	Start, End int

	// Average is the mean bearing delta over the block, or the carried-forward
	// average of an earlier block if this one had no usable samples.
	Average float64

	// Valid is set once any block has produced an average from data.
	Valid bool
}

// Estimator owns the window state for one series.
type Estimator struct {
	size  int
	state WindowState

	// EmptyWindows counts blocks that had no usable samples.
	EmptyWindows int
}

// New returns an estimator advancing size samples at a time.
func New(size int) (*Estimator, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: window size must be > 0, got %d", params.ErrInvalidConfig, size)
	}
	return &Estimator{size: size}, nil
}

func (e *Estimator) Size() int {
	return e.size
}

func (e *Estimator) State() WindowState {
	return e.state
}

// Advance moves the window to the next block, clamped to the series length,
// and recomputes the average. It returns false, leaving the state untouched,
// when the series is exhausted.
func (e *Estimator) Advance(samples []sample.Derived) bool {
	if e.state.End >= len(samples) {
		return false
	}
	e.state.Start = e.state.End
	e.state.End = min(e.state.Start+e.size, len(samples))
	if _, ok := e.Recompute(samples); !ok {
		e.EmptyWindows++
	}
	return true
}

// Recompute sets and returns the average over the current window.
// Samples without a predecessor are skipped. A window left with nothing
// carries the previous average forward and reports ok=false.
// Recomputing an unchanged window yields the same value.
func (e *Estimator) Recompute(samples []sample.Derived) (average float64, ok bool) {
	values := make(stats.Float64Data, 0, e.state.End-e.state.Start)
	for _, s := range samples[e.state.Start:e.state.End] {
		if s.HasPredecessor {
			values = append(values, s.BearingDelta)
		}
	}
	mean, err := values.Mean()
	if err != nil {
		// stats.EmptyInputErr
		return e.state.Average, false
	}
	e.state.Average = mean
	e.state.Valid = true
	return mean, true
}

// AverageFor returns the average of the block containing sample i,
// advancing the window as needed. Samples must be visited in order.
func (e *Estimator) AverageFor(samples []sample.Derived, i int) float64 {
	for i >= e.state.End && e.Advance(samples) {
	}
	return e.state.Average
}
