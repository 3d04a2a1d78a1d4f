/*
Package anomaly decides, per sample, whether the window-average drift is
trustworthy enough to correct the device heading with.
*/
package anomaly

import (
	"math"

	"github.com/rotblauer/catdrift/common"
	"github.com/rotblauer/catdrift/params"
)

// Decision is the per-sample correction policy.
type Decision int

const (
	// Confident samples apply the drift estimate.
	Confident Decision = iota
	// Anomalous samples ignore it and fall back to dead reckoning.
	Anomalous
)

func (d Decision) String() string {
	if d == Anomalous {
		return "anomalous"
	}
	return "confident"
}

// Classifier holds the fixed calibration a run classifies with.
type Classifier struct {
	ThresholdDegrees       float64
	AlignmentOffsetDegrees float64
	Fallback               params.HeadingFallback
}

func NewClassifier(config *params.FusionConfig) Classifier {
	return Classifier{
		ThresholdDegrees:       config.AnomalyThresholdDegrees,
		AlignmentOffsetDegrees: config.AlignmentOffsetDegrees,
		Fallback:               config.HeadingFallback,
	}
}

// Classify is a pure function of the drift and the threshold.
// A drift magnitude at or above the threshold is anomalous.
func (c Classifier) Classify(drift float64) Decision {
	if math.Abs(drift) < c.ThresholdDegrees {
		return Confident
	}
	return Anomalous
}

// Heading is the heading a sample is projected along, and the drift that went into it.
type Heading struct {
	Decision     Decision
	Effective    float64
	AppliedDrift float64
}

// EffectiveHeading classifies drift and builds the heading to project along.
//
// Confident: deviceBearing + drift + offset.
// Anomalous: previous + offset, or deviceBearing + offset with FallbackDeviceBearing.
// Before any previous heading exists, deviceBearing stands in for it.
func (c Classifier) EffectiveHeading(drift, deviceBearing, previous float64, hasPrevious bool) Heading {
	h := Heading{Decision: c.Classify(drift)}
	switch {
	case h.Decision == Confident:
		h.AppliedDrift = drift
		h.Effective = deviceBearing + drift + c.AlignmentOffsetDegrees
	case c.Fallback == params.FallbackPreviousHeading && hasPrevious:
		h.Effective = previous + c.AlignmentOffsetDegrees
	default:
		h.Effective = deviceBearing + c.AlignmentOffsetDegrees
	}
	h.Effective = common.NormalizeDegrees(h.Effective)
	return h
}
