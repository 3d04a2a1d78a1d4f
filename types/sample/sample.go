package sample

import (
	"time"

	"github.com/paulmach/orb"
)

// Derived holds the per-pair geometry of one observation against its predecessor.
// It is index-aligned with the observations; index 0 has no predecessor and
// carries zero bearings and step distances.
type Derived struct {
	Index          int
	Time           time.Time
	HasPredecessor bool

	// DeviceBearing and ReferenceBearing are compass bearings [0, 360) from the
	// previous coordinate to this one, per track. DeviceBearing is the supplied
	// device heading when the device reported one.
	DeviceBearing    float64
	ReferenceBearing float64

	// BearingDelta is ReferenceBearing - DeviceBearing, signed and unwrapped.
	BearingDelta float64

	// DriftDistance is the distance between the device and reference coordinates.
	DriftDistance float64

	DeviceStepDistance    float64
	ReferenceStepDistance float64

	// DegenerateBearing is set when either bearing was substituted by the
	// previous valid one.
	DegenerateBearing bool
}

// Corrected is one output sample: the derived geometry plus the fused correction.
type Corrected struct {
	Derived

	Device    orb.Point
	Reference orb.Point
	Corrected orb.Point

	// EffectiveHeading is the heading the corrected position was projected along.
	EffectiveHeading float64

	// AppliedDrift is the drift correction that went into EffectiveHeading;
	// zero for anomalous samples.
	AppliedDrift float64

	// WindowAverage is the estimator's average for this sample's block,
	// whether or not it was applied.
	WindowAverage float64

	IsAnomalous bool

	// CorrectionError is the distance from the corrected to the reference position.
	// It is diagnostic only.
	CorrectionError float64
}

// Anomaly records the raw reference coordinate of a sample whose drift
// estimate was rejected, for downstream inspection.
type Anomaly struct {
	Index         int
	Time          time.Time
	Reference     orb.Point
	WindowAverage float64

	// CellToken is the S2 cell token of Reference, for grouping anomalies by place.
	CellToken string
}
