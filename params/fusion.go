package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/catdrift/common"
)

// ErrInvalidConfig is returned for configurations that must not reach the pipeline.
var ErrInvalidConfig = errors.New("invalid configuration")

// HeadingFallback names the heading an anomalous sample falls back to.
type HeadingFallback int

const (
	// FallbackPreviousHeading uses the last accepted device heading.
	FallbackPreviousHeading HeadingFallback = iota
	// FallbackDeviceBearing uses the sample's own device bearing.
	FallbackDeviceBearing
)

func (f HeadingFallback) String() string {
	switch f {
	case FallbackPreviousHeading:
		return "previous"
	case FallbackDeviceBearing:
		return "device"
	}
	return fmt.Sprintf("HeadingFallback(%d)", int(f))
}

// ParseHeadingFallback parses "previous" or "device".
func ParseHeadingFallback(s string) (HeadingFallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "previous", "previous-heading":
		return FallbackPreviousHeading, nil
	case "device", "device-bearing":
		return FallbackDeviceBearing, nil
	}
	return 0, fmt.Errorf("%w: unknown heading fallback %q", ErrInvalidConfig, s)
}

// FusionConfig holds the calibration and smoothing constants for one pipeline run.
type FusionConfig struct {
	// WindowSize is the number of samples per drift-averaging block.
	// The window advances by this many samples at a time.
	WindowSize int

	// AnomalyThresholdDegrees is the trust limit for the window-average drift.
	// A sample whose |average drift| reaches or exceeds it is anomalous.
	AnomalyThresholdDegrees float64

	// AlignmentOffsetDegrees is a fixed mounting/alignment correction added to
	// every effective heading.
	AlignmentOffsetDegrees float64

	// CompensationFactor scales the device-measured step distance,
	// correcting systematic bias of the rate sensor (eg. doppler).
	CompensationFactor float64

	// EarthRadiusKm is the sphere radius used for distance and projection.
	EarthRadiusKm float64

	// HeadingFallback selects the heading anomalous samples project along.
	HeadingFallback HeadingFallback
}

func DefaultFusionConfig() *FusionConfig {
	return &FusionConfig{
		WindowSize:              50,
		AnomalyThresholdDegrees: 12,
		AlignmentOffsetDegrees:  0,
		CompensationFactor:      1.0,
		EarthRadiusKm:           common.EarthRadiusKm,
		HeadingFallback:         FallbackPreviousHeading,
	}
}

// Validate fails fast on configurations the pipeline cannot run with.
func (c *FusionConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window size must be > 0, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if !common.IsFinite(c.AnomalyThresholdDegrees) || c.AnomalyThresholdDegrees <= 0 {
		return fmt.Errorf("%w: anomaly threshold must be > 0, got %v", ErrInvalidConfig, c.AnomalyThresholdDegrees)
	}
	if !common.IsFinite(c.AlignmentOffsetDegrees) {
		return fmt.Errorf("%w: alignment offset must be finite, got %v", ErrInvalidConfig, c.AlignmentOffsetDegrees)
	}
	if !common.IsFinite(c.CompensationFactor) || c.CompensationFactor <= 0 {
		return fmt.Errorf("%w: compensation factor must be > 0, got %v", ErrInvalidConfig, c.CompensationFactor)
	}
	if !common.IsFinite(c.EarthRadiusKm) || c.EarthRadiusKm <= 0 {
		return fmt.Errorf("%w: earth radius must be > 0, got %v", ErrInvalidConfig, c.EarthRadiusKm)
	}
	switch c.HeadingFallback {
	case FallbackPreviousHeading, FallbackDeviceBearing:
	default:
		return fmt.Errorf("%w: unknown heading fallback %v", ErrInvalidConfig, c.HeadingFallback)
	}
	return nil
}

// EarthRadiusMeters is the configured radius in meters.
func (c *FusionConfig) EarthRadiusMeters() float64 {
	return c.EarthRadiusKm * common.MetersPerKm
}

// Hash fingerprints the config so output from different runs can be told apart.
func (c *FusionConfig) Hash() (string, error) {
	h, err := hashstructure.Hash(c, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}

// MustHash is Hash, panicking on error. A FusionConfig holds only plain values.
func (c *FusionConfig) MustHash() string {
	h, err := c.Hash()
	if err != nil {
		panic(err)
	}
	return h
}
