package params

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultFusionConfigValid(t *testing.T) {
	if err := DefaultFusionConfig().Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
}

func TestFusionConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *FusionConfig)
	}{
		{"zero window", func(c *FusionConfig) { c.WindowSize = 0 }},
		{"negative window", func(c *FusionConfig) { c.WindowSize = -3 }},
		{"zero threshold", func(c *FusionConfig) { c.AnomalyThresholdDegrees = 0 }},
		{"nan offset", func(c *FusionConfig) { c.AlignmentOffsetDegrees = math.NaN() }},
		{"zero factor", func(c *FusionConfig) { c.CompensationFactor = 0 }},
		{"negative factor", func(c *FusionConfig) { c.CompensationFactor = -1 }},
		{"zero radius", func(c *FusionConfig) { c.EarthRadiusKm = 0 }},
		{"bad fallback", func(c *FusionConfig) { c.HeadingFallback = 42 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultFusionConfig()
			c.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, but got %v", err)
			}
		})
	}
	var nilConfig *FusionConfig
	if err := nilConfig.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for nil config, got %v", err)
	}
}

func TestFusionConfigHash(t *testing.T) {
	a, b := DefaultFusionConfig(), DefaultFusionConfig()
	if a.MustHash() != b.MustHash() {
		t.Error("Expected equal configs to hash equally")
	}
	b.WindowSize++
	if a.MustHash() == b.MustHash() {
		t.Error("Expected different configs to hash differently")
	}
}

func TestParseHeadingFallback(t *testing.T) {
	for in, expected := range map[string]HeadingFallback{
		"previous": FallbackPreviousHeading,
		"":         FallbackPreviousHeading,
		"Device":   FallbackDeviceBearing,
	} {
		got, err := ParseHeadingFallback(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != expected {
			t.Errorf("Expected %v, but got %v", expected, got)
		}
		if s := got.String(); s != "previous" && s != "device" {
			t.Errorf("Unexpected String(): %q", s)
		}
	}
	if _, err := ParseHeadingFallback("sideways"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, but got %v", err)
	}
}
