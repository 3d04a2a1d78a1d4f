package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rotblauer/catdrift/geo/anomaly"
	"github.com/rotblauer/catdrift/geo/geodesy"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/types/observation"
)

// Fuser runs the drift fusion pipeline with one fixed configuration.
// A Fuser holds no per-series state and is safe for concurrent use;
// every call to Fuse builds its own window and projection state.
type Fuser struct {
	Config     params.FusionConfig
	ConfigHash string

	sphere     geodesy.Sphere
	classifier anomaly.Classifier
	logger     *slog.Logger
}

// NewFuser validates config and returns a Fuser for it.
// An invalid config fails here, before any series is processed.
func NewFuser(config *params.FusionConfig) (*Fuser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	hash, err := config.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}
	return &Fuser{
		Config:     *config,
		ConfigHash: hash,
		sphere:     geodesy.NewSphere(config.EarthRadiusKm),
		classifier: anomaly.NewClassifier(config),
		logger:     slog.With("config", hash),
	}, nil
}

// Sphere is the earth model the Fuser measures and projects on.
func (f *Fuser) Sphere() geodesy.Sphere {
	return f.sphere
}

// Fuse validates config and fuses one series with it.
func Fuse(ctx context.Context, config *params.FusionConfig, series string, obs []observation.Observation) (*Result, error) {
	f, err := NewFuser(config)
	if err != nil {
		return nil, err
	}
	return f.Fuse(ctx, series, obs)
}

// FuseRecords validates config, decodes records, and fuses them.
func FuseRecords(ctx context.Context, config *params.FusionConfig, series string, records []observation.Record) (*Result, error) {
	f, err := NewFuser(config)
	if err != nil {
		return nil, err
	}
	return f.FuseRecords(ctx, series, records)
}

// FuseBatch validates config once, then fuses every series with it.
// An invalid config fails the whole batch before any series is touched.
func FuseBatch(ctx context.Context, config *params.FusionConfig, series []observation.Series, opts *BatchOptions) (*Batch, error) {
	f, err := NewFuser(config)
	if err != nil {
		return nil, err
	}
	return f.FuseBatch(ctx, series, opts), nil
}
