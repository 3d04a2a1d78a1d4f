package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rotblauer/catdrift/geo/anomaly"
	"github.com/rotblauer/catdrift/geo/drift"
	"github.com/rotblauer/catdrift/geo/projector"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/s2"
	"github.com/rotblauer/catdrift/types/observation"
	"github.com/rotblauer/catdrift/types/sample"
)

// ctxCheckInterval is how many samples go by between context checks.
const ctxCheckInterval = 1024

// Result is the fused output of one series.
type Result struct {
	Series     string
	ConfigHash string

	// Samples are one-to-one and in order with the input observations.
	Samples []sample.Corrected

	// Anomalies are the raw reference coordinates of samples whose drift
	// estimate was rejected. The samples themselves stay in Samples, flagged.
	Anomalies []sample.Anomaly

	Report QualityReport
}

// FuseRecords decodes records and fuses them.
// A malformed record fails the series with an *observation.MalformedInputError.
func (f *Fuser) FuseRecords(ctx context.Context, series string, records []observation.Record) (*Result, error) {
	// DecodeAll validates the series.
	obs, err := observation.DecodeAll(series, records)
	if err != nil {
		return nil, err
	}
	return f.fuse(ctx, series, obs)
}

// Fuse corrects one series in a single forward pass.
//
// The corrected track is seeded at the first reference coordinate. Each later
// sample takes the window-average drift of its block; if the classifier trusts
// it, the corrected position advances along device bearing + drift + offset,
// otherwise along the fallback heading, and the sample is flagged and its
// reference coordinate recorded as an anomaly. Step distances are the device's,
// scaled by the compensation factor.
func (f *Fuser) Fuse(ctx context.Context, series string, obs []observation.Observation) (*Result, error) {
	if err := observation.ValidateSeries(series, obs); err != nil {
		return nil, err
	}
	return f.fuse(ctx, series, obs)
}

// fuse runs the pass over a validated, non-empty series.
func (f *Fuser) fuse(ctx context.Context, series string, obs []observation.Observation) (*Result, error) {
	started := time.Now()

	derived := Derive(f.sphere, obs)

	est, err := drift.New(f.Config.WindowSize)
	if err != nil {
		return nil, err
	}
	proj := projector.New(f.sphere, obs[0].Reference, f.Config.CompensationFactor)

	res := &Result{
		Series:     series,
		ConfigHash: f.ConfigHash,
		Samples:    make([]sample.Corrected, len(obs)),
	}

	for i, d := range derived {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("series=%s record=%d: %w", series, i, err)
			}
		}

		average := est.AverageFor(derived, i)
		c := sample.Corrected{
			Derived:       d,
			Device:        obs[i].Device,
			Reference:     obs[i].Reference,
			WindowAverage: average,
		}

		// The first sample has nothing to project from. It is the seed.
		if i > 0 {
			st := proj.State()
			h := f.classifier.EffectiveHeading(average, d.DeviceBearing, st.PreviousHeading, st.HasPreviousHeading)
			proj.Step(h.Effective, d.DeviceBearing, d.DeviceStepDistance)

			c.EffectiveHeading = h.Effective
			c.AppliedDrift = h.AppliedDrift
			c.IsAnomalous = h.Decision == anomaly.Anomalous
		}
		c.Corrected = proj.Position()
		c.CorrectionError = proj.CorrectionError(obs[i].Reference)

		if c.IsAnomalous {
			res.Anomalies = append(res.Anomalies, sample.Anomaly{
				Index:         i,
				Time:          d.Time,
				Reference:     obs[i].Reference,
				WindowAverage: average,
				CellToken:     s2.CellToken(obs[i].Reference, params.AnomalyCellLevel),
			})
		}
		res.Samples[i] = c
	}

	res.Report = newQualityReport(f.sphere, res, est.EmptyWindows)
	res.Report.Elapsed = time.Since(started)

	f.logger.Debug("Fused series", "series", series,
		"samples", len(res.Samples), "anomalies", len(res.Anomalies),
		"elapsed", res.Report.Elapsed.Round(time.Microsecond))
	return res, nil
}
