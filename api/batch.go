package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/stream"
	"github.com/rotblauer/catdrift/types/observation"
)

type BatchOptions struct {
	// Workers is the number of series fused concurrently.
	Workers int

	// SeriesTimeout bounds each series. Zero means no bound.
	SeriesTimeout time.Duration
}

func DefaultBatchOptions() *BatchOptions {
	return &BatchOptions{
		Workers:       params.DefaultWorkers,
		SeriesTimeout: params.SeriesTimeout,
	}
}

// SeriesResult is the outcome of one series: a Result or an error, never both.
type SeriesResult struct {
	ID     string
	Result *Result
	Err    error
}

// Batch holds the results of a FuseBatch run, index-aligned with its input.
type Batch struct {
	RunID   string
	Results []SeriesResult
	Elapsed time.Duration
}

// Failed returns the results that errored, in input order.
func (b *Batch) Failed() []SeriesResult {
	ctx := context.Background()
	return stream.Collect(ctx, stream.Filter(ctx, func(r SeriesResult) bool {
		return r.Err != nil
	}, stream.Slice(ctx, b.Results)))
}

// Err joins the errors of every failed series, or is nil.
func (b *Batch) Err() error {
	var errs []error
	for _, r := range b.Failed() {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}

// FuseBatch fuses each series independently: sequentially within a series,
// concurrently across series on a fixed pool of workers. A series that fails,
// panics, or exceeds its timeout yields an error in its own SeriesResult and
// does not affect the others.
func (f *Fuser) FuseBatch(ctx context.Context, series []observation.Series, opts *BatchOptions) *Batch {
	if opts == nil {
		opts = DefaultBatchOptions()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	b := &Batch{
		RunID:   uuid.NewString(),
		Results: make([]SeriesResult, len(series)),
	}
	logger := f.logger.With("run", b.RunID)
	started := time.Now()

	met := stream.NewTickMeter("Fused samples", "samples", "anomalies", params.MeterInterval)

	logger.Info("Fusing batch", "series", len(series), "workers", workers)

	indices := make([]int, len(series))
	for i := range indices {
		indices[i] = i
	}
	// Workers must drain every index, even when ctx is done,
	// so that every result slot gets filled.
	work := stream.Slice(context.Background(), indices)

	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				s := series[i]
				res, err := f.fuseIsolated(ctx, s, opts.SeriesTimeout)
				if err != nil {
					logger.Warn("Series failed", "series", s.ID, "error", err)
				} else {
					met.Mark(s.ID, int64(len(res.Samples)), int64(len(res.Anomalies)))
				}
				// Each worker owns the slot it writes.
				b.Results[i] = SeriesResult{ID: s.ID, Result: res, Err: err}
			}
		}()
	}
	wg.Wait()
	met.Stop()

	b.Elapsed = time.Since(started)
	logger.Info("Fused batch",
		"series", len(series),
		"failed", len(b.Failed()),
		"samples", humanize.Comma(met.Count()),
		"anomalies", humanize.Comma(met.Extra()),
		"elapsed", b.Elapsed.Round(time.Millisecond))
	return b
}

func (f *Fuser) fuseIsolated(ctx context.Context, s observation.Series, timeout time.Duration) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Series panicked", "series", s.ID, "panic", r, "stack", string(debug.Stack()))
			res, err = nil, fmt.Errorf("series=%s: panic: %v", s.ID, r)
		}
	}()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return f.FuseRecords(ctx, s.ID, s.Records)
}
