package influxdb

import (
	"errors"
	"strconv"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/types/sample"
)

var ErrNotConfigured = errors.New("influxdb export not configured")

// CorrectedPoint renders one corrected sample as a line protocol point.
// Series and config hash are tags, so runs with different configs sit side by side.
func CorrectedPoint(measurement, series, configHash string, s sample.Corrected) *write.Point {
	p := influxdb2.NewPointWithMeasurement(measurement).
		SetTime(s.Time).
		AddTag("series", series).
		AddTag("config", configHash).
		AddTag("anomalous", strconv.FormatBool(s.IsAnomalous)).
		AddField("index", s.Index).
		AddField("device_latitude", s.Device.Lat()).
		AddField("device_longitude", s.Device.Lon()).
		AddField("reference_latitude", s.Reference.Lat()).
		AddField("reference_longitude", s.Reference.Lon()).
		AddField("corrected_latitude", s.Corrected.Lat()).
		AddField("corrected_longitude", s.Corrected.Lon()).
		AddField("drift_distance", s.DriftDistance).
		AddField("window_average", s.WindowAverage).
		AddField("correction_error", s.CorrectionError)

	if s.HasPredecessor {
		p.AddField("device_bearing", s.DeviceBearing).
			AddField("reference_bearing", s.ReferenceBearing).
			AddField("bearing_delta", s.BearingDelta).
			AddField("effective_heading", s.EffectiveHeading).
			AddField("applied_drift", s.AppliedDrift).
			AddField("device_step_distance", s.DeviceStepDistance)
	}
	if s.DegenerateBearing {
		p.AddField("degenerate", 1)
	}
	return p
}

// ExportCorrected posts the corrected samples of one series to an InfluxDB Write API.
// Because it accepts a slice, use batches. The Write API will buffer and flush.
// The last error encountered is returned.
func ExportCorrected(config *params.InfluxConfig, series, configHash string, samples []sample.Corrected) error {
	if config == nil || !config.Enabled() {
		return ErrNotConfigured
	}
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Millisecond)
	client := influxdb2.NewClientWithOptions(config.URL, config.Token, opts)
	writeAPI := client.WriteAPI(config.Org, config.Bucket)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, s := range samples {
		writeAPI.WritePoint(CorrectedPoint(config.Measurement, series, configHash, s))
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
