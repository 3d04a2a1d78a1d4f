/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catdrift/api"
	"github.com/rotblauer/catdrift/catz"
	"github.com/rotblauer/catdrift/metrics/influxdb"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/stream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optWorkersN int
var optSeriesTimeout time.Duration
var optSeriesKey string
var optAnomalies bool
var optTracks bool
var optAnomalyCells bool
var optGZip bool
var optInflux = params.DefaultInfluxConfig()

// fuseOptions is everything a fuse run needs besides its streams.
type fuseOptions struct {
	fusion    *params.FusionConfig
	batch     *api.BatchOptions
	seriesKey string
	anomalies bool
	cells     bool
	tracks    bool
	influx    *params.InfluxConfig
}

// fuseCmd represents the fuse command
var fuseCmd = &cobra.Command{
	Use:   "fuse",
	Short: "Fuse device and reference tracks from stdin",
	Long: `Reads JSON lines from stdin, one observation per line:

  {"series":"walk-1","timestamp":"2024-12-21T12:00:00Z",
   "device_lat":44.97,"device_lon":-93.26,"reference_lat":44.97,"reference_lon":-93.26,
   "device_heading":45.0,"device_step_distance":0.8}

device_heading and device_step_distance are optional; when absent they are derived
from consecutive device coordinates. timestamp is RFC3339 or unix seconds.

Input may be gzipped.
Lines are grouped by series (--series-key, a gjson path) in order of first appearance.
Each series is fused on its own; series run in parallel (--workers).
A malformed series fails alone, and is logged; the exit status is then 1.

Writes corrected samples as GeoJSON Point features, one per line, to stdout,
series by series in input order.

Flags:

  --anomalies      Also write the raw reference position of each anomalous sample.
  --anomaly-cells  Also write the S2 cells (level 16) holding anomalies, with counts.
  --tracks         Also write each series' corrected track as a LineString with its quality report.
  --gzip           Gzip the output.
  --influx-url     Also export corrected samples to InfluxDB.

Examples:

  cat walk.ndjson | catdrift fuse --window-size 20 --anomaly-threshold 10 --tracks
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg, err := fusionConfig(viper.GetViper())
		if err != nil {
			slog.Error("Invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, ctxCanceler := context.WithCancel(context.Background())
		defer ctxCanceler()
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		go func() {
			sig := <-interrupt
			slog.Warn("Received signal", "signal", sig)
			ctxCanceler()
		}()

		var dst io.Writer = os.Stdout
		var gzw *catz.GZWriter
		if optGZip {
			gzw, err = catz.NewGZWriter(os.Stdout, params.DefaultGZipCompressionLevel)
			if err != nil {
				slog.Error("Failed to open gzip writer", "error", err)
				os.Exit(1)
			}
			dst = gzw
		}
		out := bufio.NewWriter(dst)
		failed, err := runFuse(ctx, os.Stdin, out, fuseOptions{
			fusion: cfg,
			batch: &api.BatchOptions{
				Workers:       optWorkersN,
				SeriesTimeout: optSeriesTimeout,
			},
			seriesKey: optSeriesKey,
			anomalies: optAnomalies,
			cells:     optAnomalyCells,
			tracks:    optTracks,
			influx:    optInflux,
		})
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		if gzw != nil {
			if ferr := gzw.Close(); ferr != nil && err == nil {
				err = ferr
			}
		}
		if err != nil {
			slog.Error("Fuse failed", "error", err)
			os.Exit(1)
		}
		if failed > 0 {
			slog.Error("Some series failed", "failed", failed)
			os.Exit(1)
		}
	},
}

// runFuse reads series from in, fuses them, and writes features to out.
// It returns the number of failed series; err is reserved for failures
// of the run as a whole.
func runFuse(ctx context.Context, in io.Reader, out io.Writer, opts fuseOptions) (failed int, err error) {
	fuser, err := api.NewFuser(opts.fusion)
	if err != nil {
		return 0, err
	}
	src, err := catz.NewMaybeGZReader(in)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	defer src.Close()
	series, err := stream.ScanSeries(ctx, src, opts.seriesKey)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	b := fuser.FuseBatch(ctx, series, opts.batch)

	for _, r := range b.Failed() {
		slog.Error("Series failed", "run", b.RunID, "series", r.ID, "error", r.Err)
		failed++
	}

	if opts.influx.Enabled() {
		for _, r := range b.Results {
			if r.Err != nil {
				continue
			}
			if err := influxdb.ExportCorrected(opts.influx, r.ID, r.Result.ConfigHash, r.Result.Samples); err != nil {
				slog.Error("InfluxDB export failed", "series", r.ID, "error", err)
			}
		}
	}

	features := stream.Flatten(ctx, stream.Transform(ctx, func(r api.SeriesResult) []*geojson.Feature {
		if r.Err != nil {
			return nil
		}
		fs := r.Result.Features()
		if opts.anomalies {
			fs = append(fs, r.Result.AnomalyFeatures()...)
		}
		if opts.cells {
			fs = append(fs, r.Result.AnomalyCellFeatures()...)
		}
		if opts.tracks {
			fs = append(fs, r.Result.TrackFeature())
		}
		return fs
	}, stream.Slice(ctx, b.Results)))

	enc := json.NewEncoder(out)
	for f := range features {
		if err := enc.Encode(f); err != nil {
			// Drain so the pipeline goroutines exit.
			for range features {
			}
			return failed, fmt.Errorf("write output: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return failed, err
	}
	return failed, nil
}

func init() {
	rootCmd.AddCommand(fuseCmd)

	fuseCmd.Flags().IntVar(&optWorkersN, "workers", params.DefaultWorkers, "Number of series to fuse in parallel")
	fuseCmd.Flags().DurationVar(&optSeriesTimeout, "series-timeout", params.SeriesTimeout, "Time limit per series (0 for none)")
	fuseCmd.Flags().StringVar(&optSeriesKey, "series-key", params.DefaultSeriesKey, "JSON path of the series id in each line")
	fuseCmd.Flags().BoolVar(&optAnomalies, "anomalies", false, "Also write anomaly features")
	fuseCmd.Flags().BoolVar(&optAnomalyCells, "anomaly-cells", false, "Also write one polygon per S2 cell holding anomalies, with counts")
	fuseCmd.Flags().BoolVar(&optTracks, "tracks", false, "Also write one corrected LineString per series")

	fuseCmd.Flags().BoolVar(&optGZip, "gzip", false, "Gzip the output")

	fuseCmd.Flags().StringVar(&optInflux.URL, "influx-url", "", "InfluxDB URL; export is off when empty")
	fuseCmd.Flags().StringVar(&optInflux.Token, "influx-token", "", "InfluxDB token")
	fuseCmd.Flags().StringVar(&optInflux.Org, "influx-org", optInflux.Org, "InfluxDB organization")
	fuseCmd.Flags().StringVar(&optInflux.Bucket, "influx-bucket", optInflux.Bucket, "InfluxDB bucket")
}
