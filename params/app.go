package params

import (
	"compress/gzip"
	"time"

	"github.com/rotblauer/catdrift/s2"
)

// DefaultWorkers is the number of series fused concurrently.
var DefaultWorkers = 8

// SeriesTimeout bounds the time one series may take.
// A slow series fails alone; others are not blocked.
var SeriesTimeout = 1 * time.Minute

// DefaultSeriesKey is the JSON key that groups input lines into series.
var DefaultSeriesKey = "series"

// MeterInterval is how often batch throughput is logged.
var MeterInterval = 5 * time.Second

// AnomalyCellLevel is the S2 cell level anomalies are tagged with.
// Level 16 cells are about 150 m across; throwing distance.
var AnomalyCellLevel = s2.CellLevel16

// DefaultScannerBufferSize caps a single JSON input line.
var DefaultScannerBufferSize = 4 * 1024 * 1024

// DefaultGZipCompressionLevel is used for gzipped output.
var DefaultGZipCompressionLevel = gzip.BestSpeed
