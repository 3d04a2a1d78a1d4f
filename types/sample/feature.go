package sample

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catdrift/common"
)

// Feature renders a corrected sample as a GeoJSON point at its corrected position.
// Original coordinates and diagnostics go in the properties.
func (c Corrected) Feature(series, configHash string) *geojson.Feature {
	f := geojson.NewFeature(c.Corrected)
	f.Properties["Series"] = series
	f.Properties["ConfigHash"] = configHash
	f.Properties["Index"] = c.Index
	f.Properties["Time"] = c.Time.Format(time.RFC3339Nano)
	f.Properties["UnixTime"] = c.Time.Unix()

	f.Properties["DeviceLat"] = common.DecimalToFixed(c.Device.Lat(), common.GPSPrecision8)
	f.Properties["DeviceLon"] = common.DecimalToFixed(c.Device.Lon(), common.GPSPrecision8)
	f.Properties["ReferenceLat"] = common.DecimalToFixed(c.Reference.Lat(), common.GPSPrecision8)
	f.Properties["ReferenceLon"] = common.DecimalToFixed(c.Reference.Lon(), common.GPSPrecision8)

	f.Properties["DeviceBearing"] = c.DeviceBearing
	f.Properties["ReferenceBearing"] = c.ReferenceBearing
	f.Properties["BearingDelta"] = c.BearingDelta
	f.Properties["DriftDistance"] = common.DecimalToFixed(c.DriftDistance, common.MetersPrecision)
	f.Properties["DeviceStepDistance"] = common.DecimalToFixed(c.DeviceStepDistance, common.MetersPrecision)
	f.Properties["ReferenceStepDistance"] = common.DecimalToFixed(c.ReferenceStepDistance, common.MetersPrecision)
	f.Properties["DegenerateBearing"] = c.DegenerateBearing

	f.Properties["EffectiveHeading"] = c.EffectiveHeading
	f.Properties["AppliedDrift"] = c.AppliedDrift
	f.Properties["WindowAverage"] = c.WindowAverage
	f.Properties["IsAnomalous"] = c.IsAnomalous
	f.Properties["CorrectionError"] = common.DecimalToFixed(c.CorrectionError, common.MetersPrecision)
	return f
}

// Feature renders an anomaly as a GeoJSON point at its raw reference coordinate.
func (a Anomaly) Feature(series, configHash string) *geojson.Feature {
	f := geojson.NewFeature(a.Reference)
	f.Properties["Series"] = series
	f.Properties["ConfigHash"] = configHash
	f.Properties["Anomaly"] = true
	f.Properties["Index"] = a.Index
	f.Properties["Time"] = a.Time.Format(time.RFC3339Nano)
	f.Properties["UnixTime"] = a.Time.Unix()
	f.Properties["WindowAverage"] = a.WindowAverage
	f.Properties["CellToken"] = a.CellToken
	return f
}

// Track returns the corrected positions as a LineString.
func Track(samples []Corrected) orb.LineString {
	ls := make(orb.LineString, 0, len(samples))
	for _, s := range samples {
		ls = append(ls, s.Corrected)
	}
	return ls
}
