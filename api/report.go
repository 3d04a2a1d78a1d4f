package api

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catdrift/common"
	"github.com/rotblauer/catdrift/geo/geodesy"
	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/s2"
	"github.com/rotblauer/catdrift/types/sample"
)

// QualityReport summarizes how well a fused series tracks its reference.
// Correction error figures are diagnostic; nothing feeds back into fusion.
type QualityReport struct {
	Samples     int
	Anomalies   int
	AnomalyRate float64

	DegenerateBearings int
	EmptyWindows       int

	CorrectionErrorMean   float64
	CorrectionErrorMedian float64
	CorrectionErrorP95    float64
	CorrectionErrorMax    float64

	// Track lengths in meters.
	CorrectedDistance float64
	DeviceDistance    float64
	ReferenceDistance float64

	Final   orb.Point
	Elapsed time.Duration
}

func newQualityReport(sphere geodesy.Sphere, res *Result, emptyWindows int) QualityReport {
	r := QualityReport{
		Samples:      len(res.Samples),
		Anomalies:    len(res.Anomalies),
		EmptyWindows: emptyWindows,
	}
	if r.Samples == 0 {
		return r
	}
	r.AnomalyRate = float64(r.Anomalies) / float64(r.Samples)
	r.Final = res.Samples[r.Samples-1].Corrected

	errs := make(stats.Float64Data, 0, r.Samples)
	for i, s := range res.Samples {
		errs = append(errs, s.CorrectionError)
		if s.DegenerateBearing {
			r.DegenerateBearings++
		}
		if i == 0 {
			continue
		}
		prev := res.Samples[i-1]
		r.CorrectedDistance += sphere.Distance(prev.Corrected, s.Corrected)
		r.DeviceDistance += s.DeviceStepDistance
		r.ReferenceDistance += s.ReferenceStepDistance
	}

	// Errors are only possible on empty input, ruled out above.
	r.CorrectionErrorMean, _ = errs.Mean()
	r.CorrectionErrorMedian, _ = errs.Median()
	r.CorrectionErrorP95, _ = errs.Percentile(95)
	r.CorrectionErrorMax, _ = errs.Max()
	return r
}

// Properties renders the report as GeoJSON feature properties.
func (r QualityReport) Properties() geojson.Properties {
	return geojson.Properties{
		"Samples":               r.Samples,
		"Anomalies":             r.Anomalies,
		"AnomalyRate":           common.DecimalToFixed(r.AnomalyRate, 4),
		"DegenerateBearings":    r.DegenerateBearings,
		"EmptyWindows":          r.EmptyWindows,
		"CorrectionErrorMean":   common.DecimalToFixed(r.CorrectionErrorMean, common.MetersPrecision),
		"CorrectionErrorMedian": common.DecimalToFixed(r.CorrectionErrorMedian, common.MetersPrecision),
		"CorrectionErrorP95":    common.DecimalToFixed(r.CorrectionErrorP95, common.MetersPrecision),
		"CorrectionErrorMax":    common.DecimalToFixed(r.CorrectionErrorMax, common.MetersPrecision),
		"CorrectedDistance":     common.DecimalToFixed(r.CorrectedDistance, common.MetersPrecision),
		"DeviceDistance":        common.DecimalToFixed(r.DeviceDistance, common.MetersPrecision),
		"ReferenceDistance":     common.DecimalToFixed(r.ReferenceDistance, common.MetersPrecision),
		"Elapsed":               r.Elapsed.Seconds(),
	}
}

// TrackFeature is the corrected track of the series as a LineString,
// carrying the quality report. A single-sample series is a one-point line.
func (res *Result) TrackFeature() *geojson.Feature {
	f := geojson.NewFeature(sample.Track(res.Samples))
	f.Properties = res.Report.Properties()
	f.Properties["Series"] = res.Series
	f.Properties["ConfigHash"] = res.ConfigHash
	if len(res.Samples) > 0 {
		f.Properties["Start"] = res.Samples[0].Time.Format(time.RFC3339Nano)
		f.Properties["End"] = res.Samples[len(res.Samples)-1].Time.Format(time.RFC3339Nano)
	}
	return f
}

// Features renders every corrected sample as a GeoJSON point feature, in order.
func (res *Result) Features() []*geojson.Feature {
	out := make([]*geojson.Feature, 0, len(res.Samples))
	for _, s := range res.Samples {
		out = append(out, s.Feature(res.Series, res.ConfigHash))
	}
	return out
}

func (res *Result) AnomalyFeatures() []*geojson.Feature {
	out := make([]*geojson.Feature, 0, len(res.Anomalies))
	for _, a := range res.Anomalies {
		out = append(out, a.Feature(res.Series, res.ConfigHash))
	}
	return out
}

// AnomalyCellFeatures groups anomalies by S2 cell and renders each cell as a
// polygon with its anomaly count, in order of first anomaly.
func (res *Result) AnomalyCellFeatures() []*geojson.Feature {
	var out []*geojson.Feature
	byToken := map[string]*geojson.Feature{}
	for _, a := range res.Anomalies {
		if f, ok := byToken[a.CellToken]; ok {
			f.Properties["Count"] = f.Properties.MustInt("Count") + 1
			f.Properties["LastIndex"] = a.Index
			continue
		}
		f := geojson.NewFeature(s2.CellPolygon(a.Reference, params.AnomalyCellLevel))
		f.Properties["Series"] = res.Series
		f.Properties["ConfigHash"] = res.ConfigHash
		f.Properties["CellToken"] = a.CellToken
		f.Properties["CellLevel"] = int(params.AnomalyCellLevel)
		f.Properties["Count"] = 1
		f.Properties["FirstIndex"] = a.Index
		f.Properties["LastIndex"] = a.Index
		byToken[a.CellToken] = f
		out = append(out, f)
	}
	return out
}
