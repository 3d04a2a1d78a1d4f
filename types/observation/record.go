package observation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/catdrift/common"
)

// Record field names.
const (
	FieldTimestamp          = "timestamp"
	FieldDeviceLat          = "device_lat"
	FieldDeviceLon          = "device_lon"
	FieldReferenceLat       = "reference_lat"
	FieldReferenceLon       = "reference_lon"
	FieldDeviceHeading      = "device_heading"
	FieldDeviceStepDistance = "device_step_distance"

	// FieldRecord names a whole record that could not be read.
	FieldRecord = "record"
)

// Record is an observation as an external loader hands it over:
// a loosely typed key/value map, eg. one decoded JSON line.
type Record geojson.Properties

// Decode converts a record into a typed Observation.
// Errors are *MalformedInputError naming the offending field.
func (r Record) Decode(index int) (Observation, error) {
	o := Observation{}

	t, err := r.timestamp(FieldTimestamp)
	if err != nil {
		return o, malformed(index, FieldTimestamp, err)
	}
	o.Time = t

	coords := []struct {
		field string
		dst   *float64
	}{
		{FieldDeviceLat, &o.Device[1]},
		{FieldDeviceLon, &o.Device[0]},
		{FieldReferenceLat, &o.Reference[1]},
		{FieldReferenceLon, &o.Reference[0]},
	}
	for _, c := range coords {
		v, ok, err := r.number(c.field)
		if err != nil {
			return o, malformed(index, c.field, err)
		}
		if !ok {
			return o, malformed(index, c.field, errMissing)
		}
		*c.dst = v
	}

	if v, ok, err := r.number(FieldDeviceHeading); err != nil {
		return o, malformed(index, FieldDeviceHeading, err)
	} else if ok {
		o.Heading = Float64(common.NormalizeDegrees(v))
	}

	if v, ok, err := r.number(FieldDeviceStepDistance); err != nil {
		return o, malformed(index, FieldDeviceStepDistance, err)
	} else if ok {
		o.StepDistance = Float64(v)
	}
	return o, validate(index, o)
}

// number reads an optional numeric field.
// A JSON null counts as absent.
func (r Record) number(key string) (v float64, ok bool, err error) {
	raw, exists := r[key]
	if !exists || raw == nil {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		v, err = n.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", errNotNumeric, n.String())
		}
	default:
		return 0, false, fmt.Errorf("%w: %v (%T)", errNotNumeric, raw, raw)
	}
	if !common.IsFinite(v) {
		return 0, false, errNotFinite
	}
	return v, true, nil
}

// timestamp reads a required time: time.Time, RFC3339 string, or numeric unix seconds.
func (r Record) timestamp(key string) (time.Time, error) {
	raw, exists := r[key]
	if !exists || raw == nil {
		return time.Time{}, errMissing
	}
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, errMissing
		}
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			// Unix seconds in a string, as some loggers write them.
			if f, ferr := strconv.ParseFloat(v, 64); ferr == nil {
				return unixFloat(f), nil
			}
			return time.Time{}, fmt.Errorf("%w: %q", errBadTime, v)
		}
		return t, nil
	}
	f, ok, err := r.number(key)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errMissing
	}
	return unixFloat(f), nil
}

func unixFloat(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// FromObservation is the inverse of Decode, for tests and fixtures.
func FromObservation(o Observation) Record {
	r := Record{
		FieldTimestamp:    o.Time,
		FieldDeviceLat:    o.Device.Lat(),
		FieldDeviceLon:    o.Device.Lon(),
		FieldReferenceLat: o.Reference.Lat(),
		FieldReferenceLon: o.Reference.Lon(),
	}
	if o.Heading != nil {
		r[FieldDeviceHeading] = *o.Heading
	}
	if o.StepDistance != nil {
		r[FieldDeviceStepDistance] = *o.StepDistance
	}
	return r
}

// DecodeAll decodes a series of records in order.
// The first failure aborts the series.
func DecodeAll(series string, records []Record) ([]Observation, error) {
	out := make([]Observation, 0, len(records))
	for i, r := range records {
		o, err := r.Decode(i)
		if err != nil {
			return nil, WithSeries(err, series)
		}
		out = append(out, o)
	}
	if err := ValidateSeries(series, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Point is a convenience for building observations by hand.
func Point(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}
