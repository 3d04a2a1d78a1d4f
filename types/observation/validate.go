package observation

import (
	"fmt"
	"math"
	"time"

	"github.com/rotblauer/catdrift/common"
)

// ValidateSeries checks observations built in code (rather than decoded from
// records) against the record model: a non-empty series, set timestamps that
// never decrease, finite in-range coordinates, and finite non-negative optional fields.
func ValidateSeries(series string, obs []Observation) error {
	if len(obs) == 0 {
		return &MalformedInputError{Series: series, Index: -1, Field: "series", Err: errMissing}
	}
	for i, o := range obs {
		if err := validate(i, o); err != nil {
			return WithSeries(err, series)
		}
		if i > 0 && o.Time.Before(obs[i-1].Time) {
			return WithSeries(malformed(i, FieldTimestamp, fmt.Errorf("%w: %s before %s",
				errDecreasing, o.Time.Format(time.RFC3339Nano), obs[i-1].Time.Format(time.RFC3339Nano))), series)
		}
	}
	return nil
}

func validate(i int, o Observation) error {
	if o.Time.IsZero() {
		return malformed(i, FieldTimestamp, errMissing)
	}
	checks := []struct {
		field string
		v     float64
		limit float64
	}{
		{FieldDeviceLat, o.Device.Lat(), 90},
		{FieldDeviceLon, o.Device.Lon(), 180},
		{FieldReferenceLat, o.Reference.Lat(), 90},
		{FieldReferenceLon, o.Reference.Lon(), 180},
	}
	for _, c := range checks {
		if !common.IsFinite(c.v) {
			return malformed(i, c.field, errNotFinite)
		}
		if math.Abs(c.v) > c.limit {
			return malformed(i, c.field, fmt.Errorf("%w: %v", errOutOfRange, c.v))
		}
	}
	if o.Heading != nil && !common.IsFinite(*o.Heading) {
		return malformed(i, FieldDeviceHeading, errNotFinite)
	}
	if o.StepDistance != nil {
		if !common.IsFinite(*o.StepDistance) {
			return malformed(i, FieldDeviceStepDistance, errNotFinite)
		}
		if *o.StepDistance < 0 {
			return malformed(i, FieldDeviceStepDistance, fmt.Errorf("%w: %v", errOutOfRange, *o.StepDistance))
		}
	}
	return nil
}
