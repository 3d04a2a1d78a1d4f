package observation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func validRecord() Record {
	return Record{
		FieldTimestamp:    "2024-12-23T15:31:56Z",
		FieldDeviceLat:    44.98896789550781,
		FieldDeviceLon:    -93.2554931640625,
		FieldReferenceLat: 44.9889,
		FieldReferenceLon: -93.2555,
	}
}

func TestRecordDecode(t *testing.T) {
	r := validRecord()
	r[FieldDeviceHeading] = -10.0
	r[FieldDeviceStepDistance] = json.Number("1.5")
	o, err := r.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Device.Lat() != 44.98896789550781 || o.Device.Lon() != -93.2554931640625 {
		t.Errorf("Unexpected device point %v", o.Device)
	}
	if o.Reference.Lat() != 44.9889 || o.Reference.Lon() != -93.2555 {
		t.Errorf("Unexpected reference point %v", o.Reference)
	}
	if o.Heading == nil || *o.Heading != 350 {
		t.Errorf("Expected heading normalized to 350, got %v", o.Heading)
	}
	if o.StepDistance == nil || *o.StepDistance != 1.5 {
		t.Errorf("Expected step distance 1.5, got %v", o.StepDistance)
	}
	expected := time.Date(2024, 12, 23, 15, 31, 56, 0, time.UTC)
	if !o.Time.Equal(expected) {
		t.Errorf("Expected %v, but got %v", expected, o.Time)
	}
}

func TestRecordDecodeTimestamps(t *testing.T) {
	expected := time.Unix(1734967916, 500_000_000)
	for _, ts := range []any{1734967916.5, "1734967916.5", expected, "2024-12-23T15:31:56.5Z"} {
		r := validRecord()
		r[FieldTimestamp] = ts
		o, err := r.Decode(0)
		if err != nil {
			t.Fatalf("%v: %v", ts, err)
		}
		if !o.Time.Equal(expected) {
			t.Errorf("%v: Expected %v, but got %v", ts, expected, o.Time)
		}
	}
}

func TestRecordDecodeOptionalNull(t *testing.T) {
	r := validRecord()
	r[FieldDeviceHeading] = nil
	o, err := r.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Heading != nil || o.StepDistance != nil {
		t.Errorf("Expected optional fields absent, got %v %v", o.Heading, o.StepDistance)
	}
}

func TestRecordDecodeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		field string
		edit  func(r Record)
	}{
		{"missing reference_lat", FieldReferenceLat, func(r Record) { delete(r, FieldReferenceLat) }},
		{"missing timestamp", FieldTimestamp, func(r Record) { delete(r, FieldTimestamp) }},
		{"bad timestamp", FieldTimestamp, func(r Record) { r[FieldTimestamp] = "yesterday" }},
		{"string device_lon", FieldDeviceLon, func(r Record) { r[FieldDeviceLon] = "west" }},
		{"nan device_lat", FieldDeviceLat, func(r Record) { r[FieldDeviceLat] = math.NaN() }},
		{"latitude out of range", FieldReferenceLat, func(r Record) { r[FieldReferenceLat] = 91.0 }},
		{"bool heading", FieldDeviceHeading, func(r Record) { r[FieldDeviceHeading] = true }},
		{"negative step", FieldDeviceStepDistance, func(r Record) { r[FieldDeviceStepDistance] = -1.0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := validRecord()
			c.edit(r)
			_, err := r.Decode(7)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("Expected ErrMalformedInput, but got %v", err)
			}
			var mie *MalformedInputError
			if !errors.As(err, &mie) {
				t.Fatalf("Expected *MalformedInputError, got %T", err)
			}
			if mie.Field != c.field || mie.Index != 7 {
				t.Errorf("Expected field %s index 7, but got %s %d", c.field, mie.Field, mie.Index)
			}
		})
	}
}

func TestDecodeAll(t *testing.T) {
	a, b := validRecord(), validRecord()
	b[FieldTimestamp] = "2024-12-23T15:31:57Z"
	obs, err := DecodeAll("s1", []Record{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 2 {
		t.Fatalf("Expected 2 observations, but got %d", len(obs))
	}

	// Out of order.
	_, err = DecodeAll("s1", []Record{b, a})
	var mie *MalformedInputError
	if !errors.As(err, &mie) {
		t.Fatalf("Expected *MalformedInputError, got %v", err)
	}
	if mie.Series != "s1" || mie.Index != 1 || mie.Field != FieldTimestamp {
		t.Errorf("Unexpected error detail: %v", mie)
	}
	if !errors.Is(err, errDecreasing) {
		t.Errorf("Expected errDecreasing, got %v", err)
	}

	// Equal timestamps are fine.
	if _, err := DecodeAll("s1", []Record{a, a}); err != nil {
		t.Errorf("Expected equal timestamps to be accepted, got %v", err)
	}

	// Missing field names the series.
	delete(b, FieldReferenceLat)
	_, err = DecodeAll("s2", []Record{a, b})
	if !errors.As(err, &mie) || mie.Series != "s2" || mie.Index != 1 || mie.Field != FieldReferenceLat {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateSeriesEmpty(t *testing.T) {
	err := ValidateSeries("empty", nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, but got %v", err)
	}
}

func TestFromObservationRoundTrip(t *testing.T) {
	o := Observation{
		Time:         time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC),
		Device:       Point(38.8027247, -77.0707354),
		Reference:    Point(38.7997920649094, -77.074063879149),
		Heading:      Float64(12.5),
		StepDistance: Float64(3),
	}
	got, err := FromObservation(o).Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != o.String() || *got.Heading != 12.5 || *got.StepDistance != 3 {
		t.Errorf("Expected %v, but got %v", o, got)
	}
}
