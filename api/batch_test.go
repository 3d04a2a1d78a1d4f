package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/testing/testdata"
	"github.com/rotblauer/catdrift/types/observation"
)

func TestFuseBatchIsolatesMalformedSeries(t *testing.T) {
	good := testdata.ConstantDrift(20, 60, 2).Records()
	bad := testdata.Straight(20, 200).Records()
	delete(bad[4], observation.FieldReferenceLat)

	b, err := FuseBatch(context.Background(), testConfig(), []observation.Series{
		{ID: "bad", Records: bad},
		{ID: "good", Records: good},
	}, &BatchOptions{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if b.RunID == "" {
		t.Errorf("Expected a run id")
	}

	badRes, goodRes := b.Results[0], b.Results[1]
	if badRes.ID != "bad" || goodRes.ID != "good" {
		t.Fatalf("Expected results in input order, got %s %s", badRes.ID, goodRes.ID)
	}

	var mie *observation.MalformedInputError
	if !errors.As(badRes.Err, &mie) {
		t.Fatalf("Expected MalformedInputError, but got %v", badRes.Err)
	}
	if mie.Series != "bad" || mie.Index != 4 || mie.Field != observation.FieldReferenceLat {
		t.Errorf("Expected series=bad record=4 field=reference_lat, but got %v", mie)
	}
	if badRes.Result != nil {
		t.Errorf("Expected no result for the failed series")
	}

	if goodRes.Err != nil {
		t.Fatalf("Expected good series to succeed, got %v", goodRes.Err)
	}
	if n := len(goodRes.Result.Samples); n != len(good) {
		t.Errorf("Expected %d samples, but got %d", len(good), n)
	}

	if failed := b.Failed(); len(failed) != 1 || failed[0].ID != "bad" {
		t.Errorf("Expected exactly the bad series to fail, got %+v", failed)
	}
	if !errors.Is(b.Err(), observation.ErrMalformedInput) {
		t.Errorf("Expected joined error to carry ErrMalformedInput, got %v", b.Err())
	}
}

func TestFuseBatchOrderManySeries(t *testing.T) {
	var series []observation.Series
	for i := 0; i < 37; i++ {
		series = append(series, observation.Series{
			ID:      fmt.Sprintf("s%02d", i),
			Records: testdata.ConstantDrift(5+i, 30+float64(i), 1).Records(),
		})
	}
	b, err := FuseBatch(context.Background(), testConfig(), series, &BatchOptions{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range b.Results {
		if r.Err != nil {
			t.Fatalf("Expected no error for %s, got %v", r.ID, r.Err)
		}
		if r.ID != series[i].ID || r.Result.Series != series[i].ID {
			t.Errorf("Expected %s at %d, but got %s", series[i].ID, i, r.ID)
		}
		if len(r.Result.Samples) != 5+i {
			t.Errorf("Expected %d samples for %s, but got %d", 5+i, r.ID, len(r.Result.Samples))
		}
	}
	if b.Err() != nil {
		t.Errorf("Expected no batch error, got %v", b.Err())
	}
}

func TestFuseBatchInvalidConfigFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.CompensationFactor = 0
	b, err := FuseBatch(context.Background(), cfg, []observation.Series{
		{ID: "a", Records: testdata.Straight(3, 60).Records()},
	}, nil)
	if !errors.Is(err, params.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, but got %v", err)
	}
	if b != nil {
		t.Errorf("Expected no batch")
	}
}

func TestFuseBatchCancelledFillsEverySlot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	series := []observation.Series{
		{ID: "a", Records: testdata.Straight(3, 60).Records()},
		{ID: "b", Records: testdata.Straight(3, 70).Records()},
		{ID: "c", Records: testdata.Straight(3, 80).Records()},
	}
	b, err := FuseBatch(ctx, testConfig(), series, &BatchOptions{Workers: 2, SeriesTimeout: params.SeriesTimeout})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Results) != len(series) {
		t.Fatalf("Expected %d results, but got %d", len(series), len(b.Results))
	}
	for _, r := range b.Results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("Expected %s cancelled, but got %v", r.ID, r.Err)
		}
	}
}

func TestFuseBatchEmptySeriesFailsAlone(t *testing.T) {
	b, err := FuseBatch(context.Background(), testConfig(), []observation.Series{
		{ID: "empty"},
		{ID: "ok", Records: testdata.Straight(4, 60).Records()},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(b.Results[0].Err, observation.ErrMalformedInput) {
		t.Errorf("Expected empty series malformed, got %v", b.Results[0].Err)
	}
	if b.Results[1].Err != nil {
		t.Errorf("Expected ok series to succeed, got %v", b.Results[1].Err)
	}
}

func TestFuseBatchUnreadableSeriesFailsAlone(t *testing.T) {
	readErr := &observation.MalformedInputError{Series: "cut", Index: 3, Field: observation.FieldRecord, Err: errors.New("unexpected end of JSON input")}
	b, err := FuseBatch(context.Background(), testConfig(), []observation.Series{
		{ID: "cut", Records: testdata.Straight(3, 60).Records(), Err: readErr},
		{ID: "whole", Records: testdata.Straight(5, 60).Records()},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(b.Results[0].Err, readErr) || b.Results[0].Result != nil {
		t.Errorf("Expected the read error for cut, but got %v", b.Results[0].Err)
	}
	if b.Results[1].Err != nil || len(b.Results[1].Result.Samples) != 5 {
		t.Errorf("Expected whole to fuse, but got %v", b.Results[1].Err)
	}
}
