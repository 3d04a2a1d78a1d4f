package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rotblauer/catdrift/params"
	"github.com/rotblauer/catdrift/types/observation"
	"github.com/tidwall/gjson"
)

// DefaultSeriesID names the series of lines that carry no series key.
const DefaultSeriesID = "default"

var ErrNotAnObject = errors.New("line is not a JSON object")

// ScanSeries reads JSON lines from reader and groups them into series by the
// value at key, a gjson path. Series are returned in order of first appearance;
// lines keep their input order within a series. Lines without the key belong
// to DefaultSeriesID. Blank lines are skipped.
//
// Any line that is not a JSON object aborts the scan. A line that starts as an
// object but does not decode, eg. a truncated last line, sets Err on its series;
// record-level problems (missing fields, bad values) are left for decoding.
// Either way only that series fails.
func ScanSeries(ctx context.Context, reader io.Reader, key string) ([]observation.Series, error) {
	if key == "" {
		key = params.DefaultSeriesKey
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), params.DefaultScannerBufferSize)

	met := NewTickMeter("Read records", "lines", "bytes", params.MeterInterval)
	defer met.Stop()

	var out []observation.Series
	index := map[string]int{}

	line := 0
	for scanner.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		msg := scanner.Bytes()
		if len(msg) == 0 {
			continue
		}
		parsed := gjson.ParseBytes(msg)
		if !parsed.IsObject() {
			return nil, fmt.Errorf("line %d: %w", line, ErrNotAnObject)
		}

		id := DefaultSeriesID
		if v := parsed.Get(key); v.Exists() && v.String() != "" {
			id = v.String()
		}

		met.Mark(id, 1, int64(len(msg)))

		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, observation.Series{ID: id})
			slog.Debug("Scanner fresh series", "series", id, "line", line)
		}

		rec := observation.Record{}
		if err := json.Unmarshal(msg, &rec); err != nil {
			slog.Warn("Scanner unreadable record", "series", id, "line", line, "error", err)
			if out[i].Err == nil {
				out[i].Err = &observation.MalformedInputError{
					Series: id,
					Index:  len(out[i].Records),
					Field:  observation.FieldRecord,
					Err:    fmt.Errorf("line %d: %w", line, err),
				}
			}
			continue
		}
		out[i].Records = append(out[i].Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	slog.Info("Scanner done", "series", len(out), "lines", met.Count())
	return out, nil
}
