package testdata

import (
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_TwoSeries is a small JSON-lines input with two walks, "north-east"
// and "south-west", interleaved, and one record per line.
var Source_TwoSeries = "./two_series.ndjson"

// Source_OneMalformed is Source_TwoSeries with one record of "south-west"
// missing its reference_lat.
var Source_OneMalformed = "./one_malformed.ndjson"
