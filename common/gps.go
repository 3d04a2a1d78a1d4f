package common

// Rounding precisions for output coordinates and distances.
// Eight decimal places of a degree is about 1.11 mm at the equator,
// well below any device or reference error.
const (
	GPSPrecision8   = 8
	MetersPrecision = 2 // centimeters
)
