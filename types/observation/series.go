package observation

// Series is one independent session of records, keyed by ID.
type Series struct {
	ID      string
	Records []Record

	// Err is set when a record of the series could not be read.
	// A series with Err fails without being fused.
	Err error
}

func (s Series) Len() int {
	return len(s.Records)
}
