package params

// InfluxConfig configures optional export of corrected samples to InfluxDB.
// Export is disabled when URL is empty.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string

	// Measurement is the InfluxDB measurement name for corrected samples.
	Measurement string
}

func DefaultInfluxConfig() *InfluxConfig {
	return &InfluxConfig{
		Org:         "catdrift",
		Bucket:      "catdrift",
		Measurement: "corrected_sample",
	}
}

func (c *InfluxConfig) Enabled() bool {
	return c != nil && c.URL != ""
}
