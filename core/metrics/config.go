package metrics

// Config holds metrics export settings.
type Config struct {
	// Textfile is the path metrics are written to after a run. Empty disables export.
	Textfile string `mapstructure:"textfile" default:""`
}
