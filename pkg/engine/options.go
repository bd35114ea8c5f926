package engine

import "time"

// Option customises a Form.
type Option func(*config)

type config struct {
	applyDefaults bool
	location      *time.Location
	title         string
}

func defaultConfig() config {
	return config{location: time.Local}
}

// WithDefaultValues seeds state from each descriptor's declared default value
// when the form mounts. Without it defaults are ignored.
func WithDefaultValues() Option {
	return func(c *config) {
		c.applyDefaults = true
	}
}

// WithLocation sets the zone used to interpret and display picker date-times.
// Committed values are always UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithTitle sets the heading carried by the form view.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}
