// Package gaze estimates where the user is looking on screen from facial
// landmark frames, using a small per-user calibration model fit on the fly.
package gaze

import "time"

// Config holds tunable parameters for the gaze tracker.
type Config struct {
	// BufferSize is the smoothing window: how many recent features feed
	// the stabilized mean.
	BufferSize int

	// MinSamples is the calibration set size at which the first model
	// is fit.
	MinSamples int

	// PollInterval bounds loop CPU usage between frames.
	PollInterval time.Duration

	// ReadBackoff is the wait after a transient frame read failure.
	ReadBackoff time.Duration
}

// DefaultConfig returns the recommended tracker configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:   30,
		MinSamples:   5,
		PollInterval: 10 * time.Millisecond,
		ReadBackoff:  50 * time.Millisecond,
	}
}
