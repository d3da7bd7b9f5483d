package gaze

import "errors"

// Sentinel errors for the gaze package.
var (
	// ErrNoFace indicates a calibration capture was requested while no
	// smoothed feature was available (no face currently tracked).
	ErrNoFace = errors.New("gaze: no face detected")

	// ErrSourceUnavailable indicates the frame source could not be
	// opened. Start may be retried later.
	ErrSourceUnavailable = errors.New("gaze: frame source unavailable")
)
