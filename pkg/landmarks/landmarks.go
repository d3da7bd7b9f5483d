// Package landmarks provides facial landmark types and frame sources for gaze estimation
package landmarks

import "errors"

// Point is a normalized landmark position within a camera frame.
// X and Y are in [0,1] relative to the frame; Z is depth relative to the
// face and may be negative.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frame is the ordered landmark sequence for one processed camera frame.
// Indices follow the MediaPipe face-mesh convention with refined iris
// landmarks (478 points).
type Frame []Point

// Face-mesh indices used for gaze features.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
var (
	// LeftIris and RightIris outline the pupil/iris boundary per eye.
	LeftIris  = [4]int{468, 469, 470, 471}
	RightIris = [4]int{473, 474, 475, 476}
)

// Eye corner indices demarcating eye width per eye.
const (
	LeftEyeOuter  = 33
	LeftEyeInner  = 133
	RightEyeInner = 362
	RightEyeOuter = 263

	// MeshSize is the landmark count of a refined face mesh.
	MeshSize = 478
)

// Complete reports whether the frame carries the full refined mesh,
// including the iris landmarks.
func (f Frame) Complete() bool {
	return len(f) >= MeshSize
}

// Sentinel errors for frame sources.
var (
	// ErrClosed is returned by Next after the source has been closed.
	ErrClosed = errors.New("landmarks: source closed")

	// ErrReadFailed indicates a transient frame read failure.
	ErrReadFailed = errors.New("landmarks: frame read failed")
)

// Source yields landmark frames from a camera pipeline.
// Next returns the landmarks of the primary face in the latest frame; the
// bool is false when no face is visible. Implementations must select a
// single primary face when several are detectable.
type Source interface {
	// Open acquires the underlying camera. Safe to retry after a failure.
	Open() error

	// Next blocks until the next frame has been processed.
	Next() (Frame, bool, error)

	// Close releases the camera. Next must not be called after Close.
	Close() error
}
