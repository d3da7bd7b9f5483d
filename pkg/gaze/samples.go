package gaze

// Point is a normalized screen coordinate, each axis in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample pairs a smoothed feature with the screen point the user was
// looking at when it was captured.
type Sample struct {
	Feature Feature
	Target  Point
}

// SampleSet is the append-only calibration training set. It grows
// monotonically until an explicit reset; the Tracker serializes access.
type SampleSet struct {
	samples []Sample
}

// Add appends one training pair.
func (s *SampleSet) Add(f Feature, target Point) {
	s.samples = append(s.samples, Sample{Feature: f, Target: target})
}

// Len returns the current sample count.
func (s *SampleSet) Len() int {
	return len(s.samples)
}

// Reset clears all samples.
func (s *SampleSet) Reset() {
	s.samples = s.samples[:0]
}

// Samples returns the underlying pairs for fitting.
func (s *SampleSet) Samples() []Sample {
	return s.samples
}
