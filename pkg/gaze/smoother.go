package gaze

// Smoother keeps a sliding window of the most recent features and exposes
// their element-wise mean as the stabilized gaze direction. It is not
// safe for concurrent use; the Tracker serializes access under its lock.
type Smoother struct {
	window   int
	features []Feature
}

// NewSmoother creates a smoother with the given window size.
func NewSmoother(window int) *Smoother {
	if window <= 0 {
		window = DefaultConfig().BufferSize
	}
	return &Smoother{window: window}
}

// Push appends a feature, evicting the oldest once the window is full.
func (s *Smoother) Push(f Feature) {
	s.features = append(s.features, f)
	if len(s.features) > s.window {
		s.features = s.features[1:]
	}
}

// Mean returns the element-wise mean of the buffered features.
// The bool is false when the buffer is empty.
func (s *Smoother) Mean() (Feature, bool) {
	if len(s.features) == 0 {
		return Feature{}, false
	}

	var mean Feature
	for _, f := range s.features {
		for i, v := range f {
			mean[i] += v
		}
	}
	n := float64(len(s.features))
	for i := range mean {
		mean[i] /= n
	}
	return mean, true
}

// Len returns the number of buffered features.
func (s *Smoother) Len() int {
	return len(s.features)
}

// Reset drops all buffered features.
func (s *Smoother) Reset() {
	s.features = s.features[:0]
}
