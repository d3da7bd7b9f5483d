package gaze

import (
	"fmt"
	"sync"
	"time"

	"github.com/gazekit/go-gaze/internal/log"
	"github.com/gazekit/go-gaze/pkg/landmarks"
)

// Tracker owns the gaze estimation state: the smoothing buffer, the
// calibration set, the fitted model and the latest estimate, all guarded
// by one mutex. A background loop consumes the frame source and keeps the
// estimate fresh; calibration and query methods are safe to call from any
// goroutine.
type Tracker struct {
	cfg    Config
	source landmarks.Source

	mu       sync.Mutex
	smoother *Smoother
	samples  SampleSet
	model    *Model
	latest   *Point

	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewTracker creates a tracker reading from the given frame source.
// The source is opened on Start and released on Stop.
func NewTracker(cfg Config, source landmarks.Source) *Tracker {
	return &Tracker{
		cfg:      cfg,
		source:   source,
		smoother: NewSmoother(cfg.BufferSize),
	}
}

// Start opens the frame source and launches the sampling loop.
// Idempotent: a second Start while running is a no-op. A Start that
// lands while a stopped loop is still draining waits for that loop to
// release the source before reopening, so the source is never owned by
// two loops. An open failure aborts only this attempt and Start may be
// called again later.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		if t.running {
			return nil
		}
		prev := t.done
		if prev == nil {
			break
		}
		// A previous loop may still hold the source after Stop flipped
		// running off. Drop the lock so it can finish, then re-check.
		t.mu.Unlock()
		<-prev
		t.mu.Lock()
		if t.done == prev {
			t.done = nil
		}
	}

	if err := t.source.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)

	log.Info("gaze tracker started",
		"poll", t.cfg.PollInterval,
		"buffer", t.cfg.BufferSize,
		"min_samples", t.cfg.MinSamples)
	return nil
}

// Stop halts the sampling loop and releases the frame source.
// Safe to call at any time, including before any Start.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
	log.Info("gaze tracker stopped")
}

// Running reports whether the sampling loop is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// run is the sampling loop: frame -> feature -> smoother -> prediction.
// The source is released on exit so Stop never races a final read.
// The lock is never held while waiting on the source.
func (t *Tracker) run(stop, done chan struct{}) {
	defer close(done)
	defer t.source.Close()

	for {
		select {
		case <-stop:
			return
		default:
		}

		frame, ok, err := t.source.Next()
		if err != nil {
			// Transient: back off and retry without terminating.
			wait(stop, t.cfg.ReadBackoff)
			continue
		}
		if ok {
			t.observe(frame)
		}

		wait(stop, t.cfg.PollInterval)
	}
}

// wait sleeps for d or until stop closes, whichever comes first.
func wait(stop chan struct{}, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stop:
	case <-timer.C:
	}
}

// observe folds one frame into the shared state.
func (t *Tracker) observe(frame landmarks.Frame) {
	feature, ok := ExtractFeature(frame)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.smoother.Push(feature)
	if t.model != nil {
		p := t.model.Predict(feature)
		t.latest = &p
	}
}

// ResetCalibration clears the sample set and invalidates the model and
// the latest estimate.
func (t *Tracker) ResetCalibration() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples.Reset()
	t.model = nil
	t.latest = nil
}

// AddCalibrationSample captures the current smoothed feature against the
// given screen target. Returns ErrNoFace, without mutating state, when
// the smoothing buffer is empty. Once MinSamples pairs exist the model is
// refit from the full set on every successful addition, so the freshest
// fit is always live.
func (t *Tracker) AddCalibrationSample(target Point) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	feature, ok := t.smoother.Mean()
	if !ok {
		return ErrNoFace
	}

	t.samples.Add(feature, target)
	if t.samples.Len() >= t.cfg.MinSamples {
		model, err := FitModel(&t.samples)
		if err != nil {
			return fmt.Errorf("gaze: refit: %w", err)
		}
		t.model = model
	}
	return nil
}

// Gaze returns the latest estimate. The bool is false before any model
// has produced one; uncalibrated is a normal state, not a failure.
func (t *Tracker) Gaze() (Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.latest == nil {
		return Point{}, false
	}
	return *t.latest, true
}

// IsCalibrated reports whether a model has been fit.
func (t *Tracker) IsCalibrated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.model != nil
}

// SampleCount returns the current calibration set size.
func (t *Tracker) SampleCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samples.Len()
}
