package gaze

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gazekit/go-gaze/pkg/landmarks"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PollInterval = time.Millisecond
	cfg.ReadBackoff = time.Millisecond
	return cfg
}

// seedFeature puts one feature into the smoothing buffer directly, as if
// the sampling loop had observed a face.
func seedFeature(t *Tracker, f Feature) {
	t.mu.Lock()
	t.smoother.Push(f)
	t.mu.Unlock()
}

// eventually polls cond for up to two seconds.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestTracker_AddSampleWithoutFace(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())

	err := tr.AddCalibrationSample(Point{X: 0.5, Y: 0.5})
	if !errors.Is(err, ErrNoFace) {
		t.Fatalf("expected ErrNoFace, got %v", err)
	}
	if tr.SampleCount() != 0 {
		t.Errorf("sample count = %d, want 0 after rejected capture", tr.SampleCount())
	}
}

func TestTracker_CalibrationThreshold(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())

	targets := []Point{
		{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.5, Y: 0.5},
		{X: 0.1, Y: 0.9}, {X: 0.9, Y: 0.9},
	}
	for i, target := range targets {
		v := 0.3 + 0.1*float64(i)
		seedFeature(tr, Feature{v, v / 2, 1 - v, v * v})

		if err := tr.AddCalibrationSample(target); err != nil {
			t.Fatalf("sample %d: %v", i+1, err)
		}

		wantCalibrated := i+1 >= 5
		if tr.IsCalibrated() != wantCalibrated {
			t.Errorf("after %d samples: calibrated = %v, want %v",
				i+1, tr.IsCalibrated(), wantCalibrated)
		}
	}

	if tr.SampleCount() != 5 {
		t.Errorf("sample count = %d, want 5", tr.SampleCount())
	}

	// Further additions keep the model live.
	seedFeature(tr, Feature{0.5, 0.5, 0.5, 0.5})
	if err := tr.AddCalibrationSample(Point{X: 0.5, Y: 0.4}); err != nil {
		t.Fatalf("sixth sample: %v", err)
	}
	if !tr.IsCalibrated() {
		t.Error("calibration must persist across further samples")
	}
}

func TestTracker_ResetCalibration(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())

	for i := 0; i < 5; i++ {
		v := float64(i) / 5
		seedFeature(tr, Feature{v, v, v, v})
		if err := tr.AddCalibrationSample(Point{X: v, Y: v}); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if !tr.IsCalibrated() {
		t.Fatal("expected calibrated before reset")
	}

	tr.ResetCalibration()

	if tr.SampleCount() != 0 {
		t.Errorf("sample count after reset = %d, want 0", tr.SampleCount())
	}
	if tr.IsCalibrated() {
		t.Error("expected uncalibrated after reset")
	}
	if _, ok := tr.Gaze(); ok {
		t.Error("expected no estimate after reset")
	}
}

func TestTracker_ConcurrentSamples(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())
	seedFeature(tr, Feature{0.5, 0.5, 0.5, 0.5})

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := Point{X: float64(i) / n, Y: float64(n-i) / n}
			if err := tr.AddCalibrationSample(target); err != nil {
				errs <- fmt.Errorf("sample %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if tr.SampleCount() != n {
		t.Errorf("sample count = %d, want %d (lost updates)", tr.SampleCount(), n)
	}
	if !tr.IsCalibrated() {
		t.Error("expected calibrated after concurrent samples")
	}
}

func TestTracker_GazeBeforeModel(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())

	if _, ok := tr.Gaze(); ok {
		t.Error("expected no estimate before any model exists")
	}
}

func TestTracker_StartStop(t *testing.T) {
	src := landmarks.NewMockSource()
	src.NextFunc = func() (landmarks.Frame, bool, error) {
		return testFrame(0.35, 0.5, 0.65, 0.5), true, nil
	}

	tr := NewTracker(testConfig(), src)
	if err := tr.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tr.Start(); err != nil {
		t.Fatalf("second start should be a no-op, got %v", err)
	}
	if !tr.Running() {
		t.Fatal("expected running after start")
	}

	// The loop must fill the smoothing buffer from the source.
	eventually(t, func() bool {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		return tr.smoother.Len() > 0
	}, "sampling loop never buffered a feature")
	if src.NextCalls() == 0 {
		t.Error("expected the loop to have polled the source")
	}

	// Calibrate while the loop runs; afterwards the loop itself must
	// produce an estimate from fresh frames.
	targets := []Point{
		{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.5, Y: 0.5},
		{X: 0.1, Y: 0.9}, {X: 0.9, Y: 0.9},
	}
	for i, target := range targets {
		if err := tr.AddCalibrationSample(target); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}

	eventually(t, func() bool {
		_, ok := tr.Gaze()
		return ok
	}, "loop never published an estimate after calibration")

	p, _ := tr.Gaze()
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		t.Errorf("estimate %+v outside the unit square", p)
	}

	tr.Stop()
	if tr.Running() {
		t.Error("expected stopped after Stop")
	}
	if !src.Closed() {
		t.Error("expected frame source released on Stop")
	}
}

func TestTracker_RestartDuringStop(t *testing.T) {
	for i := 0; i < 25; i++ {
		src := landmarks.NewMockSource()
		src.NextFunc = func() (landmarks.Frame, bool, error) {
			// Keep a read in flight so a restart can land while the old
			// loop still owns the source.
			time.Sleep(2 * time.Millisecond)
			return testFrame(0.35, 0.5, 0.65, 0.5), true, nil
		}

		tr := NewTracker(testConfig(), src)
		if err := tr.Start(); err != nil {
			t.Fatalf("iteration %d: start: %v", i, err)
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Stop()
		}()
		if err := tr.Start(); err != nil {
			t.Fatalf("iteration %d: restart: %v", i, err)
		}
		wg.Wait()

		// Whichever way the race resolves, a running loop must still
		// own an open source.
		if tr.Running() && src.Closed() {
			t.Fatalf("iteration %d: running loop left with a closed frame source", i)
		}

		tr.Stop()
		if tr.Running() {
			t.Fatalf("iteration %d: still running after final Stop", i)
		}
		if !src.Closed() {
			t.Fatalf("iteration %d: source not released after final Stop", i)
		}
	}
}

func TestTracker_StopWithoutStart(t *testing.T) {
	tr := NewTracker(testConfig(), landmarks.NewMockSource())
	tr.Stop() // must not panic or block
}

func TestTracker_StartRetryAfterOpenFailure(t *testing.T) {
	src := landmarks.NewMockSource()
	src.OpenFunc = func() error { return errors.New("camera busy") }

	tr := NewTracker(testConfig(), src)
	err := tr.Start()
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if tr.Running() {
		t.Fatal("tracker must not run after a failed open")
	}

	// A later Start must retry the acquisition.
	src.OpenFunc = nil
	if err := tr.Start(); err != nil {
		t.Fatalf("retry start: %v", err)
	}
	tr.Stop()
}

func TestTracker_SurvivesReadFailures(t *testing.T) {
	var mu sync.Mutex
	fail := true
	src := landmarks.NewMockSource()
	src.NextFunc = func() (landmarks.Frame, bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, false, landmarks.ErrReadFailed
		}
		return testFrame(0.35, 0.5, 0.65, 0.5), true, nil
	}

	tr := NewTracker(testConfig(), src)
	if err := tr.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tr.Stop()

	// Let the loop churn through failures, then recover.
	time.Sleep(20 * time.Millisecond)
	if !tr.Running() {
		t.Fatal("loop must survive transient read failures")
	}

	mu.Lock()
	fail = false
	mu.Unlock()

	eventually(t, func() bool {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		return tr.smoother.Len() > 0
	}, "loop never recovered after transient failures")
}
