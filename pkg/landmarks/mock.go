package landmarks

import "sync"

// MockSource implements Source for testing.
// Behavior can be customized via function fields; by default it reports
// no face on every frame.
type MockSource struct {
	// OpenFunc is called when Open is invoked. If nil, Open succeeds.
	OpenFunc func() error

	// NextFunc is called when Next is invoked.
	// If nil, returns (nil, false, nil) — no face.
	NextFunc func() (Frame, bool, error)

	mu        sync.Mutex
	opened    bool
	closed    bool
	nextCalls int
}

// NewMockSource creates a mock source with default behavior.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// Open records the call and delegates to OpenFunc.
func (m *MockSource) Open() error {
	m.mu.Lock()
	m.opened = true
	m.closed = false
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc()
	}
	return nil
}

// Next records the call and delegates to NextFunc.
func (m *MockSource) Next() (Frame, bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, false, ErrClosed
	}
	m.nextCalls++
	m.mu.Unlock()

	if m.NextFunc != nil {
		return m.NextFunc()
	}
	return nil, false, nil
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Opened reports whether Open has been called.
func (m *MockSource) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// Closed reports whether Close has been called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// NextCalls returns how many times Next has been invoked.
func (m *MockSource) NextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextCalls
}
