// pkg/clock/time_provider.go
package clock

import (
	"sync"
	"time"
)

// Source supplies the current time to frame loops.
type Source interface {
	Now() time.Time
}

// TimeProvider reads the system monotonic clock.
type TimeProvider struct{}

// NewTimeProvider creates a time provider backed by time.Now
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now returns the current time with its monotonic reading
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a manually advanced time source for headless runs
// and tests.
type MockTimeProvider struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockTimeProvider creates a mock starting at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{current: start}
}

// Now returns the mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set jumps to t, which may be earlier than the current time
func (m *MockTimeProvider) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the mocked time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
