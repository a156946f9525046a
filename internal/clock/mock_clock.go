package clock

import (
	"sync"
	"time"
)

// MockClock is a Clock that only moves when told to. It is safe for use from the
// runner goroutine and the test at the same time.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, e.g. to simulate a slow inference call.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps to t. Moving backwards is allowed.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
