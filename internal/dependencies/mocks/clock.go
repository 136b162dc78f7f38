package mocks

import (
	"time"

	"github.com/mcoot/scoretracker/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// When Step is non-zero every call to Now advances the clock by Step afterwards,
// so consecutive timestamps are distinct without manual Advance calls.
type MockClock struct {
	CurrentTime time.Time
	Step        time.Duration
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	now := c.CurrentTime
	c.CurrentTime = c.CurrentTime.Add(c.Step)
	return now
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
