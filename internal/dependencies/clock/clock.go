package clock

import "time"

// Clock provides the current time so room timestamps can be pinned in tests
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the wall clock, normalized to UTC
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
