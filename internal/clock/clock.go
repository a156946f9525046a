// Package clock supplies the time source the session uses to stamp inference
// requests, so elapsed-time reporting can be driven by tests.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock. It is the session default.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
