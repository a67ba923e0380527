package clock

import "time"

// Clock abstracts wall time so day rollover stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports the current time in UTC. All day boundaries are UTC boundaries.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f().UTC()
}
