package clock

import "time"

// Clock abstracts wall-clock time so the scheduler can be tested
// with a deterministic time source.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
