// ABOUTME: Injectable time source shared by every time-dependent component.
// ABOUTME: Production wiring uses System; tests pin one fixed clock for all of them.
package clock

import "time"

// Clock returns the current time.
type Clock func() time.Time

// System reads the real wall clock.
func System() time.Time {
	return time.Now()
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
