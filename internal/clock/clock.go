// Package clock abstracts the wall clock so "today" can be fixed in tests.
package clock

import "time"

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// System reads the process wall clock in the local zone
type System struct{}

// Now returns time.Now()
func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Func adapts a plain function to Clock
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time {
	return f()
}
