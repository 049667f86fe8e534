// Package clock abstracts wall-clock time so that every delay in supportchat
// (module throttling, simulated replies) can be driven by virtual time in tests.
package clock

import "time"

// Timer is a one-shot scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the timer
	// already fired or was already stopped.
	Stop() bool
}

// Clock provides the current time and one-shot deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by package time.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
