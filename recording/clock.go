package recording

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock supplies the time for entry headings and the revert timer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
