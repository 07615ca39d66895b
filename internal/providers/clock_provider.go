package providers

import "time"

// Clock supplies the current time; the engine never calls time.Now directly so
// that day attribution can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewClockProvider() Clock {
	return systemClock{}
}
