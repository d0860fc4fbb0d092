package clock

import "time"

// UTCClock supplies the current instant in UTC.
type UTCClock struct{}

func NewUTCClock() *UTCClock {
	return &UTCClock{}
}

func (UTCClock) Now() time.Time {
	return time.Now().UTC()
}
