package device

import (
	"time"
)

// Clock is the station real time clock. Every timestamp it hands out is UTC.
type Clock struct {
	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (d *Clock) Now() time.Time {
	return d.now().UTC()
}

// NextAligned returns the first multiple of interval strictly after t.
func NextAligned(t time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return t
	}
	return t.Truncate(interval).Add(interval)
}
