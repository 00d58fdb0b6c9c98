package timex

import "time"

// Clock is the single source of "now" for expiry computations.
type Clock interface {
	Now() time.Time
	AddDays(days int) time.Time
	AddHours(hours int) time.Time
	IsBefore(a, b time.Time) bool
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

func (c RealClock) AddDays(days int) time.Time {
	return c.Now().AddDate(0, 0, days)
}

func (c RealClock) AddHours(hours int) time.Time {
	return c.Now().Add(time.Duration(hours) * time.Hour)
}

func (RealClock) IsBefore(a, b time.Time) bool { return a.Before(b) }

// FixedClock always reports the same instant. Set moves it.
type FixedClock struct {
	T time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{T: t}
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) AddDays(days int) time.Time {
	return c.T.AddDate(0, 0, days)
}

func (c *FixedClock) AddHours(hours int) time.Time {
	return c.T.Add(time.Duration(hours) * time.Hour)
}

func (c *FixedClock) IsBefore(a, b time.Time) bool { return a.Before(b) }

func (c *FixedClock) Set(t time.Time) { c.T = t }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Expired reports whether expiresAt has been reached. A deadline equal to
// now counts as expired.
func Expired(c Clock, expiresAt time.Time) bool {
	return !c.IsBefore(c.Now(), expiresAt)
}
