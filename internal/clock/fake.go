package clock

import "time"

// FakeClock is a Clock frozen at a chosen instant. Sale timestamps and
// invoice numbers derived from it are fully deterministic in tests;
// time moves only when the test says so.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant, normalized to UTC.
func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}
