package clock

import "time"

// FakeClock is a manually driven Clock. The instant keeps the location it was
// created with so weekday and hour rules see local time.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *FakeClock) AdvanceDays(n int) {
	c.now = c.now.AddDate(0, 0, n)
}

func (c *FakeClock) AdvanceHours(n int) {
	c.Advance(time.Duration(n) * time.Hour)
}

func (c *FakeClock) AdvanceMinutes(n int) {
	c.Advance(time.Duration(n) * time.Minute)
}

func (c *FakeClock) AdvanceSeconds(n int) {
	c.Advance(time.Duration(n) * time.Second)
}

// Set moves the clock to an absolute instant, backwards included.
func (c *FakeClock) Set(t time.Time) {
	c.now = t
}
