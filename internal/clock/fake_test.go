package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_Advance(t *testing.T) {
	start := time.Date(2024, 10, 14, 10, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	c.AdvanceDays(1)
	c.AdvanceHours(2)
	c.AdvanceMinutes(30)
	c.AdvanceSeconds(15)

	assert.Equal(t, time.Date(2024, 10, 15, 12, 30, 15, 0, time.UTC), c.Now())
}

func TestFakeClock_Set(t *testing.T) {
	c := NewFakeClock(time.Date(2024, 10, 14, 10, 0, 0, 0, time.UTC))
	target := time.Date(2023, 1, 1, 6, 0, 0, 0, time.UTC)

	c.Set(target)

	assert.Equal(t, target, c.Now())
}

func TestRealClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	c := NewRealClock(loc)

	assert.Equal(t, loc, c.Now().Location())
}
