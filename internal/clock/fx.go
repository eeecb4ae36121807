package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/transitfare/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(New),
)

// New selects the clock implementation from CLOCK_MODE. The fake clock starts
// at the current wall time and is driven forward by its caller.
func New(cfg config.Config) (Clock, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ClockMode)) {
	case config.ClockModeFake:
		return NewFakeClock(time.Now().In(loc)), nil
	default:
		return NewRealClock(loc), nil
	}
}
