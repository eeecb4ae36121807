package service

import (
	"testing"
	"time"

	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/config"
	"github.com/smallbiznis/transitfare/internal/route/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildFleet_DefaultCatalogue(t *testing.T) {
	clk := clock.NewFakeClock(monday)
	fleet, err := BuildFleet(config.DefaultFareConfig(), OperatorParam{
		Clock:   clk,
		Log:     zap.NewNop(),
		Serials: newNode(t),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"102 Rojo", "121 Verde", "K", "Galvez"}, fleet.Routes())

	rojo, err := fleet.Get("102 Rojo")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassUrban, rojo.Class())
	assertMoney(t, 1580, rojo.BaseFare())

	galvez, err := fleet.Get("Galvez")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassInterurban, galvez.Class())
	assertMoney(t, 3000, galvez.BaseFare())

	_, err = fleet.Get("144")
	assert.ErrorIs(t, err, domain.ErrUnknownRoute)
}

func TestBuildFleet_Rejections(t *testing.T) {
	deps := OperatorParam{Clock: clock.NewFakeClock(monday), Serials: newNode(t)}

	cfg := config.DefaultFareConfig()
	cfg.Routes = []config.RouteConfig{{ID: "K"}, {ID: "K"}}
	_, err := BuildFleet(cfg, deps)
	assert.ErrorIs(t, err, domain.ErrInvalidRoute)

	cfg.Routes = []config.RouteConfig{{ID: "K", Class: "ferry"}}
	_, err = BuildFleet(cfg, deps)
	assert.ErrorIs(t, err, domain.ErrInvalidServiceClass)

	cfg.Routes = []config.RouteConfig{{ID: ""}}
	_, err = BuildFleet(cfg, deps)
	assert.ErrorIs(t, err, domain.ErrInvalidRoute)
}

func TestNewFleet_UsesCurrentConfig(t *testing.T) {
	cfg := config.DefaultFareConfig()
	cfg.StandardFare = 1200
	cfg.Routes = []config.RouteConfig{{ID: "144", Class: config.RouteClassUrban}}
	holder, err := config.NewStaticFareConfigHolder(cfg)
	require.NoError(t, err)

	fleet, err := NewFleet(FleetParam{
		Config:  holder,
		Clock:   clock.NewFakeClock(monday),
		Log:     zap.NewNop(),
		Serials: newNode(t),
	})
	require.NoError(t, err)

	op, err := fleet.Get("144")
	require.NoError(t, err)
	assertMoney(t, 1200, op.BaseFare())
}

func TestTransferRules_ClockBackwards(t *testing.T) {
	rules := domain.DefaultTransferRules()
	assert.False(t, rules.Allows(monday, monday.Add(-time.Minute)))
	assert.True(t, rules.Allows(monday, monday.Add(time.Minute)))
}
