package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultFareConfigIsValid(t *testing.T) {
	require.NoError(t, ValidateFareConfig(DefaultFareConfig()))
}

func TestValidateFareConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FareConfig)
	}{
		{"zero ceiling", func(c *FareConfig) { c.Ceiling = 0 }},
		{"positive floor", func(c *FareConfig) { c.OverdraftFloor = 10 }},
		{"no denominations", func(c *FareConfig) { c.Denominations = nil }},
		{"bad multiplier", func(c *FareConfig) { c.FrequencyTiers[0].Multiplier = "abc" }},
		{"inverted tier", func(c *FareConfig) { c.FrequencyTiers[0].ToRide = 10 }},
		{"inverted window", func(c *FareConfig) { c.FranchiseWindow = HourWindow{StartHour: 22, EndHour: 6} }},
		{"duplicate route", func(c *FareConfig) { c.Routes = append(c.Routes, c.Routes[0]) }},
		{"unknown class", func(c *FareConfig) { c.Routes[0].Class = "ferry" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFareConfig()
			tt.mutate(&cfg)
			assert.Error(t, ValidateFareConfig(cfg))
		})
	}
}

func TestFareConfigHolder_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fare.yml")
	content := `
fare:
  ceiling: 40000
  standardFare: 1200
  halfFare:
    minInterval: 10m
  routes:
    - id: "144"
      class: urban
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	holder, err := newFareConfigHolder(zap.NewNop(), file)
	require.NoError(t, err)

	cfg := holder.Current()
	assert.Equal(t, int64(40000), cfg.Ceiling)
	assert.Equal(t, int64(1200), cfg.StandardFare)
	assert.Equal(t, 10*time.Minute, cfg.HalfFare.MinInterval)
	assert.Equal(t, 2, cfg.HalfFare.DiscountedRidesPerDay)
	assert.Equal(t, int64(-1200), cfg.OverdraftFloor)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "144", cfg.Routes[0].ID)
}

func TestFareConfigHolder_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fare.yml")
	require.NoError(t, os.WriteFile(file, []byte("fare:\n  ceiling: -5\n"), 0o600))

	_, err := newFareConfigHolder(zap.NewNop(), file)
	assert.Error(t, err)
}

func TestStaticFareConfigHolder(t *testing.T) {
	cfg := DefaultFareConfig()
	cfg.Ceiling = 10000

	holder, err := NewStaticFareConfigHolder(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), holder.Current().Ceiling)
}
