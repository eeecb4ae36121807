package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the set of fare rules a card is issued with.
type Policy struct {
	Ceiling        decimal.Decimal
	OverdraftFloor decimal.Decimal
	Denominations  []decimal.Decimal
	Precision      int32

	// StandardFare is the reference full fare for half-fare discount
	// accounting when a charge was not preceded by a quote.
	StandardFare decimal.Decimal

	FrequencyTiers []FrequencyTier

	FranchiseStartHour int
	FranchiseEndHour   int

	HalfFareRidesPerDay int
	HalfFareMinInterval time.Duration

	FreeRidesPerDay int
}

// FrequencyTier applies Multiplier to the rides whose monthly ordinal is in
// [FromRide, ToRide]. ToRide 0 is unbounded.
type FrequencyTier struct {
	FromRide   int
	ToRide     int
	Multiplier decimal.Decimal
}

func (t FrequencyTier) Contains(ordinal int) bool {
	if ordinal < t.FromRide {
		return false
	}
	return t.ToRide == 0 || ordinal <= t.ToRide
}

// DefaultPolicy mirrors the published fare schedule.
func DefaultPolicy() Policy {
	return Policy{
		Ceiling:        decimal.NewFromInt(56000),
		OverdraftFloor: decimal.NewFromInt(-1200),
		Denominations: []decimal.Decimal{
			decimal.NewFromInt(2000), decimal.NewFromInt(3000), decimal.NewFromInt(4000),
			decimal.NewFromInt(5000), decimal.NewFromInt(8000), decimal.NewFromInt(10000),
			decimal.NewFromInt(15000), decimal.NewFromInt(20000), decimal.NewFromInt(25000),
			decimal.NewFromInt(30000),
		},
		Precision:    2,
		StandardFare: decimal.NewFromInt(1580),
		FrequencyTiers: []FrequencyTier{
			{FromRide: 30, ToRide: 59, Multiplier: decimal.RequireFromString("0.80")},
			{FromRide: 60, ToRide: 80, Multiplier: decimal.RequireFromString("0.75")},
		},
		FranchiseStartHour:  6,
		FranchiseEndHour:    22,
		HalfFareRidesPerDay: 2,
		HalfFareMinInterval: 5 * time.Minute,
		FreeRidesPerDay:     2,
	}
}

// Accepts reports whether amount is one of the accepted load denominations.
func (p Policy) Accepts(amount decimal.Decimal) bool {
	for _, d := range p.Denominations {
		if d.Equal(amount) {
			return true
		}
	}
	return false
}

// Multiplier returns the frequency multiplier for the given monthly ordinal.
func (p Policy) Multiplier(ordinal int) decimal.Decimal {
	for _, tier := range p.FrequencyTiers {
		if tier.Contains(ordinal) {
			return tier.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}

// IsAllowedNow is the franchise eligibility window: weekdays only, within
// [FranchiseStartHour, FranchiseEndHour).
func (p Policy) IsAllowedNow(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := t.Hour()
	return hour >= p.FranchiseStartHour && hour < p.FranchiseEndHour
}
