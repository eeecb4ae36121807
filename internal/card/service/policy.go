package service

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/config"
)

// ConfigPolicy reads the card policy from the live fare configuration.
type ConfigPolicy struct {
	Holder *config.FareConfigHolder
}

func (p ConfigPolicy) CardPolicy() domain.Policy {
	return PolicyFromConfig(p.Holder.Current())
}

// PolicyFromConfig converts a validated FareConfig into a card policy.
func PolicyFromConfig(cfg config.FareConfig) domain.Policy {
	denoms := make([]decimal.Decimal, 0, len(cfg.Denominations))
	for _, d := range cfg.Denominations {
		denoms = append(denoms, decimal.NewFromInt(d))
	}

	tiers := make([]domain.FrequencyTier, 0, len(cfg.FrequencyTiers))
	for _, t := range cfg.FrequencyTiers {
		m, err := decimal.NewFromString(t.Multiplier)
		if err != nil {
			// ValidateFareConfig rejects these; treat as no discount.
			m = decimal.NewFromInt(1)
		}
		tiers = append(tiers, domain.FrequencyTier{FromRide: t.FromRide, ToRide: t.ToRide, Multiplier: m})
	}

	return domain.Policy{
		Ceiling:             decimal.NewFromInt(cfg.Ceiling),
		OverdraftFloor:      decimal.NewFromInt(cfg.OverdraftFloor),
		Denominations:       denoms,
		Precision:           cfg.Precision,
		StandardFare:        decimal.NewFromInt(cfg.StandardFare),
		FrequencyTiers:      tiers,
		FranchiseStartHour:  cfg.FranchiseWindow.StartHour,
		FranchiseEndHour:    cfg.FranchiseWindow.EndHour,
		HalfFareRidesPerDay: cfg.HalfFare.DiscountedRidesPerDay,
		HalfFareMinInterval: cfg.HalfFare.MinInterval,
		FreeRidesPerDay:     cfg.DailyFree.FreeRidesPerDay,
	}
}
