package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/card/domain"
)

var two = decimal.NewFromInt(2)

// halfFare pays half of the base fare for a limited number of rides per day
// and refuses rides closer together than the policy's minimum interval.
type halfFare struct {
	discounted dailyCounter
	lastRideAt *time.Time
}

func (h *halfFare) fare(c *Card, base decimal.Decimal, now time.Time) decimal.Decimal {
	if h.discounted.at(now) >= c.policy.HalfFareRidesPerDay {
		return base
	}
	return base.Div(two)
}

func (h *halfFare) eligible(c *Card, amount decimal.Decimal, now time.Time) error {
	if !c.policy.IsAllowedNow(now) {
		return domain.ErrOutsideFranchiseWindow
	}
	if h.lastRideAt != nil && now.Sub(*h.lastRideAt) < c.policy.HalfFareMinInterval {
		return domain.ErrRideThrottled
	}
	return c.checkBalance(amount)
}

// charged uses up a discounted ride whenever less than the standard fare was
// taken. Zero-fare transfers count too.
func (h *halfFare) charged(c *Card, amount decimal.Decimal, now time.Time) {
	h.discounted.refresh(now)
	if amount.LessThan(c.policy.StandardFare) {
		h.discounted.count++
	}
	h.lastRideAt = &now
	h.discounted.stamp(now)
}
