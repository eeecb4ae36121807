package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/card/domain"
)

// dailyFree rides at no cost a fixed number of times per day, then pays the
// base fare from balance.
type dailyFree struct {
	free dailyCounter
}

func (d *dailyFree) fare(c *Card, base decimal.Decimal, now time.Time) decimal.Decimal {
	if d.free.at(now) >= c.policy.FreeRidesPerDay {
		return base
	}
	return decimal.Zero
}

func (d *dailyFree) eligible(c *Card, amount decimal.Decimal, now time.Time) error {
	if !c.policy.IsAllowedNow(now) {
		return domain.ErrOutsideFranchiseWindow
	}
	if amount.IsZero() {
		return nil
	}
	return c.checkBalance(amount)
}

func (d *dailyFree) charged(_ *Card, amount decimal.Decimal, now time.Time) {
	d.free.refresh(now)
	if amount.IsZero() {
		d.free.count++
	}
	d.free.stamp(now)
}

// alwaysFree never pays; it is only bound by the franchise window.
type alwaysFree struct{}

func (alwaysFree) fare(*Card, decimal.Decimal, time.Time) decimal.Decimal {
	return decimal.Zero
}

func (alwaysFree) eligible(c *Card, _ decimal.Decimal, now time.Time) error {
	if !c.policy.IsAllowedNow(now) {
		return domain.ErrOutsideFranchiseWindow
	}
	return nil
}

func (alwaysFree) charged(*Card, decimal.Decimal, time.Time) {}
