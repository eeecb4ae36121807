package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/card/domain"
)

// franchise is the per-kind part of a card: how a ride is priced, what must
// hold before a charge, and the bookkeeping after one.
type franchise interface {
	fare(c *Card, base decimal.Decimal, now time.Time) decimal.Decimal
	eligible(c *Card, amount decimal.Decimal, now time.Time) error
	charged(c *Card, amount decimal.Decimal, now time.Time)
}

func newFranchise(kind domain.Kind) (franchise, error) {
	switch kind {
	case domain.KindStandard:
		return standard{}, nil
	case domain.KindHalfFare:
		return &halfFare{}, nil
	case domain.KindDailyFree:
		return &dailyFree{}, nil
	case domain.KindAlwaysFree:
		return alwaysFree{}, nil
	default:
		return nil, domain.ErrUnknownKind
	}
}

type standard struct{}

func (standard) fare(c *Card, base decimal.Decimal, now time.Time) decimal.Decimal {
	return c.frequencyFare(base, now)
}

func (standard) eligible(c *Card, amount decimal.Decimal, _ time.Time) error {
	return c.checkBalance(amount)
}

func (standard) charged(*Card, decimal.Decimal, time.Time) {}

// dailyCounter counts rides per calendar day and resets on the first
// operation seen on a later day.
type dailyCounter struct {
	count   int
	lastDay *time.Time
}

func (d *dailyCounter) refresh(now time.Time) {
	d.count = d.at(now)
}

// at is the count as seen at now, without applying the rollover.
func (d *dailyCounter) at(now time.Time) int {
	if d.lastDay == nil || dayKey(now) > dayKey(*d.lastDay) {
		return 0
	}
	return d.count
}

func (d *dailyCounter) stamp(now time.Time) {
	d.lastDay = &now
}

func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
