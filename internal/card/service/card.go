package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/clock"
)

// Card is a stored-value fare instrument. Its kind-specific fare and
// eligibility rules are delegated to a franchise strategy.
//
// A Card is not safe for concurrent use.
type Card struct {
	id        int64
	kind      domain.Kind
	policy    domain.Policy
	clock     clock.Clock
	franchise franchise

	balance       decimal.Decimal
	pendingCredit decimal.Decimal

	monthlyRides    int
	lastMonthlyRide *time.Time

	lastRideAt    *time.Time
	lastRideRoute string
}

var _ domain.Instrument = (*Card)(nil)

// NewCard builds a card with an already allocated id. Most callers should go
// through Issuer.
func NewCard(id int64, kind domain.Kind, policy domain.Policy, clk clock.Clock) (*Card, error) {
	if clk == nil {
		return nil, fmt.Errorf("card %d: nil clock", id)
	}
	f, err := newFranchise(kind)
	if err != nil {
		return nil, err
	}
	return &Card{
		id:            id,
		kind:          kind,
		policy:        policy,
		clock:         clk,
		franchise:     f,
		balance:       decimal.Zero,
		pendingCredit: decimal.Zero,
	}, nil
}

func (c *Card) ID() int64             { return c.id }
func (c *Card) Kind() domain.Kind     { return c.kind }
func (c *Card) Policy() domain.Policy { return c.policy }

func (c *Card) Balance() decimal.Decimal        { return c.balance }
func (c *Card) PendingCredit() decimal.Decimal  { return c.pendingCredit }
func (c *Card) OverdraftFloor() decimal.Decimal { return c.policy.OverdraftFloor }

// MonthlyRideCount applies the month rollover before reporting.
func (c *Card) MonthlyRideCount() int {
	c.refreshMonthly(c.clock.Now())
	return c.monthlyRides
}

func (c *Card) LastRide() (time.Time, string, bool) {
	if c.lastRideAt == nil {
		return time.Time{}, "", false
	}
	return *c.lastRideAt, c.lastRideRoute, true
}

// Load credits an accepted denomination. Whatever would exceed the ceiling is
// parked as pending credit instead of being rejected.
func (c *Card) Load(amount decimal.Decimal) error {
	if !c.policy.Accepts(amount) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}

	next := c.balance.Add(amount)
	if next.GreaterThan(c.policy.Ceiling) {
		c.pendingCredit = c.pendingCredit.Add(next.Sub(c.policy.Ceiling))
		c.balance = c.policy.Ceiling
		return nil
	}
	c.balance = next
	return nil
}

// AdmitPendingCredit moves as much pending credit into the balance as the
// ceiling allows.
func (c *Card) AdmitPendingCredit() {
	if !c.pendingCredit.IsPositive() {
		return
	}
	room := c.policy.Ceiling.Sub(c.balance)
	if !room.IsPositive() {
		return
	}
	admitted := decimal.Min(c.pendingCredit, room)
	c.balance = c.balance.Add(admitted)
	c.pendingCredit = c.pendingCredit.Sub(admitted)
}

func (c *Card) CanCharge(amount decimal.Decimal) bool {
	return c.eligibility(amount) == nil
}

// Charge debits amount. On failure nothing is mutated and the error wraps
// both domain.ErrIneligibleCharge and the specific reason.
func (c *Card) Charge(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative charge %s", domain.ErrInvalidAmount, amount)
	}
	if err := c.eligibility(amount); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIneligibleCharge, err)
	}

	now := c.clock.Now()
	c.balance = c.balance.Sub(amount)
	c.recordMonthlyRide(now)
	c.AdmitPendingCredit()
	c.franchise.charged(c, amount, now)
	return nil
}

// CalculateFare quotes the next ride without changing any card state.
func (c *Card) CalculateFare(baseFare decimal.Decimal) decimal.Decimal {
	return c.franchise.fare(c, baseFare, c.clock.Now()).Round(c.policy.Precision)
}

func (c *Card) RegisterRide(route string) {
	now := c.clock.Now()
	c.lastRideAt = &now
	c.lastRideRoute = route
}

func (c *Card) eligibility(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	return c.franchise.eligible(c, amount, c.clock.Now())
}

// checkBalance is the base overdraft rule shared by every kind.
func (c *Card) checkBalance(amount decimal.Decimal) error {
	if c.balance.Sub(amount).LessThan(c.policy.OverdraftFloor) {
		return domain.ErrOverdraftExceeded
	}
	return nil
}

// frequencyFare prices the upcoming ride as ordinal monthlyRides+1.
func (c *Card) frequencyFare(base decimal.Decimal, now time.Time) decimal.Decimal {
	return base.Mul(c.policy.Multiplier(c.monthlyRidesAt(now) + 1))
}

func (c *Card) refreshMonthly(now time.Time) {
	c.monthlyRides = c.monthlyRidesAt(now)
}

// monthlyRidesAt is the ride count of now's month without applying the
// rollover.
func (c *Card) monthlyRidesAt(now time.Time) int {
	if c.lastMonthlyRide == nil {
		return 0
	}
	last := *c.lastMonthlyRide
	if last.Year() != now.Year() || last.Month() != now.Month() {
		return 0
	}
	return c.monthlyRides
}

func (c *Card) recordMonthlyRide(now time.Time) {
	c.refreshMonthly(now)
	c.monthlyRides++
	c.lastMonthlyRide = &now
}
