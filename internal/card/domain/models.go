// Package domain defines the fare instrument contract shared by cards and
// route operators.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the closed set of fare instrument variants.
type Kind int

const (
	KindStandard Kind = iota
	KindHalfFare
	KindDailyFree
	KindAlwaysFree
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindHalfFare:
		return "half_fare"
	case KindDailyFree:
		return "daily_free"
	case KindAlwaysFree:
		return "always_free"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "standard", "":
		return KindStandard, nil
	case "half_fare":
		return KindHalfFare, nil
	case "daily_free":
		return KindDailyFree, nil
	case "always_free":
		return KindAlwaysFree, nil
	default:
		return 0, ErrUnknownKind
	}
}

// Instrument is what a route operator needs from a card.
type Instrument interface {
	ID() int64
	Kind() Kind

	Balance() decimal.Decimal
	PendingCredit() decimal.Decimal
	OverdraftFloor() decimal.Decimal
	MonthlyRideCount() int
	// LastRide reports the most recent registered ride; ok is false before
	// the first one.
	LastRide() (at time.Time, route string, ok bool)

	Load(amount decimal.Decimal) error
	AdmitPendingCredit()
	CanCharge(amount decimal.Decimal) bool
	Charge(amount decimal.Decimal) error
	// CalculateFare is a pure quote; only Charge mutates the instrument.
	CalculateFare(baseFare decimal.Decimal) decimal.Decimal
	RegisterRide(route string)
}
