package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	carddomain "github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/ticket"
)

// ServiceClass separates city lines from intercity ones. Both share the same
// fare orchestration and differ only in base fare.
type ServiceClass string

const (
	ClassUrban      ServiceClass = "urban"
	ClassInterurban ServiceClass = "interurban"
)

func ParseServiceClass(s string) (ServiceClass, error) {
	switch ServiceClass(strings.ToLower(strings.TrimSpace(s))) {
	case ClassUrban, "":
		return ClassUrban, nil
	case ClassInterurban:
		return ClassInterurban, nil
	default:
		return "", ErrInvalidServiceClass
	}
}

// TransferRules decide whether boarding a different route shortly after the
// previous ride is free.
type TransferRules struct {
	Window    time.Duration
	StartHour int
	EndHour   int
}

func DefaultTransferRules() TransferRules {
	return TransferRules{Window: time.Hour, StartHour: 7, EndHour: 22}
}

// Allows reports whether a ride at now continues a trip that started with a
// ride at prev. Sundays never allow transfers.
func (r TransferRules) Allows(prev, now time.Time) bool {
	elapsed := now.Sub(prev)
	if elapsed < 0 || elapsed >= r.Window {
		return false
	}
	if now.Weekday() == time.Sunday {
		return false
	}
	hour := now.Hour()
	return hour >= r.StartHour && hour < r.EndHour
}

// Operator collects fares for a single route.
type Operator interface {
	Route() string
	Class() ServiceClass
	BaseFare() decimal.Decimal
	IsTransfer(inst carddomain.Instrument) bool
	Pay(ctx context.Context, inst carddomain.Instrument) (ticket.Ticket, error)
	TryPay(ctx context.Context, inst carddomain.Instrument) (ticket.Ticket, bool)
}
