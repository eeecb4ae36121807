// Package ticket holds the immutable record emitted for every ride.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DateLayout is the rendering layout for ticket instants.
const DateLayout = "02/01/2006 15:04:05"

// Ticket is a value; copies never share mutable state.
type Ticket struct {
	serial       snowflake.ID
	issuedAt     time.Time
	fare         decimal.Decimal
	balanceAfter decimal.Decimal
	route        string
	cardKind     string
	totalPaid    decimal.Decimal
	cardID       int64
	transfer     bool
}

type Params struct {
	Serial       snowflake.ID
	IssuedAt     time.Time
	Fare         decimal.Decimal
	BalanceAfter decimal.Decimal
	Route        string
	CardKind     string
	TotalPaid    decimal.Decimal
	CardID       int64
	Transfer     bool
}

// Validate reports whether New would accept p.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Route) == "" {
		return ErrMissingRoute
	}
	return nil
}

func New(p Params) (Ticket, error) {
	if err := p.Validate(); err != nil {
		return Ticket{}, err
	}
	route := strings.TrimSpace(p.Route)
	kind := p.CardKind
	if kind == "" {
		kind = "standard"
	}
	return Ticket{
		serial:       p.Serial,
		issuedAt:     p.IssuedAt,
		fare:         p.Fare,
		balanceAfter: p.BalanceAfter,
		route:        route,
		cardKind:     kind,
		totalPaid:    p.TotalPaid,
		cardID:       p.CardID,
		transfer:     p.Transfer,
	}, nil
}

func (t Ticket) Serial() snowflake.ID          { return t.serial }
func (t Ticket) IssuedAt() time.Time           { return t.issuedAt }
func (t Ticket) Fare() decimal.Decimal         { return t.fare }
func (t Ticket) BalanceAfter() decimal.Decimal { return t.balanceAfter }
func (t Ticket) Route() string                 { return t.route }
func (t Ticket) CardKind() string              { return t.cardKind }
func (t Ticket) TotalPaid() decimal.Decimal    { return t.totalPaid }
func (t Ticket) CardID() int64                 { return t.cardID }
func (t Ticket) IsTransfer() bool              { return t.transfer }

func (t Ticket) String() string {
	marker := ""
	if t.transfer {
		marker = " [TRANSFER]"
	}
	return fmt.Sprintf("Ticket%s - Route: %s, Date: %s, Kind: %s, Fare: %s, Total paid: %s, Balance: %s, Card ID: %d",
		marker,
		t.route,
		t.issuedAt.Format(DateLayout),
		t.cardKind,
		t.fare.String(),
		t.totalPaid.String(),
		t.balanceAfter.String(),
		t.cardID,
	)
}

// Response is the JSON view handed to collaborators.
type Response struct {
	Serial       string    `json:"serial"`
	IssuedAt     time.Time `json:"issued_at"`
	Fare         string    `json:"fare"`
	BalanceAfter string    `json:"balance_after"`
	Route        string    `json:"route"`
	CardKind     string    `json:"card_kind"`
	TotalPaid    string    `json:"total_paid"`
	CardID       int64     `json:"card_id"`
	Transfer     bool      `json:"transfer"`
}

func (t Ticket) Response() Response {
	return Response{
		Serial:       t.serial.String(),
		IssuedAt:     t.issuedAt,
		Fare:         t.fare.String(),
		BalanceAfter: t.balanceAfter.String(),
		Route:        t.route,
		CardKind:     t.cardKind,
		TotalPaid:    t.totalPaid.String(),
		CardID:       t.cardID,
		Transfer:     t.transfer,
	}
}
