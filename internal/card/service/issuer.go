package service

import (
	"sync/atomic"

	"github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// IDAllocator hands out strictly increasing card ids. It is safe for
// concurrent use.
type IDAllocator struct {
	last atomic.Int64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

func (a *IDAllocator) Next() int64 {
	return a.last.Add(1)
}

// PolicySource yields the policy new cards are issued with.
type PolicySource interface {
	CardPolicy() domain.Policy
}

// StaticPolicy is a PolicySource that never changes.
type StaticPolicy domain.Policy

func (p StaticPolicy) CardPolicy() domain.Policy { return domain.Policy(p) }

// Issuer creates cards. Every card gets the issuer's clock and a snapshot of
// the policy current at issue time.
type Issuer struct {
	log    *zap.Logger
	clock  clock.Clock
	ids    *IDAllocator
	policy PolicySource
}

type IssuerParam struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	IDs    *IDAllocator
	Policy PolicySource
}

func NewIssuer(p IssuerParam) *Issuer {
	ids := p.IDs
	if ids == nil {
		ids = NewIDAllocator()
	}
	return &Issuer{
		log:    p.Log.Named("card.issuer"),
		clock:  p.Clock,
		ids:    ids,
		policy: p.Policy,
	}
}

func (i *Issuer) Issue(kind domain.Kind) (*Card, error) {
	if _, err := newFranchise(kind); err != nil {
		return nil, err
	}
	card, err := NewCard(i.ids.Next(), kind, i.policy.CardPolicy(), i.clock)
	if err != nil {
		return nil, err
	}
	i.log.Debug("card issued",
		zap.Int64("card_id", card.ID()),
		zap.String("card_kind", kind.String()),
	)
	return card, nil
}
