package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	carddomain "github.com/smallbiznis/transitfare/internal/card/domain"
	cardservice "github.com/smallbiznis/transitfare/internal/card/service"
	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/journey/domain"
	"github.com/smallbiznis/transitfare/internal/observability/logger"
	"github.com/smallbiznis/transitfare/internal/observability/metrics"
	routeservice "github.com/smallbiznis/transitfare/internal/route/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const localLayout = "2006-01-02 15:04:05"

// Replayer runs a journey against freshly issued cards and the route fleet.
type Replayer struct {
	log     *zap.Logger
	clock   clock.Clock
	issuer  *cardservice.Issuer
	fleet   *routeservice.Fleet
	metrics *metrics.Metrics
}

type ReplayerParam struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Issuer  *cardservice.Issuer
	Fleet   *routeservice.Fleet
	Metrics *metrics.Metrics `optional:"true"`
}

func NewReplayer(p ReplayerParam) *Replayer {
	return &Replayer{
		log:     p.Log.Named("journey.replayer"),
		clock:   p.Clock,
		issuer:  p.Issuer,
		fleet:   p.Fleet,
		metrics: p.Metrics,
	}
}

// Replay issues the journey's cards and applies its events in order. Refused
// loads and rides are reported as entries; malformed journeys, unknown routes
// and timestamps on a real clock abort the replay.
func (r *Replayer) Replay(ctx context.Context, j domain.Journey) (domain.Report, error) {
	if err := Validate(j); err != nil {
		return domain.Report{}, err
	}

	cards := make(map[string]*cardservice.Card, len(j.Cards))
	for _, cs := range j.Cards {
		kind, err := carddomain.ParseKind(strings.TrimSpace(cs.Kind))
		if err != nil {
			return domain.Report{}, err
		}
		card, err := r.issuer.Issue(kind)
		if err != nil {
			return domain.Report{}, err
		}
		cards[strings.TrimSpace(cs.Name)] = card
	}

	report := domain.Report{Entries: make([]domain.Entry, 0, len(j.Events))}
	for i, ev := range j.Events {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.moveClock(ev); err != nil {
			return report, fmt.Errorf("events[%d]: %w", i, err)
		}

		name := strings.TrimSpace(ev.Card)
		card := cards[name]
		var entry domain.Entry
		if ev.Load != 0 {
			entry = r.load(ctx, name, card, ev.Load)
		} else {
			var err error
			entry, err = r.ride(ctx, name, card, strings.TrimSpace(ev.Ride))
			if err != nil {
				return report, fmt.Errorf("events[%d]: %w", i, err)
			}
		}
		report.Entries = append(report.Entries, entry)
	}

	r.log.Info("journey replayed",
		zap.Int("cards", len(cards)),
		zap.Int("events", len(report.Entries)),
		zap.Int("tickets", len(report.Tickets())),
		zap.Int("rejections", len(report.Rejections())),
	)
	return report, nil
}

func (r *Replayer) moveClock(ev domain.Event) error {
	at := strings.TrimSpace(ev.At)
	if at == "" && ev.Advance == 0 {
		return nil
	}
	fake, ok := r.clock.(*clock.FakeClock)
	if !ok {
		return domain.ErrClockNotControllable
	}
	if ev.Advance > 0 {
		fake.Advance(ev.Advance)
		return nil
	}
	t, err := parseInstant(at, fake.Now().Location())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidJourney, err)
	}
	fake.Set(t)
	return nil
}

// parseInstant accepts RFC 3339 or a local timestamp. Either way the result is
// expressed in loc so weekday and hour rules see local time.
func parseInstant(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(localLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

func (r *Replayer) load(ctx context.Context, name string, card *cardservice.Card, amount int64) domain.Entry {
	kind := card.Kind().String()
	entry := domain.Entry{
		At:     r.clock.Now(),
		Card:   name,
		Action: domain.ActionLoad,
		Amount: amount,
	}

	pendingBefore := card.PendingCredit()
	if err := card.Load(decimal.NewFromInt(amount)); err != nil {
		entry.Err = err
		r.metrics.RecordLoad(ctx, kind, "rejected")
		logger.WithCard(r.log, card.ID(), kind).Info("load rejected",
			zap.String("card", name),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return entry
	}

	status := "accepted"
	if card.PendingCredit().GreaterThan(pendingBefore) {
		status = "pending"
	}
	r.metrics.RecordLoad(ctx, kind, status)
	return entry
}

func (r *Replayer) ride(ctx context.Context, name string, card *cardservice.Card, route string) (domain.Entry, error) {
	op, err := r.fleet.Get(route)
	if err != nil {
		return domain.Entry{}, err
	}

	entry := domain.Entry{
		At:     r.clock.Now(),
		Card:   name,
		Action: domain.ActionRide,
		Route:  route,
	}
	t, err := op.Pay(ctx, card)
	if err != nil {
		if !errors.Is(err, carddomain.ErrIneligibleCharge) && !errors.Is(err, carddomain.ErrInvalidAmount) {
			return domain.Entry{}, err
		}
		entry.Err = err
		return entry, nil
	}
	entry.Ticket = &t
	return entry, nil
}
