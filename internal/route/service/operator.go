package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	carddomain "github.com/smallbiznis/transitfare/internal/card/domain"
	cardservice "github.com/smallbiznis/transitfare/internal/card/service"
	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/observability/logger"
	"github.com/smallbiznis/transitfare/internal/observability/metrics"
	"github.com/smallbiznis/transitfare/internal/route/domain"
	"github.com/smallbiznis/transitfare/internal/ticket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Operator struct {
	route    string
	class    domain.ServiceClass
	baseFare decimal.Decimal
	transfer domain.TransferRules

	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
	serials *snowflake.Node
	tracer  trace.Tracer
}

var _ domain.Operator = (*Operator)(nil)

type OperatorParam struct {
	Route    string
	Class    domain.ServiceClass
	BaseFare decimal.Decimal
	Transfer domain.TransferRules

	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Serials *snowflake.Node
}

func NewOperator(p OperatorParam) (*Operator, error) {
	route := strings.TrimSpace(p.Route)
	if route == "" {
		return nil, domain.ErrInvalidRoute
	}
	if p.BaseFare.IsNegative() {
		return nil, fmt.Errorf("%w: route %s base fare %s", domain.ErrInvalidFare, route, p.BaseFare)
	}
	if p.Clock == nil {
		return nil, fmt.Errorf("route %s: nil clock", route)
	}
	if p.Serials == nil {
		return nil, fmt.Errorf("route %s: nil serial generator", route)
	}
	class := p.Class
	if class == "" {
		class = domain.ClassUrban
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Operator{
		route:    route,
		class:    class,
		baseFare: p.BaseFare,
		transfer: p.Transfer,
		clock:    p.Clock,
		log:      logger.WithRoute(log.Named("route.operator"), route),
		metrics:  p.Metrics,
		serials:  p.Serials,
		tracer:   otel.Tracer("transitfare/route"),
	}, nil
}

func (o *Operator) Route() string              { return o.route }
func (o *Operator) Class() domain.ServiceClass { return o.class }
func (o *Operator) BaseFare() decimal.Decimal  { return o.baseFare }

// IsTransfer reports whether the next ride of inst on this route is a free
// transfer from a ride on another route.
func (o *Operator) IsTransfer(inst carddomain.Instrument) bool {
	if isNil(inst) {
		return false
	}
	at, route, ok := inst.LastRide()
	if !ok || route == o.route {
		return false
	}
	return o.transfer.Allows(at, o.clock.Now())
}

// Pay charges one ride and returns its ticket. A refused charge leaves the
// instrument untouched and returns an error wrapping
// carddomain.ErrIneligibleCharge and the reason.
func (o *Operator) Pay(ctx context.Context, inst carddomain.Instrument) (ticket.Ticket, error) {
	ctx, span := o.tracer.Start(ctx, "route.pay", trace.WithAttributes(
		attribute.String("route", o.route),
		attribute.String("service_class", string(o.class)),
	))
	defer span.End()

	if isNil(inst) {
		span.SetStatus(codes.Error, domain.ErrNilInstrument.Error())
		return ticket.Ticket{}, domain.ErrNilInstrument
	}

	kind := inst.Kind().String()
	log := logger.WithCard(logger.WithContext(ctx, o.log), inst.ID(), kind)
	span.SetAttributes(
		attribute.Int64("card_id", inst.ID()),
		attribute.String("card_kind", kind),
	)

	transfer := o.IsTransfer(inst)
	fare := decimal.Zero
	if !transfer {
		fare = inst.CalculateFare(o.baseFare)
	}

	params := ticket.Params{
		Fare:     fare,
		Route:    o.route,
		CardKind: kind,
		CardID:   inst.ID(),
		Transfer: transfer,
	}
	if err := params.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ticket.Ticket{}, err
	}

	before := inst.Balance()
	if err := inst.Charge(fare); err != nil {
		reason := carddomain.RejectionReason(err)
		if errors.Is(err, carddomain.ErrInvalidAmount) {
			reason = carddomain.ErrInvalidAmount.Error()
		}
		o.metrics.RecordRejection(ctx, o.route, kind, reason)
		span.SetStatus(codes.Error, reason)
		log.Info("ride rejected",
			zap.String("reason", reason),
			zap.String("fare", fare.String()),
			zap.String("balance", before.String()),
		)
		return ticket.Ticket{}, err
	}

	after := inst.Balance()
	inst.RegisterRide(o.route)

	params.Serial = o.serials.Generate()
	params.IssuedAt = o.clock.Now()
	params.BalanceAfter = after
	params.TotalPaid = before.Sub(after)
	// params were validated before the charge.
	t, _ := ticket.New(params)

	o.metrics.RecordRide(ctx, o.route, kind, transfer, fare.InexactFloat64())
	span.SetAttributes(
		attribute.Bool("transfer", transfer),
		attribute.String("fare", fare.String()),
	)
	log.Debug("ride paid",
		zap.String("serial", t.Serial().String()),
		zap.Bool("transfer", transfer),
		zap.String("fare", fare.String()),
		zap.String("balance", after.String()),
	)
	return t, nil
}

// TryPay is Pay for callers that only need to know whether the ride went
// through.
func (o *Operator) TryPay(ctx context.Context, inst carddomain.Instrument) (ticket.Ticket, bool) {
	t, err := o.Pay(ctx, inst)
	if err != nil {
		return ticket.Ticket{}, false
	}
	return t, true
}

// isNil also catches a nil card wrapped in a non-nil Instrument.
func isNil(inst carddomain.Instrument) bool {
	if inst == nil {
		return true
	}
	c, ok := inst.(*cardservice.Card)
	return ok && c == nil
}
