package metrics

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics exposes fare engine instruments.
type Metrics struct {
	rides      metric.Int64Counter
	fareAmount metric.Float64Counter
	rejections metric.Int64Counter
	loads      metric.Int64Counter
}

// New registers the fare instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg.ServiceName))

	rides, err := meter.Int64Counter("transitfare_rides_total",
		metric.WithDescription("Rides paid, transfers included."))
	if err != nil {
		return nil, err
	}
	fareAmount, err := meter.Float64Counter("transitfare_fare_amount_total",
		metric.WithDescription("Sum of fares charged."))
	if err != nil {
		return nil, err
	}
	rejections, err := meter.Int64Counter("transitfare_ride_rejections_total",
		metric.WithDescription("Payment attempts refused by the card."))
	if err != nil {
		return nil, err
	}
	loads, err := meter.Int64Counter("transitfare_loads_total",
		metric.WithDescription("Load attempts by outcome."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		rides:      rides,
		fareAmount: fareAmount,
		rejections: rejections,
		loads:      loads,
	}, nil
}

// RecordRide counts a completed ride and the fare it was charged.
func (m *Metrics) RecordRide(ctx context.Context, route, cardKind string, transfer bool, fare float64) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("route", strings.TrimSpace(route)),
		attribute.String("card_kind", strings.TrimSpace(cardKind)),
		attribute.Bool("transfer", transfer),
	)
	m.rides.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.fareAmount.Add(ctx, fare, metric.WithAttributes(attrs...))
}

// RecordRejection counts a refused payment attempt.
func (m *Metrics) RecordRejection(ctx context.Context, route, cardKind, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("route", strings.TrimSpace(route)),
		attribute.String("card_kind", strings.TrimSpace(cardKind)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rejections.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLoad counts a load attempt by outcome.
func (m *Metrics) RecordLoad(ctx context.Context, cardKind, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("card_kind", strings.TrimSpace(cardKind)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.loads.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"route":     {},
	"card_kind": {},
	"transfer":  {},
	"reason":    {},
	"status":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
