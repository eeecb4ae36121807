package observability

import (
	"github.com/smallbiznis/transitfare/internal/observability/logger"
	"github.com/smallbiznis/transitfare/internal/observability/metrics"
	"github.com/smallbiznis/transitfare/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		func(cfg Config) logger.Config {
			return logger.Config{
				Service:     cfg.Service,
				Environment: cfg.Environment,
				Version:     cfg.Version,
				Level:       cfg.Log.Level,
				Format:      cfg.Log.Format,
				Debug:       cfg.Debug(),
			}
		},
		logger.New,
		func(cfg Config) tracing.Config {
			return tracing.Config{
				Enabled:          cfg.Otel.Enabled,
				ServiceName:      cfg.Service,
				ServiceVersion:   cfg.Version,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.Otel.Endpoint,
				ExporterProtocol: cfg.Otel.Protocol,
				SamplingRatio:    cfg.Otel.SamplingRatio,
			}
		},
		tracing.NewProvider,
		func(cfg Config) metrics.Config {
			return metrics.Config{
				Enabled:          cfg.Otel.Enabled,
				ExporterEndpoint: cfg.Otel.Endpoint,
				ExporterProtocol: cfg.Otel.Protocol,
				ServiceName:      cfg.Service,
				Environment:      cfg.Environment,
			}
		},
		metrics.NewProvider,
		metrics.New,
	),
	fx.Invoke(routeOtelErrors),
)

// routeOtelErrors sends exporter and SDK errors to the app logger instead of
// the standard library logger. Depending on the tracer provider forces it to
// be built even when nothing else asks for it.
func routeOtelErrors(log *zap.Logger, _ trace.TracerProvider) {
	otelLog := log.Named("otel")
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		otelLog.Warn("opentelemetry error", zap.Error(err))
	}))
}
