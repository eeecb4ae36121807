// Package logger builds the process zap logger and the field helpers fare
// components use to tag log lines with card, route and trace identifiers.
package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Service     string
	Environment string
	Version     string

	// Level is a zap level name; empty means info, or debug when Debug is set.
	Level  string
	Format string
	Debug  bool

	Sampling Sampling
}

// Sampling bounds repeated identical log lines per Tick. Zero values take the
// defaults of 100 first, then every 100th, per second.
type Sampling struct {
	First      int
	Thereafter int
	Tick       time.Duration
}

func (s Sampling) withDefaults() Sampling {
	if s.First <= 0 {
		s.First = 100
	}
	if s.Thereafter <= 0 {
		s.Thereafter = 100
	}
	if s.Tick <= 0 {
		s.Tick = time.Second
	}
	return s
}

// New builds the logger, installs it as the zap global and flushes it when
// the app stops.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = encoding(cfg.Format)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.Sampling = nil

	sampling := cfg.Sampling.withDefaults()
	opts := []zap.Option{
		zap.AddCaller(),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, sampling.Tick, sampling.First, sampling.Thereafter)
		}),
	}
	if cfg.Debug {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	log, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	log = log.With(serviceFields(cfg)...)
	zap.ReplaceGlobals(log)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				// Sync on stdout returns EINVAL on some platforms.
				_ = log.Sync()
				return nil
			},
		})
	}
	return log, nil
}

func parseLevel(cfg Config) (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Level))
	switch {
	case name != "":
	case cfg.Debug:
		name = "debug"
	default:
		name = "info"
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func encoding(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return "console"
	}
	return "json"
}

func serviceFields(cfg Config) []zap.Field {
	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = "transitfare"
	}
	return []zap.Field{
		zap.String("service", service),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	}
}

// FromContext is the global logger tagged with the span in ctx.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext tags base with the trace and span ids in ctx. Both are empty
// strings outside a span.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return base.With(zap.String("trace_id", ""), zap.String("span_id", ""))
	}
	return base.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

func WithCard(log *zap.Logger, cardID int64, kind string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(
		zap.Int64("card_id", cardID),
		zap.String("card_kind", strings.TrimSpace(kind)),
	)
}

func WithRoute(log *zap.Logger, route string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(zap.String("route", strings.TrimSpace(route)))
}
