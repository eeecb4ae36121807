package observability

import (
	"strings"

	"github.com/smallbiznis/transitfare/internal/config"
	"github.com/spf13/viper"
)

// Config is the logging and OpenTelemetry setup. Process identity comes from
// config.Config; everything else can be overridden from the environment.
type Config struct {
	Service     string
	Environment string
	Version     string

	Log  LogConfig
	Otel OtelConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type OtelConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// Debug is true for an explicit debug level or any development environment.
func (c Config) Debug() bool {
	if strings.EqualFold(c.Log.Level, "debug") {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

var envBindings = map[string]string{
	"environment":         "DEPLOYMENT_ENV",
	"version":             "SERVICE_VERSION",
	"log.level":           "LOG_LEVEL",
	"log.format":          "LOG_FORMAT",
	"otel.enabled":        "OTEL_ENABLED",
	"otel.endpoint":       "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otel.protocol":       "OTEL_EXPORTER_OTLP_PROTOCOL",
	"otel.sampling_ratio": "OTEL_SAMPLING_RATIO",
}

func LoadConfig(app config.Config) Config {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	v.SetDefault("environment", app.Environment)
	v.SetDefault("version", app.AppVersion)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", app.OTLPEndpoint)
	v.SetDefault("otel.protocol", "grpc")
	v.SetDefault("otel.sampling_ratio", 0.1)

	service := strings.TrimSpace(app.AppName)
	if service == "" {
		service = "transitfare"
	}

	return Config{
		Service:     service,
		Environment: strings.TrimSpace(v.GetString("environment")),
		Version:     strings.TrimSpace(v.GetString("version")),
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
		Otel: OtelConfig{
			Enabled:       v.GetBool("otel.enabled"),
			Endpoint:      strings.TrimSpace(v.GetString("otel.endpoint")),
			Protocol:      strings.ToLower(strings.TrimSpace(v.GetString("otel.protocol"))),
			SamplingRatio: v.GetFloat64("otel.sampling_ratio"),
		},
	}
}
