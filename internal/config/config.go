package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load, NewFareConfigHolder),
)

// Config holds process-level configuration. Fare rules live in FareConfig.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	Timezone      string
	ClockMode     string
	SnowflakeNode int64
	JourneyFile   string

	OTLPEndpoint string
}

const (
	ClockModeReal = "real"
	ClockModeFake = "fake"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:       getenv("APP_SERVICE", "transitfare"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		Timezone:      getenv("TIMEZONE", "America/Argentina/Buenos_Aires"),
		ClockMode:     normalizeClockMode(getenv("CLOCK_MODE", ClockModeFake)),
		SnowflakeNode: getenvInt64("SNOWFLAKE_NODE", 1),
		JourneyFile:   strings.TrimSpace(getenv("JOURNEY_FILE", "journey.yml")),
		OTLPEndpoint:  getenv("OTLP_ENDPOINT", "localhost:4317"),
	}
}

func normalizeClockMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ClockModeReal:
		return ClockModeReal
	default:
		return ClockModeFake
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
