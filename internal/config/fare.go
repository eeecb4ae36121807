package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FareConfig is the tunable fare policy: balance limits, accepted loads,
// discount tiers, franchise limits, transfer rules and the route catalogue.
type FareConfig struct {
	Ceiling        int64   `mapstructure:"ceiling"`
	OverdraftFloor int64   `mapstructure:"overdraftFloor"`
	Denominations  []int64 `mapstructure:"denominations"`
	Precision      int32   `mapstructure:"precision"`

	StandardFare   int64 `mapstructure:"standardFare"`
	InterurbanFare int64 `mapstructure:"interurbanFare"`

	FrequencyTiers  []FrequencyTier `mapstructure:"frequencyTiers"`
	FranchiseWindow HourWindow      `mapstructure:"franchiseWindow"`
	HalfFare        HalfFareConfig  `mapstructure:"halfFare"`
	DailyFree       DailyFreeConfig `mapstructure:"dailyFree"`
	Transfer        TransferConfig  `mapstructure:"transfer"`

	Routes []RouteConfig `mapstructure:"routes"`
}

// FrequencyTier applies Multiplier to rides whose monthly ordinal falls in
// [FromRide, ToRide]. ToRide 0 means unbounded.
type FrequencyTier struct {
	FromRide   int    `mapstructure:"fromRide"`
	ToRide     int    `mapstructure:"toRide"`
	Multiplier string `mapstructure:"multiplier"`
}

// HourWindow is a half-open [StartHour, EndHour) range of local hours.
type HourWindow struct {
	StartHour int `mapstructure:"startHour"`
	EndHour   int `mapstructure:"endHour"`
}

type HalfFareConfig struct {
	DiscountedRidesPerDay int           `mapstructure:"discountedRidesPerDay"`
	MinInterval           time.Duration `mapstructure:"minInterval"`
}

type DailyFreeConfig struct {
	FreeRidesPerDay int `mapstructure:"freeRidesPerDay"`
}

type TransferConfig struct {
	Window time.Duration `mapstructure:"window"`
	Hours  HourWindow    `mapstructure:"hours"`
}

type RouteConfig struct {
	ID    string `mapstructure:"id"`
	Class string `mapstructure:"class"`
}

const (
	RouteClassUrban      = "urban"
	RouteClassInterurban = "interurban"
)

func DefaultFareConfig() FareConfig {
	return FareConfig{
		Ceiling:        56000,
		OverdraftFloor: -1200,
		Denominations:  []int64{2000, 3000, 4000, 5000, 8000, 10000, 15000, 20000, 25000, 30000},
		Precision:      2,
		StandardFare:   1580,
		InterurbanFare: 3000,
		FrequencyTiers: []FrequencyTier{
			{FromRide: 30, ToRide: 59, Multiplier: "0.80"},
			{FromRide: 60, ToRide: 80, Multiplier: "0.75"},
		},
		FranchiseWindow: HourWindow{StartHour: 6, EndHour: 22},
		HalfFare: HalfFareConfig{
			DiscountedRidesPerDay: 2,
			MinInterval:           5 * time.Minute,
		},
		DailyFree: DailyFreeConfig{FreeRidesPerDay: 2},
		Transfer: TransferConfig{
			Window: time.Hour,
			Hours:  HourWindow{StartHour: 7, EndHour: 22},
		},
		Routes: []RouteConfig{
			{ID: "102 Rojo", Class: RouteClassUrban},
			{ID: "121 Verde", Class: RouteClassUrban},
			{ID: "K", Class: RouteClassUrban},
			{ID: "Galvez", Class: RouteClassInterurban},
		},
	}
}

type FareConfigHolder struct {
	current atomic.Value // holds FareConfig
}

// NewFareConfigHolder reads fare.yml from the usual locations, falling back to
// DefaultFareConfig when no file exists, and reloads it on change.
func NewFareConfigHolder(log *zap.Logger) (*FareConfigHolder, error) {
	return newFareConfigHolder(log, strings.TrimSpace(os.Getenv("TRANSITFARE_FARE_CONFIG")))
}

// NewStaticFareConfigHolder wraps a fixed config. It does not watch any file.
func NewStaticFareConfigHolder(cfg FareConfig) (*FareConfigHolder, error) {
	if err := ValidateFareConfig(cfg); err != nil {
		return nil, err
	}
	holder := &FareConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func newFareConfigHolder(log *zap.Logger, file string) (*FareConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.fare")

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("fare")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/transitfare")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("TRANSITFARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
		log.Info("fare config not found, using defaults")
	}

	cfg, err := decodeFareConfig(v)
	if err != nil {
		return nil, err
	}

	holder := &FareConfigHolder{}
	holder.current.Store(cfg)

	if watch {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeFareConfig(v)
			if err != nil {
				log.Warn("fare config reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("fare config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func decodeFareConfig(v *viper.Viper) (FareConfig, error) {
	cfg := DefaultFareConfig()
	if v.IsSet("fare") {
		if err := v.UnmarshalKey("fare", &cfg); err != nil {
			return FareConfig{}, err
		}
	}
	if err := ValidateFareConfig(cfg); err != nil {
		return FareConfig{}, err
	}
	return cfg, nil
}

func (h *FareConfigHolder) Current() FareConfig {
	return h.current.Load().(FareConfig)
}

func ValidateFareConfig(cfg FareConfig) error {
	if cfg.Ceiling <= 0 {
		return errors.New("fare.ceiling must be positive")
	}
	if cfg.OverdraftFloor > 0 {
		return errors.New("fare.overdraftFloor cannot be positive")
	}
	if len(cfg.Denominations) == 0 {
		return errors.New("fare.denominations cannot be empty")
	}
	for _, d := range cfg.Denominations {
		if d <= 0 {
			return fmt.Errorf("fare.denominations: invalid amount %d", d)
		}
	}
	if cfg.Precision < 0 {
		return errors.New("fare.precision cannot be negative")
	}
	if cfg.StandardFare <= 0 || cfg.InterurbanFare <= 0 {
		return errors.New("fare base fares must be positive")
	}
	for i, tier := range cfg.FrequencyTiers {
		if tier.FromRide < 1 {
			return fmt.Errorf("fare.frequencyTiers[%d]: fromRide must be >= 1", i)
		}
		if tier.ToRide != 0 && tier.ToRide < tier.FromRide {
			return fmt.Errorf("fare.frequencyTiers[%d]: toRide before fromRide", i)
		}
		m, err := decimal.NewFromString(tier.Multiplier)
		if err != nil {
			return fmt.Errorf("fare.frequencyTiers[%d]: %w", i, err)
		}
		if m.IsNegative() {
			return fmt.Errorf("fare.frequencyTiers[%d]: negative multiplier", i)
		}
	}
	if err := validateHours("fare.franchiseWindow", cfg.FranchiseWindow); err != nil {
		return err
	}
	if err := validateHours("fare.transfer.hours", cfg.Transfer.Hours); err != nil {
		return err
	}
	if cfg.HalfFare.DiscountedRidesPerDay < 0 || cfg.DailyFree.FreeRidesPerDay < 0 {
		return errors.New("fare daily ride limits cannot be negative")
	}
	if cfg.HalfFare.MinInterval < 0 || cfg.Transfer.Window < 0 {
		return errors.New("fare durations cannot be negative")
	}
	seen := make(map[string]struct{}, len(cfg.Routes))
	for _, r := range cfg.Routes {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return errors.New("fare.routes: empty route id")
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("fare.routes: duplicate route %q", id)
		}
		seen[id] = struct{}{}
		switch r.Class {
		case RouteClassUrban, RouteClassInterurban:
		default:
			return fmt.Errorf("fare.routes: route %q has unknown class %q", id, r.Class)
		}
	}
	return nil
}

func validateHours(key string, w HourWindow) error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%s: invalid hours [%d, %d)", key, w.StartHour, w.EndHour)
	}
	return nil
}
