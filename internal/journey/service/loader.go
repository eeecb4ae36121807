package service

import (
	"errors"
	"fmt"
	"strings"

	carddomain "github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/journey/domain"
	"github.com/spf13/viper"
)

// LoadFile reads a journey file. The format follows the file extension
// (yml, yaml, json, toml); the journey lives under the top-level "journey" key.
func LoadFile(path string) (domain.Journey, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Journey{}, fmt.Errorf("%w: empty journey path", domain.ErrInvalidJourney)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.Journey{}, fmt.Errorf("read journey %s: %w", path, err)
	}

	var j domain.Journey
	if err := v.UnmarshalKey("journey", &j); err != nil {
		return domain.Journey{}, fmt.Errorf("decode journey %s: %w", path, err)
	}
	if err := Validate(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// Validate checks card names, kinds and that every event does exactly one
// thing to a declared card.
func Validate(j domain.Journey) error {
	var errs []error

	cards := make(map[string]struct{}, len(j.Cards))
	for i, c := range j.Cards {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("cards[%d]: name is required", i))
			continue
		}
		if _, dup := cards[name]; dup {
			errs = append(errs, fmt.Errorf("cards[%d]: duplicate card %q", i, name))
		}
		cards[name] = struct{}{}
		if _, err := carddomain.ParseKind(strings.TrimSpace(c.Kind)); err != nil {
			errs = append(errs, fmt.Errorf("cards[%d]: %w %q", i, err, c.Kind))
		}
	}

	for i, e := range j.Events {
		if _, ok := cards[strings.TrimSpace(e.Card)]; !ok {
			errs = append(errs, fmt.Errorf("events[%d]: %w %q", i, domain.ErrUnknownCard, e.Card))
		}
		hasLoad := e.Load != 0
		hasRide := strings.TrimSpace(e.Ride) != ""
		if hasLoad == hasRide {
			errs = append(errs, fmt.Errorf("events[%d]: exactly one of load or ride is required", i))
		}
		if e.Advance < 0 {
			errs = append(errs, fmt.Errorf("events[%d]: advance must not be negative", i))
		}
		if strings.TrimSpace(e.At) != "" && e.Advance != 0 {
			errs = append(errs, fmt.Errorf("events[%d]: at and advance are mutually exclusive", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidJourney, errors.Join(errs...))
	}
	return nil
}
