package service

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/config"
	"github.com/smallbiznis/transitfare/internal/observability/metrics"
	"github.com/smallbiznis/transitfare/internal/route/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Fleet is the route catalogue: one operator per configured route.
type Fleet struct {
	operators map[string]*Operator
	routes    []string
}

type FleetParam struct {
	fx.In

	Config  *config.FareConfigHolder
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
	Serials *snowflake.Node
}

func NewFleet(p FleetParam) (*Fleet, error) {
	fleet, err := BuildFleet(p.Config.Current(), OperatorParam{
		Clock:   p.Clock,
		Log:     p.Log,
		Metrics: p.Metrics,
		Serials: p.Serials,
	})
	if err != nil {
		return nil, err
	}
	p.Log.Named("route.fleet").Info("route catalogue loaded", zap.Strings("routes", fleet.Routes()))
	return fleet, nil
}

// BuildFleet creates an operator for every route in cfg. Route, class, base
// fare and transfer rules in deps are ignored.
func BuildFleet(cfg config.FareConfig, deps OperatorParam) (*Fleet, error) {
	rules := domain.TransferRules{
		Window:    cfg.Transfer.Window,
		StartHour: cfg.Transfer.Hours.StartHour,
		EndHour:   cfg.Transfer.Hours.EndHour,
	}

	fleet := &Fleet{operators: make(map[string]*Operator, len(cfg.Routes))}
	for _, rc := range cfg.Routes {
		class, err := domain.ParseServiceClass(rc.Class)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.ID, err)
		}
		base := decimal.NewFromInt(cfg.StandardFare)
		if class == domain.ClassInterurban {
			base = decimal.NewFromInt(cfg.InterurbanFare)
		}

		p := deps
		p.Route = rc.ID
		p.Class = class
		p.BaseFare = base
		p.Transfer = rules
		op, err := NewOperator(p)
		if err != nil {
			return nil, err
		}
		if _, dup := fleet.operators[op.Route()]; dup {
			return nil, fmt.Errorf("%w: duplicate route %q", domain.ErrInvalidRoute, op.Route())
		}
		fleet.operators[op.Route()] = op
		fleet.routes = append(fleet.routes, op.Route())
	}
	return fleet, nil
}

func (f *Fleet) Get(route string) (*Operator, error) {
	op, ok := f.operators[route]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRoute, route)
	}
	return op, nil
}

// Routes lists route ids in catalogue order.
func (f *Fleet) Routes() []string {
	out := make([]string, len(f.routes))
	copy(out, f.routes)
	return out
}
