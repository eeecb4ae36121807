package route

import (
	"github.com/smallbiznis/transitfare/internal/route/service"
	"go.uber.org/fx"
)

var Module = fx.Module("route.service",
	fx.Provide(service.NewFleet),
)
