package journey

import (
	"github.com/smallbiznis/transitfare/internal/journey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journey.service",
	fx.Provide(service.NewReplayer),
)
