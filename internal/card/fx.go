package card

import (
	"github.com/smallbiznis/transitfare/internal/card/service"
	"github.com/smallbiznis/transitfare/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("card.service",
	fx.Provide(
		service.NewIDAllocator,
		providePolicySource,
		service.NewIssuer,
	),
)

func providePolicySource(holder *config.FareConfigHolder) service.PolicySource {
	return service.ConfigPolicy{Holder: holder}
}
