package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/transitfare/internal/card"
	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/config"
	"github.com/smallbiznis/transitfare/internal/journey"
	journeydomain "github.com/smallbiznis/transitfare/internal/journey/domain"
	journeyservice "github.com/smallbiznis/transitfare/internal/journey/service"
	"github.com/smallbiznis/transitfare/internal/observability"
	"github.com/smallbiznis/transitfare/internal/route"
	"github.com/smallbiznis/transitfare/internal/ticket"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		card.Module,
		route.Module,
		journey.Module,

		fx.Invoke(RunJourney),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

// RunJourney replays the configured journey file once, prints every ticket and
// rejection, then stops the app.
func RunJourney(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, r *journeyservice.Replayer, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			j, err := journeyservice.LoadFile(cfg.JourneyFile)
			if err != nil {
				return err
			}
			go func() {
				report, err := r.Replay(context.Background(), j)
				printReport(report)
				if err != nil {
					log.Error("journey replay failed", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}

func printReport(report journeydomain.Report) {
	for _, e := range report.Entries {
		switch {
		case e.Ticket != nil:
			fmt.Fprintln(os.Stdout, e.Ticket.String())
		case e.Rejected():
			fmt.Fprintf(os.Stdout, "Rejected - Card: %s, Action: %s, Route: %s, Date: %s, Reason: %v\n",
				e.Card, e.Action, e.Route, e.At.Format(ticket.DateLayout), e.Err)
		}
	}
}
