package components

import (
	"context"
	"log/slog"
	"time"

	"hotel-booking/internal/infra/gateway"
	"hotel-booking/internal/infra/repository"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/commands"
	"hotel-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewDispatcher,
	),
	fx.Invoke(
		startDispatcher,
		startNoShowSweeper,
	),
)

func NewDispatcher(
	outbox *repository.OutboxRepository,
	rooms *gateway.RoomGateway,
	payments *gateway.PaymentGateway,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) *worker.Dispatcher {
	return worker.NewDispatcher(outbox, rooms, payments, cfg.Worker, clk, logger)
}

func startDispatcher(lc fx.Lifecycle, dispatcher *worker.Dispatcher, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting outbox dispatcher")
			go func() {
				defer close(done)
				_ = dispatcher.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func startNoShowSweeper(lc fx.Lifecycle, bookingCommands commands.BookingCommands, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting no-show sweeper", "interval", cfg.Worker.SweepInterval.String())
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Worker.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						swept, err := bookingCommands.SweepNoShows(ctx)
						if err != nil {
							logger.Error("no-show sweep failed", "error", err.Error())
							continue
						}
						if swept > 0 {
							logger.Info("no-show sweep completed", "swept", swept)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
