package bootstrap

import (
	"context"
	"log/slog"

	"hotel-booking/internal/infra/event"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

var ObserverModule = fx.Module("observer",
	fx.Provide(
		event.NewMetricsObserver,
		NewTransitionObserver,
	),
)

// NewTransitionObserver always includes the metrics observer and adds the
// AMQP publisher when a broker is configured. A broker that cannot be reached
// at startup is a hard error; a broker that drops later only costs events.
func NewTransitionObserver(lc fx.Lifecycle, cfg config.Config, metrics *event.MetricsObserver, logger *slog.Logger) (shared.TransitionObserver, error) {
	if cfg.AMQP.URL == "" {
		logger.Info("AMQP publishing disabled, transitions observed by metrics only")
		return metrics, nil
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, err
	}

	publisher, err := event.NewAMQPPublisher(conn, cfg.AMQP.Exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_ = publisher.Close()
			return conn.Close()
		},
	})

	return shared.MultiObserver{metrics, publisher}, nil
}
