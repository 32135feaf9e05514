package components

import (
	"hotel-booking/internal/infra/gateway"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewRoomGateway,
		NewCommandRoomGateway,
		NewPaymentGateway,
		fx.Annotate(
			NewUserGateway,
			fx.As(new(commands.UserGateway)),
		),
	),
)

func NewRoomGateway(cfg config.Config) *gateway.RoomGateway {
	return gateway.NewRoomGateway(cfg.Services.RoomServiceURL, cfg.Services.CallTimeout)
}

// NewCommandRoomGateway fronts room lookups with Redis when it is configured.
func NewCommandRoomGateway(cfg config.Config, rooms *gateway.RoomGateway, rdb *redis.Client) commands.RoomGateway {
	if rdb == nil {
		return rooms
	}
	return gateway.NewCachedRoomGateway(rooms, rdb, cfg.Redis.RoomTTL)
}

func NewUserGateway(cfg config.Config) *gateway.UserGateway {
	return gateway.NewUserGateway(cfg.Services.UserServiceURL, cfg.Services.CallTimeout)
}

func NewPaymentGateway(cfg config.Config) *gateway.PaymentGateway {
	return gateway.NewPaymentGateway(cfg.Services.PaymentServiceURL, cfg.Services.CallTimeout)
}
