package components

import (
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewBookingCommands,
	),
)
