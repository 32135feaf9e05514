package bootstrap

import (
	"hotel-booking/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadConfig,
	),
)

func LoadConfig() (config.Config, error) {
	// Local development reads .env; in deployed environments the file is
	// absent and the process environment wins.
	_ = godotenv.Load()
	return config.LoadConfig()
}
