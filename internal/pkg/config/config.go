package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, cache TTLs, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Services ServicesConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// RedisConfig drives the room snapshot cache. Leaving Addr empty disables
// caching; the room gateway then always calls the room service directly.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	RoomTTL  time.Duration `envconfig:"REDIS_ROOM_TTL" default:"30s"`
}

// AMQPConfig drives the booking event publisher. Leaving URL empty disables
// publishing; transitions are then only observed by the metrics observer.
type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL" default:""`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"booking.events"`
}

// ServicesConfig points at the external collaborators. Collaborator calls on
// the mutation path are best-effort: a timeout or error never changes the
// outcome of the booking's own transition.
type ServicesConfig struct {
	RoomServiceURL    string        `envconfig:"ROOM_SERVICE_URL" required:"true"`
	UserServiceURL    string        `envconfig:"USER_SERVICE_URL" required:"true"`
	PaymentServiceURL string        `envconfig:"PAYMENT_SERVICE_URL" required:"true"`
	CallTimeout       time.Duration `envconfig:"SERVICE_CALL_TIMEOUT" default:"5s"`
}

type WorkerConfig struct {
	PollInterval  time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"2s"`
	BatchSize     int32         `envconfig:"WORKER_BATCH_SIZE" default:"20"`
	MaxAttempts   int32         `envconfig:"WORKER_MAX_ATTEMPTS" default:"5"`
	SweepInterval time.Duration `envconfig:"WORKER_SWEEP_INTERVAL" default:"1h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Services: ServicesConfig{
			RoomServiceURL:    "http://localhost:18081",
			UserServiceURL:    "http://localhost:18082",
			PaymentServiceURL: "http://localhost:18083",
			CallTimeout:       time.Second,
		},
	}
}
