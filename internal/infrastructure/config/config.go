package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SessionTTL bounds how long a login session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Serial SerialConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gatekeeper"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SerialConfig describes the relay link. The defaults match the deployed
// hardware: a UART at 115200 baud with a one-second response window.
type SerialConfig struct {
	Device      string        `env:"SERIAL_DEVICE,       default=/dev/ttyAMA2"`
	Baud        int           `env:"SERIAL_BAUD,         default=115200"`
	ReadTimeout time.Duration `env:"SERIAL_READ_TIMEOUT, default=1s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
