package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime settings for the server and the watch command.
type Config struct {
	AppPort        string
	AppEnv         string
	APIBaseURL     string
	BackendOrigin  string
	BackendTimeout time.Duration

	StateDriver   string
	StateDSN      string
	RedisAddr     string
	RedisPassword string

	RabbitMQURL string

	OrderPollInterval time.Duration
	BoardPollInterval time.Duration
}

// Production reports whether cookies should be marked secure.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:5000/api")
	v.SetDefault("BACKEND_ORIGIN", "http://127.0.0.1:5000")
	v.SetDefault("BACKEND_TIMEOUT", "8s")
	v.SetDefault("STATE_DRIVER", "sqlite")
	v.SetDefault("STATE_DSN", "file:chiyasathi.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ORDER_POLL_INTERVAL", "5s")
	v.SetDefault("BOARD_POLL_INTERVAL", "10s")
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:           v.GetString("APP_PORT"),
		AppEnv:            v.GetString("APP_ENV"),
		APIBaseURL:        v.GetString("API_BASE_URL"),
		BackendOrigin:     v.GetString("BACKEND_ORIGIN"),
		BackendTimeout:    v.GetDuration("BACKEND_TIMEOUT"),
		StateDriver:       v.GetString("STATE_DRIVER"),
		StateDSN:          v.GetString("STATE_DSN"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		OrderPollInterval: v.GetDuration("ORDER_POLL_INTERVAL"),
		BoardPollInterval: v.GetDuration("BOARD_POLL_INTERVAL"),
	}
}
