package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AdminAPI AdminAPI
	HTTP     HTTP
	Session  Session
	Redis    Redis
	Watcher  Watcher
	Bot      Bot
	Log      Log
}

type AdminAPI struct {
	URL     string        `env:"ADMIN_API_URL" envDefault:"http://localhost:8000" validate:"url"`
	Timeout time.Duration `env:"ADMIN_API_TIMEOUT" envDefault:"0s" validate:"gte=0"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080" validate:"required"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081" validate:"required"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090" validate:"required"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SecureCookie         bool          `env:"HTTP_SECURE_COOKIE" envDefault:"false"`
	LogFieldMaxLen       int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096" validate:"gt=0"`
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Session struct {
	TTL     time.Duration `env:"SESSION_TTL" envDefault:"12h" validate:"gt=0"`
	ViewTTL time.Duration `env:"SESSION_VIEW_TTL" envDefault:"30m" validate:"gt=0"`
	Store   string        `env:"SESSION_STORE" envDefault:"memory" validate:"oneof=memory redis"`
}

type Watcher struct {
	Email    string        `env:"WATCHER_EMAIL" validate:"omitempty,email"`
	Password string        `env:"WATCHER_PASSWORD" json:"-" validate:"required_with=Email"`
	Interval time.Duration `env:"WATCHER_INTERVAL" envDefault:"1m" validate:"gt=0"`
}

func (w Watcher) Enabled() bool {
	return w.Email != ""
}

type Log struct {
	Format string     `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate.Struct: %w", err)
	}

	return config, nil
}
