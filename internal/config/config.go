package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del cliente, el portal y tutorctl.
type Config struct {
	APIBaseURL        string  `env:"API_BASE_URL,required"`
	APIRefreshURL     string  `env:"API_REFRESH_URL"`
	APITimeoutSeconds int     `env:"API_TIMEOUT_SECONDS" envDefault:"30"`
	APIRatePerSecond  float64 `env:"API_RATE_PER_SECOND" envDefault:"0"`

	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`

	SessionBackend  string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionDir      string `env:"SESSION_DIR" envDefault:".tutorlink"`
	SessionProfile  string `env:"SESSION_PROFILE" envDefault:"default"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"24"`

	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SubmissionLimit         int `env:"SUBMISSION_LIMIT" envDefault:"5"`
	SubmissionWindowSeconds int `env:"SUBMISSION_WINDOW_SECONDS" envDefault:"600"`
}

// Backends soportados para el almacenamiento durable de la sesión.
const (
	SessionBackendFile     = "file"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APITimeout devuelve el timeout de las llamadas al backend.
func (c *Config) APITimeout() time.Duration {
	if c.APITimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// SessionTTL devuelve la ventana absoluta de expiración de la sesión.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SubmissionWindow devuelve la ventana del limitador de envíos.
func (c *Config) SubmissionWindow() time.Duration {
	if c.SubmissionWindowSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.SubmissionWindowSeconds) * time.Second
}

// RefreshURL devuelve el endpoint de refresh, derivado de la base si no se configuró.
func (c *Config) RefreshURL() string {
	if c.APIRefreshURL != "" {
		return c.APIRefreshURL
	}
	return strings.TrimRight(c.APIBaseURL, "/") + "/auth/refresh-token"
}
