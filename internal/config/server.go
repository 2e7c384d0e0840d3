package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/iudanet/vocabsync/internal/logging"
)

// MinSecretLength минимальная длина секрета для подписи токенов
const MinSecretLength = 16

// ServerConfig настройки облачного сервера
type ServerConfig struct {
	Addr            string            `mapstructure:"addr"`
	DBPath          string            `mapstructure:"db"`
	JWT             JWTSettings       `mapstructure:"jwt"`
	RateLimit       RateLimitSettings `mapstructure:"rate_limit"`
	ShutdownTimeout time.Duration     `mapstructure:"shutdown_timeout"`
	Log             logging.Config    `mapstructure:"log"`
}

// JWTSettings параметры выпуска access токенов
type JWTSettings struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// RateLimitSettings лимит запросов на пользователя или IP
type RateLimitSettings struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "vocabsync-server.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_ttl", 30*24*time.Hour)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	setLogDefaults(v)
}

// LoadServer reads and validates the server configuration.
func (l *Loader) LoadServer() (*ServerConfig, error) {
	setServerDefaults(l.v)

	var cfg ServerConfig
	if err := l.unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the server settings.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	if len(c.JWT.Secret) < MinSecretLength {
		return fmt.Errorf("jwt.secret must be at least %d bytes", MinSecretLength)
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("jwt.token_ttl must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.requests and rate_limit.window must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown_timeout must not be negative")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
