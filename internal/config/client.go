package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/iudanet/vocabsync/internal/logging"
)

// Cloud backends
const (
	BackendHTTP = "http"
	BackendS3   = "s3"
)

// ClientConfig настройки клиента синхронизации
type ClientConfig struct {
	DBPath  string         `mapstructure:"db"`
	Backend string         `mapstructure:"backend"`
	Server  ServerEndpoint `mapstructure:"server"`
	S3      S3Settings     `mapstructure:"s3"`
	Log     logging.Config `mapstructure:"log"`
	Sync    SyncSettings   `mapstructure:"sync"`
	// DBLockTimeout сколько команда ждет, пока демон освободит файл БД
	DBLockTimeout time.Duration `mapstructure:"db_lock_timeout"`
}

// ServerEndpoint адрес и токен сервера синхронизации
type ServerEndpoint struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// S3Settings бакет для backend=s3
type S3Settings struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

// SyncSettings параметры цикла повторных отправок
type SyncSettings struct {
	BaseDelay    time.Duration `mapstructure:"base_delay"`
	MinDelay     time.Duration `mapstructure:"min_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	CloudTimeout time.Duration `mapstructure:"cloud_timeout"`
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("db", "vocabsync-client.db")
	v.SetDefault("db_lock_timeout", 5*time.Second)
	v.SetDefault("backend", BackendHTTP)
	v.SetDefault("server.url", "http://localhost:8080")
	v.SetDefault("server.token", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "vocabsync")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("sync.base_delay", 300*time.Second)
	v.SetDefault("sync.min_delay", 60*time.Second)
	v.SetDefault("sync.max_delay", 1800*time.Second)
	v.SetDefault("sync.cloud_timeout", 30*time.Second)
	setLogDefaults(v)
}

// LoadClient reads and validates the client configuration.
func (l *Loader) LoadClient() (*ClientConfig, error) {
	setClientDefaults(l.v)

	var cfg ClientConfig
	if err := l.unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backend is fully configured.
func (c *ClientConfig) Validate() error {
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	if c.DBLockTimeout < 0 {
		return errors.New("db_lock_timeout must not be negative")
	}

	switch c.Backend {
	case BackendHTTP:
		if err := validateServerURL(c.Server.URL); err != nil {
			return err
		}
		if c.Server.Token == "" {
			return errors.New("server.token is required for the http backend")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown backend %q: expected %q or %q", c.Backend, BackendHTTP, BackendS3)
	}

	if err := c.Sync.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Validate checks the retry settings. Zero values fall back to engine defaults.
func (s SyncSettings) Validate() error {
	if s.BaseDelay < 0 || s.MinDelay < 0 || s.MaxDelay < 0 || s.CloudTimeout < 0 {
		return errors.New("sync delays must not be negative")
	}
	if s.MinDelay > 0 && s.MaxDelay > 0 && s.MinDelay > s.MaxDelay {
		return fmt.Errorf("sync.min_delay (%s) is greater than sync.max_delay (%s)", s.MinDelay, s.MaxDelay)
	}
	if s.BaseDelay > 0 && s.MinDelay > 0 && s.BaseDelay < s.MinDelay {
		return fmt.Errorf("sync.base_delay (%s) is less than sync.min_delay (%s)", s.BaseDelay, s.MinDelay)
	}
	if s.BaseDelay > 0 && s.MaxDelay > 0 && s.BaseDelay > s.MaxDelay {
		return fmt.Errorf("sync.base_delay (%s) is greater than sync.max_delay (%s)", s.BaseDelay, s.MaxDelay)
	}
	return nil
}

func validateServerURL(raw string) error {
	if raw == "" {
		return errors.New("server.url is required for the http backend")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server.url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server.url %q: host is empty", raw)
	}
	return nil
}
