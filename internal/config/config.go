// Package config loads client and server settings from defaults, an optional
// YAML file, VOCABSYNC_* environment variables and command line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения: server.url -> VOCABSYNC_SERVER_URL
const EnvPrefix = "VOCABSYNC"

// ConfigFileEnv указывает путь к файлу конфигурации, если флаг --config не задан
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Loader merges configuration sources. Precedence, highest first:
// changed flags, environment, config file, defaults.
type Loader struct {
	v    *viper.Viper
	file string
}

// NewLoader creates a loader. An empty file means no config file is read.
func NewLoader(file string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, file: file}
}

// ResolveFile returns flagValue, or the VOCABSYNC_CONFIG path when the flag is empty.
func ResolveFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ConfigFileEnv)
}

// BindFlag binds a command line flag to a configuration key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("flag for key %q not found", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// BindFlags binds several flags from fs by name. Keys map config key -> flag name.
func (l *Loader) BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := l.BindFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) readFile() error {
	if l.file == "" {
		return nil
	}
	l.v.SetConfigFile(l.file)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", l.file, err)
	}
	return nil
}

func (l *Loader) unmarshal(target any) error {
	if err := l.readFile(); err != nil {
		return err
	}
	if err := l.v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}
