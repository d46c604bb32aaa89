// Package config loads the vt configuration from the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"vittlify/internal/domain/errors/domain"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "VT"

// Defaults applied when neither the environment nor the config file set a key.
const (
	DefaultURL            = "http://127.0.0.1:8000/vittlify/"
	DefaultPrivateKeyPath = "~/.ssh/id_rsa"
	DefaultTimeout        = 5 * time.Second
	DefaultLogLevel       = "error"
	DefaultLogFormat      = "text"
)

// Config holds the complete vt configuration. It is read once per process
// and passed by value to the components that need it.
type Config struct {
	URL           string        `mapstructure:"url"`
	Username      string        `mapstructure:"username"`
	Proxy         string        `mapstructure:"proxy"`
	DefaultList   string        `mapstructure:"default_list"`
	PrivateKey    string        `mapstructure:"private_key"`
	ShowTraceback bool          `mapstructure:"show_traceback"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Log           LogConfig     `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EffectiveLogLevel returns the configured level, or debug when tracebacks are requested.
func (c Config) EffectiveLogLevel() string {
	if c.ShowTraceback {
		return "debug"
	}
	return c.Log.Level
}

// NewViper returns a viper instance with defaults, environment binding and
// the config file search path applied.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "vt"))
		}
	}

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", DefaultURL)
	v.SetDefault("username", currentUsername())
	v.SetDefault("proxy", "")
	v.SetDefault("default_list", "")
	v.SetDefault("private_key", DefaultPrivateKeyPath)
	v.SetDefault("show_traceback", false)
	v.SetDefault("timeout", DefaultTimeout.String())

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

func currentUsername() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// Load reads the optional config file, unmarshals every key and validates the result.
// A missing config file is not an error; an unreadable or invalid one is a
// configuration error.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, domain.NewConfigurationError(fmt.Sprintf("unable to read config file: %v", err), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, domain.NewConfigurationError(fmt.Sprintf("unable to decode config: %v", err), err)
	}

	cfg.PrivateKey = expandHome(cfg.PrivateKey)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return Config{}, domain.NewConfigurationError(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Proxy syntax is checked by the
// client when it builds its transport.
func (c Config) Validate() error {
	parsed, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url must use http or https, got %q", c.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url must include a host, got %q", c.URL)
	}

	if c.Username == "" {
		return errors.New("username is required")
	}

	if c.PrivateKey == "" {
		return errors.New("private_key is required")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
