// Config loading for the items service: YAML file, ITEMSVC_* environment
// variables and defaults, with optional hot-reload.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every environment override, e.g. ITEMSVC_SERVER_PORT
const EnvPrefix = "ITEMSVC"

// Config is the full service configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Validation ValidationConfig `mapstructure:"validation"`
	Docs       DocsConfig       `mapstructure:"docs"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gte=0"`
}

// Addr returns host:port for net.Listen
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// CORSConfig represents cross-origin configuration
type CORSConfig struct {
	AllowOrigins []string      `mapstructure:"allow_origins" validate:"min=1"`
	MaxAge       time.Duration `mapstructure:"max_age"`
}

// RateLimitConfig holds a ulule/limiter formatted rate such as "100-S".
// An empty rate disables limiting.
type RateLimitConfig struct {
	Rate string `mapstructure:"rate"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// TracingConfig controls the OpenTelemetry stdout exporters
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Metrics     bool   `mapstructure:"metrics"`
	ServiceName string `mapstructure:"service_name" validate:"required"`
}

// ValidationConfig controls payload clean-up. SanitizeNames strips markup
// from names, so text such as "Tom & <Jerry>" loses everything after "&".
type ValidationConfig struct {
	SanitizeNames bool `mapstructure:"sanitize_names"`
}

// DocsConfig controls the Swagger UI
type DocsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Loader reads configuration through a private viper instance
type Loader struct {
	viper    *viper.Viper
	logger   *zap.Logger
	validate *validator.Validate
}

// NewLoader creates a loader with defaults and environment binding applied
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		viper:    viper.New(),
		logger:   logger,
		validate: validator.New(),
	}
	l.setupViper()
	return l
}

// Load is a convenience wrapper around NewLoader(nil).Load
func Load(paths ...string) (*Config, error) {
	return NewLoader(nil).Load(paths...)
}

// setupViper configures viper settings
func (l *Loader) setupViper() {
	v := l.viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("log.level", "info")

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.max_age", 12*time.Hour)

	v.SetDefault("rate_limit.rate", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.metrics", false)
	v.SetDefault("tracing.service_name", "itemsvc")

	v.SetDefault("validation.sanitize_names", false)

	v.SetDefault("docs.enabled", false)
}

// Load merges the first existing file among paths (default ./config.yaml)
// with environment overrides, then validates the result.
func (l *Loader) Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{"./config.yaml", "./configs/config.yaml"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("Config file not found, skipping", zap.String("path", path))
			continue
		}
		l.viper.SetConfigFile(path)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		l.logger.Info("Loaded configuration file", zap.String("path", path))
		break
	}

	return l.decode()
}

// Watch re-reads the loaded file whenever it changes and passes the new,
// validated config to onChange. Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.viper.ConfigFileUsed() == "" {
		l.logger.Info("No config file to watch, hot-reload disabled")
		return
	}

	l.viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			l.logger.Warn("Ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		l.logger.Info("Configuration reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		onChange(cfg)
	})
	l.viper.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}
