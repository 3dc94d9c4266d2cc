package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/selimozcann/linktracer/internal/httpclient"
	"github.com/selimozcann/linktracer/internal/trace"
)

// EnvPrefix is prepended to every environment override, e.g. LINKTRACER_TRACE_TIMEOUT.
const EnvPrefix = "LINKTRACER"

// Config holds the whole application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Trace  TraceConfig  `mapstructure:"trace" yaml:"trace"`
	Runner RunnerConfig `mapstructure:"runner" yaml:"runner"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// TraceConfig bounds each trace and shapes its outgoing requests.
type TraceConfig struct {
	MaxRedirects int           `mapstructure:"max_redirects" yaml:"max_redirects"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	Headers      []string      `mapstructure:"headers" yaml:"headers"`
	Proxy        string        `mapstructure:"proxy" yaml:"proxy"`
	Insecure     bool          `mapstructure:"insecure" yaml:"insecure"`
}

// RunnerConfig controls CLI batch tracing.
type RunnerConfig struct {
	Threads int `mapstructure:"threads" yaml:"threads"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "linktracer")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Trace --
	v.SetDefault("trace.max_redirects", trace.DefaultMaxRedirects)
	v.SetDefault("trace.timeout", trace.DefaultTimeout)
	v.SetDefault("trace.max_body_bytes", trace.DefaultMaxBodyBytes)
	v.SetDefault("trace.user_agent", httpclient.DefaultUserAgent)
	v.SetDefault("trace.headers", []string{})
	v.SetDefault("trace.proxy", "")
	v.SetDefault("trace.insecure", false)

	// -- Runner --
	v.SetDefault("runner.threads", 10)

	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")
}

// Load reads an optional config file and environment overrides into v and
// returns the validated result. An empty path looks for ./config.yaml and
// tolerates its absence.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Trace.MaxRedirects <= 0 {
		return fmt.Errorf("trace.max_redirects must be a positive integer")
	}
	if c.Trace.Timeout <= 0 {
		return fmt.Errorf("trace.timeout must be a positive duration")
	}
	if c.Trace.MaxBodyBytes <= 0 {
		return fmt.Errorf("trace.max_body_bytes must be a positive integer")
	}
	if c.Runner.Threads <= 0 {
		return fmt.Errorf("runner.threads must be a positive integer")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json (got %q)", c.Logger.Format)
	}
	return nil
}
