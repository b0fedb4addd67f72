// Package config loads arbor's settings from defaults, an optional YAML
// file, ARBOR_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ARBOR"

type Config struct {
	DB        DBConfig        `yaml:"db" mapstructure:"db"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

type DBConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type HTTPConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
	// JWTSecret enables bearer authentication on the API when set.
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	TraceExporter  string `yaml:"trace_exporter" mapstructure:"trace_exporter"`
	MetricExporter string `yaml:"metric_exporter" mapstructure:"metric_exporter"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	dbPath := "arbor.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".arbor", "arbor.db")
	}
	return &Config{
		DB: DBConfig{Path: dbPath},
		HTTP: HTTPConfig{
			Addr:     "127.0.0.1:8080",
			BasePath: "/api",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Telemetry: TelemetryConfig{
			ServiceName:    "arbor",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
		},
	}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db.path",
	"addr":      "http.addr",
	"log-level": "log.level",
}

// RegisterFlags adds the config-backed flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("db", "", "database path (default ~/.arbor/arbor.db)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
}

// New returns a viper instance with arbor's defaults and environment
// binding. Flags in fs that map to config keys are bound when fs is non-nil.
func New(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.base_path", d.HTTP.BasePath)
	v.SetDefault("http.jwt_secret", d.HTTP.JWTSecret)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.trace_exporter", d.Telemetry.TraceExporter)
	v.SetDefault("telemetry.metric_exporter", d.Telemetry.MetricExporter)
	v.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
}

// Load reads file (when non-empty) into v and decodes the merged result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	ErrEmptyDBPath     = errors.New("db.path must not be empty")
	ErrInvalidLogLevel = errors.New("log.level must be debug, info, warn or error")
	ErrInvalidFormat   = errors.New("log.format must be text or json")
)

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return ErrEmptyDBPath
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Log.Format)
	}
	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		c.HTTP.BasePath = "/" + c.HTTP.BasePath
	}
	return nil
}
