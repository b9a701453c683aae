package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file layered between the defaults and the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	AppName                       string   `koanf:"app_name" validate:"required"`
	Version                       string   `koanf:"version"`
	Port                          int      `koanf:"port" validate:"min=1,max=65535"`
	LogLevel                      string   `koanf:"log_level" validate:"oneof=debug info warn error"`
	PrettyLogs                    bool     `koanf:"pretty_logs"`
	HttpServerWriteTimeoutSeconds int      `koanf:"http_server_write_timeout_seconds" validate:"min=1"`
	HttpServerReadTimeoutSeconds  int      `koanf:"http_server_read_timeout_seconds" validate:"min=1"`
	HttpServerIdleTimeoutSeconds  int      `koanf:"http_server_idle_timeout_seconds" validate:"min=1"`
	MaxHeaderBytes                int      `koanf:"http_server_max_header_bytes" validate:"min=1"` // 64KB
	ReadHeaderTimeoutSeconds      int      `koanf:"http_server_read_header_timeout_seconds" validate:"min=1"`
	AllowOrigins                  []string `koanf:"http_server_allow_origins"`
	AllowMethods                  []string `koanf:"http_server_allow_methods"`
	StartupMaxAttempts            int      `koanf:"startup_max_attempts" validate:"min=1"`
	ShutdownTimeoutSeconds        int      `koanf:"shutdown_timeout_seconds" validate:"min=1"`

	// SQLite store
	DatabasePath            string        `koanf:"db_path" validate:"required"`
	DatabaseBusyTimeoutMs   int           `koanf:"db_busy_timeout_ms" validate:"min=0"`
	DatabaseMaxOpenConns    int           `koanf:"db_max_open_conns" validate:"min=1"`
	DatabaseMaxIdleConns    int           `koanf:"db_max_idle_conns" validate:"min=0"`
	DatabaseConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	// Migrations
	DatabaseMigrationVersion      int  `koanf:"db_migration_version" validate:"min=0"`
	DatabaseMigrationForce        int  `koanf:"db_migration_force"`
	DatabaseMigrationAutoRollback bool `koanf:"db_migration_auto_rollback"`

	// Tracing
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingEndpoint string `koanf:"tracing_endpoint"`
	TracingProtocol string `koanf:"tracing_protocol" validate:"oneof=grpc http"`
	TracingInsecure bool   `koanf:"tracing_insecure"`

	MetricsEnabled bool `koanf:"metrics_enabled"`
}

func defaultConfig() Config {
	return Config{
		AppName:                       "marigold-api",
		Version:                       "dev",
		Port:                          3004,
		LogLevel:                      "info",
		PrettyLogs:                    false,
		HttpServerWriteTimeoutSeconds: 10,
		HttpServerReadTimeoutSeconds:  10,
		HttpServerIdleTimeoutSeconds:  10,
		MaxHeaderBytes:                64000,
		ReadHeaderTimeoutSeconds:      10,
		AllowOrigins:                  []string{"*"},
		AllowMethods:                  []string{"GET"},
		StartupMaxAttempts:            5,
		ShutdownTimeoutSeconds:        10,

		DatabasePath:            "celebrities.db",
		DatabaseBusyTimeoutMs:   5000,
		DatabaseMaxOpenConns:    4,
		DatabaseMaxIdleConns:    0,
		DatabaseConnMaxLifetime: 10 * time.Second,

		DatabaseMigrationAutoRollback: true,

		TracingEnabled:  false,
		TracingEndpoint: "localhost:4317",
		TracingProtocol: "grpc",
		TracingInsecure: true,

		MetricsEnabled: true,
	}
}

// comma separated env values that must land as slices
var sliceKeys = []string{
	"http_server_allow_origins",
	"http_server_allow_methods",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from defaults, an optional YAML file and the environment, in that order.
// A .env file in the working directory is loaded into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, key := range sliceKeys {
		if raw, ok := k.Get(key).(string); ok {
			if err := k.Set(key, splitList(raw)); err != nil {
				return nil, fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey maps DB_PATH style variables onto the flat koanf keys. Keys are
// flat so the "." delimiter never appears.
func envKey(key string) string {
	return strings.ToLower(key)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ShutdownTimeout is the graceful shutdown budget as a duration
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
