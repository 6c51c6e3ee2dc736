// Package config loads the server configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Identity modes.
const (
	AuthTailscale = "tailscale"
	AuthProxy     = "proxy"
	AuthDev       = "dev"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	Mode       string `yaml:"mode"`
	APIKey     string `yaml:"api_key"`
	UserHeader string `yaml:"user_header"`
	DevLogin   string `yaml:"dev_login"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix GYMBUDDY_ and underscore-separated paths:
//
//	GYMBUDDY_SERVER_HOST, GYMBUDDY_SERVER_PORT,
//	GYMBUDDY_DB_DRIVER, GYMBUDDY_DB_HOST, GYMBUDDY_DB_PORT, GYMBUDDY_DB_NAME,
//	GYMBUDDY_DB_USER, GYMBUDDY_DB_PASSWORD, GYMBUDDY_DB_SSLMODE, GYMBUDDY_DB_PATH,
//	GYMBUDDY_AUTH_MODE, GYMBUDDY_AUTH_API_KEY, GYMBUDDY_AUTH_USER_HEADER,
//	GYMBUDDY_TAILSCALE_ENABLED, GYMBUDDY_TAILSCALE_HOSTNAME, GYMBUDDY_TAILSCALE_STATE_DIR,
//	GYMBUDDY_LOG_LEVEL, GYMBUDDY_LOG_FORMAT, GYMBUDDY_MCP_ENABLED
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Database:  DatabaseConfig{Driver: DriverPostgres, Port: 5432},
		Auth:      AuthConfig{Mode: AuthTailscale, UserHeader: "X-Forwarded-User", DevLogin: "dev@localhost"},
		Tailscale: TailscaleConfig{Hostname: "gymbuddy"},
		Log:       LogConfig{Level: "info", Format: "text"},
		MCP:       MCPConfig{Enabled: true},
	}
}

func applyEnvOverrides(cfg *Config) {
	str := map[string]*string{
		"GYMBUDDY_SERVER_HOST":         &cfg.Server.Host,
		"GYMBUDDY_DB_DRIVER":           &cfg.Database.Driver,
		"GYMBUDDY_DB_HOST":             &cfg.Database.Host,
		"GYMBUDDY_DB_NAME":             &cfg.Database.Name,
		"GYMBUDDY_DB_USER":             &cfg.Database.User,
		"GYMBUDDY_DB_PASSWORD":         &cfg.Database.Password,
		"GYMBUDDY_DB_SSLMODE":          &cfg.Database.SSLMode,
		"GYMBUDDY_DB_PATH":             &cfg.Database.Path,
		"GYMBUDDY_AUTH_MODE":           &cfg.Auth.Mode,
		"GYMBUDDY_AUTH_API_KEY":        &cfg.Auth.APIKey,
		"GYMBUDDY_AUTH_USER_HEADER":    &cfg.Auth.UserHeader,
		"GYMBUDDY_TAILSCALE_HOSTNAME":  &cfg.Tailscale.Hostname,
		"GYMBUDDY_TAILSCALE_STATE_DIR": &cfg.Tailscale.StateDir,
		"GYMBUDDY_LOG_LEVEL":           &cfg.Log.Level,
		"GYMBUDDY_LOG_FORMAT":          &cfg.Log.Format,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GYMBUDDY_SERVER_PORT": &cfg.Server.Port,
		"GYMBUDDY_DB_PORT":     &cfg.Database.Port,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	bools := map[string]*bool{
		"GYMBUDDY_TAILSCALE_ENABLED": &cfg.Tailscale.Enabled,
		"GYMBUDDY_MCP_ENABLED":       &cfg.MCP.Enabled,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not one of %s, %s", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	switch c.Auth.Mode {
	case AuthTailscale:
		if !c.Tailscale.Enabled {
			return fmt.Errorf("auth.mode tailscale requires tailscale.enabled")
		}
	case AuthProxy:
		if c.Auth.APIKey == "" {
			return fmt.Errorf("auth.api_key is required in proxy mode")
		}
		if c.Auth.UserHeader == "" {
			return fmt.Errorf("auth.user_header is required in proxy mode")
		}
	case AuthDev:
	default:
		return fmt.Errorf("auth.mode %q is not one of %s, %s, %s", c.Auth.Mode, AuthTailscale, AuthProxy, AuthDev)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}
