package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file when no path is given.
const DefaultPath = "config.yaml"

// Config holds all configuration for media-db-service.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables or the credentials file.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AuthRequired rejects requests without a bearer token. Tokens are
	// verified by the gateway in front of the service.
	AuthRequired bool `yaml:"auth_required" env:"AUTH_REQUIRED" env-default:"false"`

	// CredentialsFile points at a JSON or YAML document with host, port,
	// db_name, user and password. Values found there override Database.
	CredentialsFile string `yaml:"credentials_file" env:"DB_CREDENTIALS_LOCATION" env-default:""`

	Database DatabaseConfig `yaml:"database"`
	Retry    RetryConfig    `yaml:"retry"`
}

// DatabaseConfig holds relational store configuration.
type DatabaseConfig struct {
	// Driver selects the session implementation: "postgres" or "sqlite".
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"media"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"media_db"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SQLitePath     string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"media.db"`
	// ConnectTimeoutSeconds bounds session establishment.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds" env:"DB_CONNECT_TIMEOUT" env-default:"10"`
}

// RetryConfig controls the reconnect-and-retry loop of the connection manager.
type RetryConfig struct {
	RetryNumber          int `yaml:"retry_number" env:"RETRY_NUMBER" env-default:"10"`
	ReconnectWaitSeconds int `yaml:"reconnect_wait_seconds" env:"RECONNECT_WAIT_TIME" env-default:"1"`
}

// Credentials mirrors the credentials file the service has always been
// deployed with.
type Credentials struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DBName   string `yaml:"db_name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Load reads configuration from path (DefaultPath when empty) with environment
// variable overrides, then applies the credentials file if one is configured.
func Load(path, version string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if cfg.CredentialsFile != "" {
		creds, err := LoadCredentials(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		cfg.Database.apply(creds)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadCredentials reads a credentials document. JSON is accepted since it is a
// subset of YAML.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if creds.Host == "" || creds.DBName == "" || creds.User == "" {
		return nil, fmt.Errorf("credentials file must define host, db_name and user")
	}
	return &creds, nil
}

func (c *DatabaseConfig) apply(creds *Credentials) {
	c.Host = creds.Host
	if creds.Port != 0 {
		c.Port = creds.Port
	}
	c.Database = creds.DBName
	c.User = creds.User
	c.Password = creds.Password
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Retry.RetryNumber < 0 {
		return fmt.Errorf("retry_number must not be negative")
	}
	return nil
}

// ConnectionString returns a PostgreSQL URL with every user-provided part escaped.
// Inside a container, localhost is rewritten to host.docker.internal so a
// database on the host machine stays reachable.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", resolveLocalHost(c.Host), c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectTimeout returns the session establishment bound.
func (c *DatabaseConfig) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// ReconnectWait returns the pause between reconnect attempts.
func (c *RetryConfig) ReconnectWait() time.Duration {
	return time.Duration(c.ReconnectWaitSeconds) * time.Second
}

func resolveLocalHost(host string) string {
	if host != "localhost" && host != "127.0.0.1" {
		return host
	}
	if _, err := os.Stat("/.dockerenv"); err != nil {
		return host
	}
	return "host.docker.internal"
}
