package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
		// BaseURL is used when building invitation / confirmation links
		BaseURL string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	// Environment is recorded on every audit row
	Environment string `yaml:"environment" env:"APP_ENVIRONMENT"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		// ElevatedUser/ElevatedPassword identify the service role that bypasses
		// row-level security. Only the invite-user path may use this pool.
		ElevatedUser     string `yaml:"elevated_user" env:"DB_ELEVATED_USER"`
		ElevatedPassword string `yaml:"elevated_password" env:"DB_ELEVATED_PASSWORD"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	JWT struct {
		Secret            string `yaml:"secret" env:"JWT_SECRET"`
		SessionExpiration string `yaml:"session_expiration" env:"JWT_SESSION_EXPIRATION"`
		RefreshWindow     string `yaml:"refresh_window" env:"JWT_REFRESH_WINDOW"`
		Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Storage struct {
		Path            string `yaml:"path" env:"STORAGE_PATH"`
		Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
		SignedURLSecret string `yaml:"signed_url_secret" env:"STORAGE_SIGNED_URL_SECRET"`
		SignedURLTTL    string `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL"`
	} `yaml:"storage"`

	Invite struct {
		// AllowedEmailDomains is a comma-separated allow-list; empty disables the check
		AllowedEmailDomains string `yaml:"allowed_email_domains" env:"INVITE_ALLOWED_EMAIL_DOMAINS"`
	} `yaml:"invite"`

	Cleanup struct {
		Enabled  bool   `yaml:"enabled" env:"CLEANUP_ENABLED"`
		Schedule string `yaml:"schedule" env:"CLEANUP_SCHEDULE"`
	} `yaml:"cleanup"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A local .env is a development convenience; ignore when absent
	_ = godotenv.Load()

	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML into Config structure
		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Environment = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "careertrack"
	config.Database.Password = "careertrack"
	config.Database.DBName = "careertrack"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Redis defaults
	config.Redis.Addr = "localhost:6379"

	// JWT defaults
	config.JWT.SessionExpiration = "12h"
	config.JWT.RefreshWindow = "15m"
	config.JWT.Issuer = "careertrack.app"

	// Storage defaults
	config.Storage.Path = "uploads"
	config.Storage.Bucket = "application-attachments"
	config.Storage.SignedURLTTL = "10m"

	// Cleanup defaults: sweep orphaned storage objects nightly
	config.Cleanup.Enabled = true
	config.Cleanup.Schedule = "0 4 * * *"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Storage.SignedURLSecret == "" {
		return fmt.Errorf("signed URL secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid JWT session expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshWindow); err != nil {
		return fmt.Errorf("invalid JWT refresh window format: %w", err)
	}

	if _, err := time.ParseDuration(config.Storage.SignedURLTTL); err != nil {
		return fmt.Errorf("invalid signed URL TTL format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string for the
// regular (per-request) role
func (c *Config) GetPostgresConnectionString() string {
	return c.connString(c.Database.User, c.Database.Password)
}

// GetElevatedConnectionString returns the postgres connection string for the
// elevated service role. Empty when no elevated credentials are configured.
func (c *Config) GetElevatedConnectionString() string {
	if c.Database.ElevatedUser == "" {
		return ""
	}
	return c.connString(c.Database.ElevatedUser, c.Database.ElevatedPassword)
}

func (c *Config) connString(user, password string) string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user,
		password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AllowedEmailDomains returns the parsed invitation domain allow-list.
// An empty slice means the check is disabled.
func (c *Config) AllowedEmailDomains() []string {
	raw := strings.TrimSpace(c.Invite.AllowedEmailDomains)
	if raw == "" {
		return nil
	}

	var domains []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
