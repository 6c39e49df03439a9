package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for agrilend-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"3001"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// ClientURL is the allowed browser origin for CORS headers.
	ClientURL string `yaml:"client_url" env:"CLIENT_URL" env-default:"http://localhost:3000"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (SQL Server)
	Database DatabaseConfig `yaml:"database"`

	// OpenAI bridge configuration
	OpenAI OpenAIConfig `yaml:"openai"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false only for local development and tests; when disabled,
	// requests are assigned TestSubject as their identity.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// TestSubject is the identity assigned when verification is disabled.
	TestSubject string `yaml:"test_subject" env:"AUTH_TEST_SUBJECT" env-default:"local-dev"`

	// JWTSecret signs and verifies HS256 tokens.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"` // Secret - not in YAML
}

// DatabaseConfig holds SQL Server database configuration.
type DatabaseConfig struct {
	Server   string `yaml:"server" env:"DB_SERVER" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"1433"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"agrilend"`
	User     string `yaml:"user" env:"DB_USER" env-default:"sa"`
	Password string `yaml:"-" env:"DB_PASSWORD"` // Secret - not in YAML

	// Enabled gates all database access. When false the server starts
	// without a pool and data endpoints report unavailability; useful for
	// smoke-testing the HTTP surface.
	Enabled bool `yaml:"enabled" env:"USE_DATABASE" env-default:"true"`

	MaxOpenConns    int `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime_minutes" env:"DB_CONN_MAX_LIFETIME_MINUTES" env-default:"60"`
}

// OpenAIConfig holds settings for the OpenAI chat bridge.
type OpenAIConfig struct {
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	EnableFile  bool   `yaml:"enable_file" env:"ENABLE_FILE_LOGGING" env-default:"false"`
	FilePath    string `yaml:"file_path" env:"LOG_FILE_PATH" env-default:"logs/agrilend-engine.log"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// If config.yaml does not exist, configuration comes from the environment alone.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validate rejects configurations that cannot possibly serve requests.
func (c *Config) validate() error {
	if c.Auth.EnableVerification && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when auth verification is enabled")
	}
	return nil
}

// ConnectionString returns a SQL Server connection string in URL form.
func (c *DatabaseConfig) ConnectionString() string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Server, c.Port),
	}
	q := url.Values{}
	q.Set("database", c.Name)
	u.RawQuery = q.Encode()
	return u.String()
}
