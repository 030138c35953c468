package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"taskboard-backend/internal/db"
	"taskboard-backend/internal/otel"
)

type Config struct {
	Addr string `yaml:"addr"`

	// DBDriver is "postgres" (default) or "sqlite".
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     int    `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	SQLitePath string `yaml:"sqlite_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// StrictErrors turns on 400/404 responses instead of 500 for every failure.
	StrictErrors bool     `yaml:"strict_errors"`
	CORSOrigins  []string `yaml:"cors_origins"`

	// AuthSecret, when set, requires an HS256 bearer token on /tasks routes.
	AuthSecret string `yaml:"auth_secret"`

	OTel otel.Config `yaml:"otel"`
}

func defaults() *Config {
	return &Config{
		Addr:        ":3000",
		DBDriver:    "postgres",
		DBPort:      5432,
		DBSSLMode:   "disable",
		SQLitePath:  "taskboard.db",
		LogLevel:    "info",
		LogFormat:   "json",
		CORSOrigins: []string{"*"},
	}
}

// Load reads the optional YAML file named by TASKS_CONFIG, then applies
// environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("TASKS_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "TASKS_ADDR")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TASKS_ADDR") == "" {
		cfg.Addr = ":" + port
	}

	setString(&cfg.DBDriver, "TASKS_DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSLMODE")
	setString(&cfg.SQLitePath, "TASKS_SQLITE_PATH")
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.DBPort = port
	}

	setString(&cfg.LogLevel, "TASKS_LOG_LEVEL")
	setString(&cfg.LogFormat, "TASKS_LOG_FORMAT")
	setString(&cfg.AuthSecret, "TASKS_AUTH_SECRET")

	if err := setBool(&cfg.StrictErrors, "TASKS_STRICT_ERRORS"); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("TASKS_CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if err := setBool(&cfg.OTel.Enabled, "TASKS_OTEL_ENABLED"); err != nil {
		return err
	}
	setString(&cfg.OTel.Exporter, "TASKS_OTEL_EXPORTER")
	setString(&cfg.OTel.Endpoint, "TASKS_OTEL_ENDPOINT")
	return nil
}

func (c *Config) Validate() error {
	if _, err := db.ParseDialect(c.DBDriver); err != nil {
		return err
	}
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("db_port %d out of range", c.DBPort)
	}
	return nil
}

// Dialect is the parsed DBDriver. Call after Validate.
func (c *Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.DBDriver)
	return d
}

// ConnString returns the DSN for the configured driver.
func (c *Config) ConnString() string {
	if c.Dialect() == db.SQLite {
		return db.SQLiteDSN(c.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
