package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath              string `yaml:"db_path"`
	Host                string `yaml:"host"`
	Port                string `yaml:"port"`
	MergeRequestTTLMins int    `yaml:"merge_request_ttl_minutes"`
	SessionTTLHours     int    `yaml:"session_ttl_hours"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables (NOMEN_*)
// 2. ./.env (dotenv)
// 3. ~/.config/nomen/config.yaml (YAML)
// 4. Built-in defaults
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:              "nomen.db",
		Host:                "127.0.0.1",
		Port:                "8080",
		MergeRequestTTLMins: 10,
		SessionTTLHours:     24,
	}

	// Load .env if it exists
	_ = godotenv.Load()

	// Load ~/.config/nomen/config.yaml if it exists (optional)
	if home, err := os.UserHomeDir(); err == nil {
		loadYAMLConfig(filepath.Join(home, ".config", "nomen", "config.yaml"), cfg)
	}

	// Override with environment variables
	if dbPath := os.Getenv("NOMEN_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if host := os.Getenv("NOMEN_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("NOMEN_PORT"); port != "" {
		cfg.Port = port
	}
	if ttl := os.Getenv("NOMEN_MERGE_TTL_MINUTES"); ttl != "" {
		if mins, err := strconv.Atoi(ttl); err == nil && mins > 0 {
			cfg.MergeRequestTTLMins = mins
		}
	}
	if ttl := os.Getenv("NOMEN_SESSION_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			cfg.SessionTTLHours = hours
		}
	}

	return cfg, nil
}

// MergeRequestTTL returns the merge handshake TTL as a duration.
func (c *Config) MergeRequestTTL() time.Duration {
	return time.Duration(c.MergeRequestTTLMins) * time.Minute
}

// SessionTTL returns the session token lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// ListenAddr joins host and port for http.ListenAndServe.
func (c *Config) ListenAddr() string {
	return c.Host + ":" + c.Port
}

func loadYAMLConfig(path string, cfg *Config) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // YAML config is optional
	}
	_ = yaml.Unmarshal(data, cfg)
}
