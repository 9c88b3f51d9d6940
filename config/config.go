// Package config loads client and dev-backend settings from defaults, an
// optional YAML file, a .env file and the environment, in rising order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends for the persisted session.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	AuthURL       string        `yaml:"auth_url"`
	APIURL        string        `yaml:"api_url"`
	Store         string        `yaml:"store"`
	StorePath     string        `yaml:"store_path"`
	PostgresDSN   string        `yaml:"postgres_dsn"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisTLS      bool          `yaml:"redis_tls"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	EnrichLimit   int           `yaml:"enrich_limit"`
	DefaultAvatar string        `yaml:"default_avatar"`
	DevAuthAddr   string        `yaml:"dev_auth_addr"`
	DevAPIAddr    string        `yaml:"dev_api_addr"`
	DevJWTSecret  string        `yaml:"dev_jwt_secret"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		AuthURL:       "http://localhost:8091",
		APIURL:        "http://localhost:8080",
		Store:         StoreFile,
		StorePath:     defaultStorePath(),
		HTTPTimeout:   15 * time.Second,
		EnrichLimit:   4,
		DefaultAvatar: "/Naruto.jpg",
		DevAuthAddr:   ":8091",
		DevAPIAddr:    ":8080",
		DevJWTSecret:  "dev-secret",
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ims-session.json"
	}
	return filepath.Join(dir, "ims", "session.json")
}

// Load reads configuration from IMS_CONFIG (if set) and the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("IMS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.AuthURL = getEnv("IMS_AUTH_URL", c.AuthURL)
	c.APIURL = getEnv("IMS_API_URL", c.APIURL)
	c.Store = getEnv("IMS_STORE", c.Store)
	c.StorePath = getEnv("IMS_STORE_PATH", c.StorePath)
	c.PostgresDSN = getEnv("IMS_POSTGRES_DSN", c.PostgresDSN)
	c.RedisAddr = getEnv("IMS_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("IMS_REDIS_PASSWORD", c.RedisPassword)
	c.DefaultAvatar = getEnv("IMS_DEFAULT_AVATAR", c.DefaultAvatar)
	c.DevAuthAddr = getEnv("IMS_DEV_AUTH_ADDR", c.DevAuthAddr)
	c.DevAPIAddr = getEnv("IMS_DEV_ADDR", c.DevAPIAddr)
	c.DevJWTSecret = getEnv("IMS_DEV_JWT_SECRET", c.DevJWTSecret)

	if v, ok := os.LookupEnv("IMS_HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("IMS_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v, ok := os.LookupEnv("IMS_REDIS_TLS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("IMS_REDIS_TLS: %w", err)
		}
		c.RedisTLS = b
	}
	if v, ok := os.LookupEnv("IMS_ENRICH_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMS_ENRICH_LIMIT: %w", err)
		}
		c.EnrichLimit = n
	}
	return nil
}

// Validate checks that the selected store backend has what it needs.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.StorePath == "" {
			return fmt.Errorf("IMS_STORE_PATH is required for the file store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("IMS_POSTGRES_DSN is required for the postgres store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("IMS_REDIS_ADDR is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.AuthURL == "" || c.APIURL == "" {
		return fmt.Errorf("IMS_AUTH_URL and IMS_API_URL must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
