package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OpenData OpenDataConfig
	LLM      LLMConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// OpenDataConfig holds the NYC Open Data endpoints used by the building
// fetcher. FootprintsURL serves building footprint GeoJSON features;
// PlutoURL serves PLUTO parcel attribute records. Limit bounds both calls.
type OpenDataConfig struct {
	FootprintsURL string
	PlutoURL      string
	Limit         int
	Timeout       time.Duration
}

// LLMConfig holds the Gemini API configuration for the query interpreter.
// APIKey may be empty: its absence is surfaced as a query-time error, not
// a startup failure, so a deployment without a key can still serve every
// non-query endpoint.
type LLMConfig struct {
	APIKey string
	Model  string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "skyline")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("OPENDATA_FOOTPRINTS_URL", "https://data.cityofnewyork.us/resource/u9wf-3gbt.geojson")
	v.SetDefault("OPENDATA_PLUTO_URL", "https://data.cityofnewyork.us/resource/64uk-42ks.json")
	v.SetDefault("OPENDATA_LIMIT", 100)
	v.SetDefault("OPENDATA_TIMEOUT_SECONDS", 30)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		OpenData: OpenDataConfig{
			FootprintsURL: v.GetString("OPENDATA_FOOTPRINTS_URL"),
			PlutoURL:      v.GetString("OPENDATA_PLUTO_URL"),
			Limit:         v.GetInt("OPENDATA_LIMIT"),
			Timeout:       time.Duration(v.GetInt("OPENDATA_TIMEOUT_SECONDS")) * time.Second,
		},
		LLM: LLMConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// GEMINI_API_KEY is intentionally not validated here: a missing credential
// is reported when a query is made, never at startup.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate open data config
	if c.OpenData.FootprintsURL == "" {
		return fmt.Errorf("OPENDATA_FOOTPRINTS_URL is required")
	}
	if c.OpenData.PlutoURL == "" {
		return fmt.Errorf("OPENDATA_PLUTO_URL is required")
	}
	if c.OpenData.Limit < 1 {
		return fmt.Errorf("OPENDATA_LIMIT must be at least 1")
	}

	// Validate LLM config
	if c.LLM.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is required")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
