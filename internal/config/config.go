package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DBPath          string   `mapstructure:"DB_PATH"`
	SessionTTLHours int      `mapstructure:"SESSION_TTL_HOURS"`
	BcryptCost      int      `mapstructure:"BCRYPT_COST"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	LogFile         string   `mapstructure:"LOG_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PATH", "data/clinik.db")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("BCRYPT_COST", 0) // 0 means the bcrypt default
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DB_PATH")
	v.BindEnv("SESSION_TTL_HOURS")
	v.BindEnv("BCRYPT_COST")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.SessionTTLHours < 1 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be at least 1, got %d", cfg.SessionTTLHours)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SessionTTL returns the configured session lifetime as a duration
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
