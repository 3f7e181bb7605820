package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	GenAIAPIKey    string        `mapstructure:"GENAI_API_KEY"`
	GenAIModel     string        `mapstructure:"GENAI_MODEL"`
	MapsAPIKey     string        `mapstructure:"MAPS_API_KEY"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTExpiry      time.Duration `mapstructure:"JWT_EXPIRY"`
	AdminEmail     string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword  string        `mapstructure:"ADMIN_PASSWORD"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("GENAI_MODEL", "gemini-2.5-flash")
	v.SetDefault("JWT_EXPIRY", "720h") // 30 days
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("GENAI_API_KEY")
	v.BindEnv("GENAI_MODEL")
	v.BindEnv("MAPS_API_KEY")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("JWT_EXPIRY")
	v.BindEnv("ADMIN_EMAIL")
	v.BindEnv("ADMIN_PASSWORD")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env, but don't fail if missing
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

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// the JWT secret and both upstream provider keys must be present so that auth
// and the diagnosis flow actually work.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENV is not development")
		}
		if c.GenAIAPIKey == "" {
			return fmt.Errorf("GENAI_API_KEY is required when ENV is not development")
		}
		if c.MapsAPIKey == "" {
			return fmt.Errorf("MAPS_API_KEY is required when ENV is not development")
		}
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}
