package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DataDir         string   `mapstructure:"DATA_DIR"`
	LegacyDataFile  string   `mapstructure:"LEGACY_DATA_FILE"`
	CenterName      string   `mapstructure:"CENTER_NAME"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	ExportDir       string   `mapstructure:"EXPORT_DIR"`
	DefaultDoseHour int      `mapstructure:"DEFAULT_DOSE_HOUR"`
	RateLimitRPS    float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8600")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LEGACY_DATA_FILE", "./data/pharmalocal_data.json")
	v.SetDefault("CENTER_NAME", "Centro de Salud / Hospital General")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("DEFAULT_DOSE_HOUR", 8)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 0)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("LEGACY_DATA_FILE")
	v.BindEnv("CENTER_NAME")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("EXPORT_DIR")
	v.BindEnv("DEFAULT_DOSE_HOUR")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

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

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.DefaultDoseHour < 0 || c.DefaultDoseHour > 23 {
		return fmt.Errorf("DEFAULT_DOSE_HOUR must be in [0,23], got %d", c.DefaultDoseHour)
	}
	return nil
}
