package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// ESPN fantasy league access
	ESPNLeagueID  int64  `mapstructure:"ESPN_LEAGUE_ID"`
	ESPNSeason    int    `mapstructure:"ESPN_SEASON"`
	ESPNS2        string `mapstructure:"ESPN_S2"`
	SWID          string `mapstructure:"SWID"`
	ESPNRateLimit int    `mapstructure:"ESPN_RATE_LIMIT"`

	// External call bounds
	ExternalAPITimeout time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	ScoreboardTimeout  time.Duration `mapstructure:"SCOREBOARD_TIMEOUT"`

	// Caching
	ScheduleCacheTTL int `mapstructure:"SCHEDULE_CACHE_TTL"` // seconds
	LeagueCacheTTL   int `mapstructure:"LEAGUE_CACHE_TTL"`   // seconds

	// Projection windows and pool sizes
	DefaultDaysWindow   int `mapstructure:"DEFAULT_DAYS_WINDOW"`
	TeamsDaysWindow     int `mapstructure:"TEAMS_DAYS_WINDOW"`
	RecommendationLimit int `mapstructure:"RECOMMENDATION_LIMIT"`
	FreeAgentPoolSize   int `mapstructure:"FREE_AGENT_POOL_SIZE"`

	// Static UI
	WebDir string `mapstructure:"WEB_DIR"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("ESPN_LEAGUE_ID", 0)
	viper.SetDefault("ESPN_SEASON", 2026)
	viper.SetDefault("ESPN_S2", "")
	viper.SetDefault("SWID", "")
	viper.SetDefault("ESPN_RATE_LIMIT", 10) // requests per second

	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("SCOREBOARD_TIMEOUT", "15s")

	viper.SetDefault("SCHEDULE_CACHE_TTL", 900) // 15 minutes
	viper.SetDefault("LEAGUE_CACHE_TTL", 300)

	viper.SetDefault("DEFAULT_DAYS_WINDOW", 21)
	viper.SetDefault("TEAMS_DAYS_WINDOW", 7)
	viper.SetDefault("RECOMMENDATION_LIMIT", 10)
	viper.SetDefault("FREE_AGENT_POOL_SIZE", 300)

	viper.SetDefault("WEB_DIR", "./web")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) ScheduleTTL() time.Duration {
	return time.Duration(c.ScheduleCacheTTL) * time.Second
}

func (c *Config) LeagueTTL() time.Duration {
	return time.Duration(c.LeagueCacheTTL) * time.Second
}
