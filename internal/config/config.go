package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	UpstreamURL string `mapstructure:"UPSTREAM_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis (leaderboard snapshot cache; optional)
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Engine tunables
	LeaderboardCacheTTL int `mapstructure:"LEADERBOARD_CACHE_TTL"` // seconds
	UpstreamTimeout     int `mapstructure:"UPSTREAM_TIMEOUT"`      // seconds
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("UPSTREAM_URL", "http://localhost:3000")
	viper.SetDefault("LEADERBOARD_CACHE_TTL", 10)
	viper.SetDefault("UPSTREAM_TIMEOUT", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
