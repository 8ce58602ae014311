package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis (leaderboard cache, action rate limiting)
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Fan-out adapter: write retry budget before a write surfaces as a
	// transport failure.
	WriteRetries int `mapstructure:"WRITE_RETRIES"`

	// Interval between level reconciliation sweeps.
	LevelSweepInterval string `mapstructure:"LEVEL_SWEEP_INTERVAL"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("WRITE_RETRIES", 3)
	viper.SetDefault("LEVEL_SWEEP_INTERVAL", "10m")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
