package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// DatabaseURL, when non-empty, switches the reservation store from
	// the in-memory default to the Mongo-backed one.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis backs the asynq reschedule-sweep queue.
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisRescheduleQueueDB int    `mapstructure:"REDIS_RESCHEDULE_QUEUE_DB"`

	ScenarioFixturePath string `mapstructure:"SCENARIO_FIXTURE_PATH"`
}

var AppConfig Config

func LoadConfig() {
	viper.SetConfigName("c")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_RESCHEDULE_QUEUE_DB", 0)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SCENARIO_FIXTURE_PATH", "docs/test_scenarios.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
