package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling configuration. Durations are minutes unless noted.
	SlotGranularityMin   int `mapstructure:"SLOT_GRANULARITY_MIN"`
	HoldTTLMin           int `mapstructure:"HOLD_TTL_MIN"`
	HoldSweepIntervalSec int `mapstructure:"HOLD_SWEEP_INTERVAL_SEC"`
	ReminderLeadMin      int `mapstructure:"REMINDER_LEAD_MIN"`

	// Firebase service account credentials for push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SLOT_GRANULARITY_MIN", 15)
	viper.SetDefault("HOLD_TTL_MIN", 10)
	viper.SetDefault("HOLD_SWEEP_INTERVAL_SEC", 60)
	viper.SetDefault("REMINDER_LEAD_MIN", 120)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "config/serviceAccountKey.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.SlotGranularityMin <= 0 {
		log.Fatalf("SLOT_GRANULARITY_MIN must be positive, got %d", AppConfig.SlotGranularityMin)
	}
	// The sweep must run at least once per hold lifetime, otherwise an
	// expired hold could linger past its TTL.
	if AppConfig.HoldSweepIntervalSec > AppConfig.HoldTTLMin*60 {
		log.Fatalf("HOLD_SWEEP_INTERVAL_SEC (%d) must not exceed the hold TTL (%d min)",
			AppConfig.HoldSweepIntervalSec, AppConfig.HoldTTLMin)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
