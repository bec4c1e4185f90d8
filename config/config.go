package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB          int    `mapstructure:"REDIS_LOCK_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`
	UseRedisLocks        bool   `mapstructure:"USE_REDIS_LOCKS"`

	// Google Maps API Key.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`
	StripeKey    string `mapstructure:"STRIPE_KEY"`

	// Scheduling engine.
	MaxReschedules            int `mapstructure:"MAX_RESCHEDULES"`
	SlotGranularityMinutes    int `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	ArrivalRadiusMeters       int `mapstructure:"ARRIVAL_RADIUS_METERS"`
	DirectionsTimeoutSeconds  int `mapstructure:"DIRECTIONS_TIMEOUT_SECONDS"`
	DirectionsCacheTTLSeconds int `mapstructure:"DIRECTIONS_CACHE_TTL_SECONDS"`
	BookingLockTTLSeconds     int `mapstructure:"BOOKING_LOCK_TTL_SECONDS"`
	ReminderLeadMinutes       int `mapstructure:"REMINDER_LEAD_MINUTES"`
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

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("USE_REDIS_LOCKS", true)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "shinely")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("STRIPE_KEY", "")

	viper.SetDefault("MAX_RESCHEDULES", 3)
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 30)
	viper.SetDefault("ARRIVAL_RADIUS_METERS", 150)
	viper.SetDefault("DIRECTIONS_TIMEOUT_SECONDS", 4)
	viper.SetDefault("DIRECTIONS_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("BOOKING_LOCK_TTL_SECONDS", 10)
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)
}

// EngineSettings is the typed view of the scheduling knobs.
type EngineSettings struct {
	MaxReschedules    int
	SlotGranularity   int
	ArrivalRadiusM    float64
	DirectionsTimeout time.Duration
	DirectionsTTL     time.Duration
	LockTTL           time.Duration
	ReminderLead      time.Duration
}

// Engine returns the scheduling settings with non-positive values replaced by defaults.
func (c Config) Engine() EngineSettings {
	return EngineSettings{
		MaxReschedules:    orDefault(c.MaxReschedules, 3),
		SlotGranularity:   orDefault(c.SlotGranularityMinutes, 30),
		ArrivalRadiusM:    float64(orDefault(c.ArrivalRadiusMeters, 150)),
		DirectionsTimeout: time.Duration(orDefault(c.DirectionsTimeoutSeconds, 4)) * time.Second,
		DirectionsTTL:     time.Duration(orDefault(c.DirectionsCacheTTLSeconds, 300)) * time.Second,
		LockTTL:           time.Duration(orDefault(c.BookingLockTTLSeconds, 10)) * time.Second,
		ReminderLead:      time.Duration(orDefault(c.ReminderLeadMinutes, 60)) * time.Minute,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
