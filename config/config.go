package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env  string
		Port string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
	JWT struct {
		AccessTokenSecret        string
		AccessTokenExpiryMinutes int
	}
	AMQP struct {
		URL      string
		Exchange string
	}
	// Booking holds the business policy knobs of the booking/ledger engine.
	// Threshold and cutoff values are policy, not code; they are only read here.
	Booking struct {
		HoldGrace         time.Duration // unpaid holds older than this are reaped
		ReaperInterval    time.Duration
		ReminderLookahead time.Duration // confirmed bookings starting within this window get a reminder
		RefundCutoffHours int           // full refund when cancelled at least this many hours before start
		RecurringMinTier  int           // minimum member tier allowed to book recurring series (see member.Tier)

		SilverThreshold  decimal.Decimal // cumulative spend thresholds for tier upgrades
		GoldThreshold    decimal.Decimal
		DiamondThreshold decimal.Decimal
	}
}

// Global DB instance, set by ConnectDB via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig reads configuration from environment variables. A missing .env
// file is not an error; production sets variables directly.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables.")
	}

	cfg := &Config{}

	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8080")

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "pcm_db")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.JWT.AccessTokenSecret = getEnv("JWT_ACCESS_TOKEN_SECRET", "supersecret")

	var err error
	cfg.JWT.AccessTokenExpiryMinutes, err = getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	cfg.AMQP.URL = getEnv("AMQP_URL", "")
	cfg.AMQP.Exchange = getEnv("AMQP_EXCHANGE", "pcm.events")

	holdGraceMinutes, err := getEnvAsInt("BOOKING_HOLD_GRACE_MINUTES", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_HOLD_GRACE_MINUTES: %w", err)
	}
	cfg.Booking.HoldGrace = time.Duration(holdGraceMinutes) * time.Minute

	reaperSeconds, err := getEnvAsInt("BOOKING_REAPER_INTERVAL_SECONDS", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REAPER_INTERVAL_SECONDS: %w", err)
	}
	cfg.Booking.ReaperInterval = time.Duration(reaperSeconds) * time.Second

	lookaheadHours, err := getEnvAsInt("BOOKING_REMINDER_LOOKAHEAD_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REMINDER_LOOKAHEAD_HOURS: %w", err)
	}
	cfg.Booking.ReminderLookahead = time.Duration(lookaheadHours) * time.Hour

	cfg.Booking.RefundCutoffHours, err = getEnvAsInt("BOOKING_REFUND_CUTOFF_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REFUND_CUTOFF_HOURS: %w", err)
	}

	cfg.Booking.RecurringMinTier, err = getEnvAsInt("BOOKING_RECURRING_MIN_TIER", 2) // Gold
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_RECURRING_MIN_TIER: %w", err)
	}

	cfg.Booking.SilverThreshold, err = getEnvAsDecimal("TIER_SILVER_THRESHOLD", "5000000")
	if err != nil {
		return nil, err
	}
	cfg.Booking.GoldThreshold, err = getEnvAsDecimal("TIER_GOLD_THRESHOLD", "20000000")
	if err != nil {
		return nil, err
	}
	cfg.Booking.DiamondThreshold, err = getEnvAsDecimal("TIER_DIAMOND_THRESHOLD", "50000000")
	if err != nil {
		return nil, err
	}

	if cfg.JWT.AccessTokenSecret == "supersecret" && cfg.App.Env == "production" {
		log.Println("WARNING: Using default JWT secret in production. Set JWT_ACCESS_TOKEN_SECRET.")
	}

	appConfig = cfg
	return cfg, nil
}

// ConnectDB opens the Postgres connection and sets the global DB handle.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)

	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	return gormDB, nil
}

// Initialize loads configuration and connects to the database exactly once.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		if _, err = ConnectDB(cfg); err != nil {
			loadErr = err
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsDecimal(key, fallback string) (decimal.Decimal, error) {
	valueStr := getEnv(key, fallback)
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("env var %s: expected decimal, got '%s'", key, valueStr)
	}
	return value, nil
}
