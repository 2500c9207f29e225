package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"agritrade/internal/jobs"
	"agritrade/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PubSubProjectID string
	PubSubTopic     string
	PubSubTimeout   time.Duration

	PaymentBaseURL     string
	PaymentAPIKey      string
	PaymentTimeout     time.Duration
	PaymentMaxAttempts uint64

	FormationLockTTL    time.Duration
	ReserveAttempts     int
	CurrencyScale       int32
	EventBusBuffer      int
	ShutdownGracePeriod time.Duration

	Schedules jobs.Schedules
}

// LoadConfig reads envFile when it exists, then the process environment, which wins.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PUBSUB_TOPIC", "trade-events")
	v.SetDefault("PUBSUB_TIMEOUT", "10s")
	v.SetDefault("PAYMENT_TIMEOUT", "15s")
	v.SetDefault("PAYMENT_MAX_ATTEMPTS", 3)
	v.SetDefault("FORMATION_LOCK_TTL", "30s")
	v.SetDefault("RESERVE_ATTEMPTS", 3)
	v.SetDefault("CURRENCY_SCALE", 0)
	v.SetDefault("EVENT_BUS_BUFFER", 256)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "15s")
	v.SetDefault("JOB_OUTBOX_RELAY", jobs.DefaultSchedules.OutboxRelay)
	v.SetDefault("JOB_STORAGE_SWEEP", jobs.DefaultSchedules.StorageSweep)
	v.SetDefault("JOB_LISTING_EXPIRY", jobs.DefaultSchedules.ListingExpiry)
	v.SetDefault("JOB_PAYOUT_DISPATCH", jobs.DefaultSchedules.PayoutDispatch)
	v.SetDefault("JOB_BATCH_SIZE", jobs.DefaultSchedules.BatchSize)

	cfg := Config{
		HTTPPort:            v.GetString("HTTP_PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBSslMode:           v.GetString("DB_SSLMODE"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		PubSubProjectID:     v.GetString("PUBSUB_PROJECT_ID"),
		PubSubTopic:         v.GetString("PUBSUB_TOPIC"),
		PubSubTimeout:       v.GetDuration("PUBSUB_TIMEOUT"),
		PaymentBaseURL:      v.GetString("PAYMENT_BASE_URL"),
		PaymentAPIKey:       v.GetString("PAYMENT_API_KEY"),
		PaymentTimeout:      v.GetDuration("PAYMENT_TIMEOUT"),
		PaymentMaxAttempts:  v.GetUint64("PAYMENT_MAX_ATTEMPTS"),
		FormationLockTTL:    v.GetDuration("FORMATION_LOCK_TTL"),
		ReserveAttempts:     v.GetInt("RESERVE_ATTEMPTS"),
		CurrencyScale:       v.GetInt32("CURRENCY_SCALE"),
		EventBusBuffer:      v.GetInt("EVENT_BUS_BUFFER"),
		ShutdownGracePeriod: v.GetDuration("SHUTDOWN_GRACE_PERIOD"),
		Schedules: jobs.Schedules{
			OutboxRelay:    v.GetString("JOB_OUTBOX_RELAY"),
			StorageSweep:   v.GetString("JOB_STORAGE_SWEEP"),
			ListingExpiry:  v.GetString("JOB_LISTING_EXPIRY"),
			PayoutDispatch: v.GetString("JOB_PAYOUT_DISPATCH"),
			BatchSize:      v.GetInt("JOB_BATCH_SIZE"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	required := []struct{ key, value string }{
		{"HTTP_PORT", c.HTTPPort},
		{"DB_HOST", c.DBHost},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"REDIS_ADDR", c.RedisAddr},
		{"PAYMENT_BASE_URL", c.PaymentBaseURL},
	}
	var errList []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(r.key))
		}
	}
	if c.CurrencyScale < 0 || c.CurrencyScale > 8 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("CURRENCY_SCALE", c.CurrencyScale, 0, 8))
	}
	if c.FormationLockTTL <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("FORMATION_LOCK_TTL"))
	}
	return errors.Join(errList...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
