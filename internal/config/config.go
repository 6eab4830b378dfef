package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port         int    `validate:"min=1,max=65535"`
	APIKey       string `validate:"required"` // API key for authentication
	LogLevel     string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat    string `validate:"oneof=json text"`
	LogAddSource bool
	Environment  string `validate:"required"`
	ServiceName  string `validate:"required"`
	Version      string

	DBUser            string `validate:"required"`
	DBPassword        string
	DBHost            string `validate:"required"`
	DBPort            string `validate:"required,numeric"`
	DBName            string `validate:"required"`
	DBMaxConns        int    `validate:"min=1"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// RedisAddr enables the cluster-wide reconcile lock when set.
	RedisAddr     string `validate:"omitempty,hostname_port"`
	RedisPassword string

	DailyTimezone            string `validate:"required"`
	StreakBonusTiers         string
	ScarcityWeights          string `validate:"required"`
	SelectorFallback         string
	SelectorMaxClaimAttempts int    `validate:"min=1,max=50"`
	FreePackTierWeights      string `validate:"required"`

	CatalogCacheSize int `validate:"min=1"`
	CatalogCacheTTL  time.Duration
	UserCacheSize    int `validate:"min=1"`
	UserCacheTTL     time.Duration

	ReconcileConcurrency int `validate:"min=1,max=64"`
	ReconcileLockTTL     time.Duration
	ReconcileSchedule    string

	TrustedProxies []string `validate:"dive,cidr|ip"`
	AutoMigrate    bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:       getEnv(EnvAPIKey, ""),
		LogLevel:     getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:    getEnv(EnvLogFormat, DefaultLogFormat),
		LogAddSource: getEnvAsBool(EnvLogAddSource, false),
		Environment:  getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:  getEnv(EnvServiceName, DefaultServiceName),
		Version:      getEnv(EnvVersion, DefaultVersion),

		DBUser:            getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:        getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:            getEnv(EnvDBHost, DefaultDBHost),
		DBPort:            getEnv(EnvDBPort, DefaultDBPort),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),

		RedisAddr:     getEnv(EnvRedisAddr, ""),
		RedisPassword: getEnv(EnvRedisPassword, ""),

		DailyTimezone:            getEnv(EnvDailyTimezone, DefaultDailyTimezone),
		StreakBonusTiers:         getEnv(EnvStreakBonusTiers, DefaultStreakBonusTiers),
		ScarcityWeights:          getEnv(EnvScarcityWeights, DefaultScarcityWeights),
		SelectorFallback:         getEnv(EnvSelectorFallback, DefaultSelectorFallback),
		SelectorMaxClaimAttempts: getEnvAsInt(EnvSelectorMaxClaimAttempts, DefaultSelectorMaxClaimAttempts),
		FreePackTierWeights:      getEnv(EnvFreePackTierWeights, DefaultFreePackTierWeights),

		CatalogCacheSize: getEnvAsInt(EnvCatalogCacheSize, DefaultCatalogCacheSize),
		CatalogCacheTTL:  getEnvAsDuration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),
		UserCacheSize:    getEnvAsInt(EnvUserCacheSize, DefaultUserCacheSize),
		UserCacheTTL:     getEnvAsDuration(EnvUserCacheTTL, DefaultUserCacheTTL),

		ReconcileConcurrency: getEnvAsInt(EnvReconcileConcurrency, DefaultReconcileConcurrency),
		ReconcileLockTTL:     getEnvAsDuration(EnvReconcileLockTTL, DefaultReconcileLockTTL),
		ReconcileSchedule:    getEnv(EnvReconcileSchedule, DefaultReconcileSchedule),

		TrustedProxies: splitList(getEnv(EnvTrustedProxies, "")),
		AutoMigrate:    getEnvAsBool(EnvAutoMigrate, true),
	}

	port, err := strconv.Atoi(getEnv(EnvPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, errors.New(ErrMsgAPIKeyMissing)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that every weight list, fallback
// chain and timezone parses.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf(ErrMsgInvalidField, verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	if _, err := c.SelectorConfig(); err != nil {
		return err
	}
	if _, err := c.DailyConfig(); err != nil {
		return err
	}
	if _, err := c.PackConfig(); err != nil {
		return err
	}
	return nil
}

// Warnings lists non-fatal problems such as example secrets left in place.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is not set - stats reconciliation is only serialised within one process")
	}
	return warnings
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
