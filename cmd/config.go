package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort  string  `toml:"http_port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
	LogLevel  string  `toml:"log_level"`

	DBHost     string `toml:"db_host"`
	DBPort     string `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBSslMode  string `toml:"db_sslmode"`

	// RetryAttempts bounds retries of conflicting transactions, database connects and
	// Kafka sends.
	RetryAttempts uint64 `toml:"retry_attempts"`

	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	ProfileTTL    time.Duration `toml:"profile_ttl"`

	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`

	OutboxRelaySchedule   string        `toml:"outbox_relay_schedule"`
	OutboxBatchSize       int           `toml:"outbox_batch_size"`
	OutboxCleanupSchedule string        `toml:"outbox_cleanup_schedule"`
	OutboxRetention       time.Duration `toml:"outbox_retention"`
}

// DefaultConfig returns the settings used for keys missing from both the file and
// the environment.
func DefaultConfig() Config {
	return Config{
		HTTPPort:              "8080",
		RateLimit:             10,
		RateBurst:             20,
		LogLevel:              "info",
		DBHost:                "localhost",
		DBPort:                "5432",
		DBUser:                "postgres",
		DBName:                "dispatch",
		DBSslMode:             "disable",
		RetryAttempts:         3,
		ProfileTTL:            time.Minute,
		KafkaTopic:            "courier-events",
		OutboxRelaySchedule:   "*/2 * * * * *",
		OutboxBatchSize:       100,
		OutboxCleanupSchedule: "0 */10 * * * *",
		OutboxRetention:       24 * time.Hour,
	}
}

// LoadConfig reads the TOML file at path, when it exists, over the defaults and then
// applies environment overrides. Variables from a .env file in the working directory
// are loaded first without replacing variables already set.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_PORT":               &c.HTTPPort,
		"LOG_LEVEL":               &c.LogLevel,
		"DB_HOST":                 &c.DBHost,
		"DB_PORT":                 &c.DBPort,
		"DB_USER":                 &c.DBUser,
		"DB_PASSWORD":             &c.DBPassword,
		"DB_NAME":                 &c.DBName,
		"DB_SSLMODE":              &c.DBSslMode,
		"REDIS_ADDR":              &c.RedisAddr,
		"REDIS_PASSWORD":          &c.RedisPassword,
		"KAFKA_TOPIC":             &c.KafkaTopic,
		"OUTBOX_RELAY_SCHEDULE":   &c.OutboxRelaySchedule,
		"OUTBOX_CLEANUP_SCHEDULE": &c.OutboxCleanupSchedule,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}

	var errList []error
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(key); ok {
			if err := set(v); err != nil {
				errList = append(errList, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	parse("RATE_LIMIT", func(v string) (err error) { c.RateLimit, err = strconv.ParseFloat(v, 64); return })
	parse("RATE_BURST", func(v string) (err error) { c.RateBurst, err = strconv.Atoi(v); return })
	parse("RETRY_ATTEMPTS", func(v string) (err error) { c.RetryAttempts, err = strconv.ParseUint(v, 10, 64); return })
	parse("REDIS_DB", func(v string) (err error) { c.RedisDB, err = strconv.Atoi(v); return })
	parse("PROFILE_TTL", func(v string) (err error) { c.ProfileTTL, err = time.ParseDuration(v); return })
	parse("OUTBOX_BATCH_SIZE", func(v string) (err error) { c.OutboxBatchSize, err = strconv.Atoi(v); return })
	parse("OUTBOX_RETENTION", func(v string) (err error) { c.OutboxRetention, err = time.ParseDuration(v); return })

	return errors.Join(errList...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
