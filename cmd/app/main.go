package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courierdispatch/cmd"
	httpadapter "courierdispatch/internal/adapters/in/http"
	"courierdispatch/internal/adapters/out/kafka"
	"courierdispatch/internal/adapters/out/postgres/migrations"
	"courierdispatch/internal/adapters/out/rediscache"
	"courierdispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := cmd.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(config.LogLevel)
	slog.SetDefault(logger)

	if err = run(config, logger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(config cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := connectDatabase(ctx, config)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err = migrations.Up(sqlDB, config.DBName); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	var cache ports.CourierProfileCache
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		defer client.Close()
		if err = client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		cache = rediscache.NewProfileCache(client, config.ProfileTTL)
	} else {
		logger.Warn("Redis is not configured, courier profiles are not cached")
	}

	var publisher ports.EventPublisher
	if len(config.KafkaBrokers) > 0 {
		producer, err := kafka.NewSyncProducer(config.KafkaBrokers)
		if err != nil {
			return err
		}
		kafkaPublisher := kafka.NewPublisher(producer, config.KafkaTopic, config.RetryAttempts, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn("Kafka is not configured, domain events stay in the outbox")
	}

	app := cmd.NewCompositionRoot(config, gormDB, cache, publisher, logger)

	if jobManager := app.CreateJobManager(); jobManager != nil {
		if err = jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()
	}

	router, err := httpadapter.NewRouter(app.CreateHTTPServer(), app.RouterConfig(), logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "port", config.HTTPPort)
		serverErr <- router.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}

// connectDatabase opens the pool and waits for the database to accept connections.
func connectDatabase(ctx context.Context, config cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(config.RetryAttempts, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.Warn("Database is not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return gormDB, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
