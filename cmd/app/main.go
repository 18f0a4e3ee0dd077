package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/eventlog"
	"orderflow/internal/adapters/out/postgres/earningrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/rabbitmq"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DBConnectionString()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&earningrepo.EarningDTO{},
	); err != nil {
		logger.Error("Failed to migrate database schema", "error", err)
		os.Exit(1)
	}

	calculator, err := buildCalculator(configs)
	if err != nil {
		logger.Error("Invalid payout configuration", "error", err)
		os.Exit(1)
	}

	publisher, closePublisher := buildPublisher(configs, logger)
	defer closePublisher()

	verifier, err := httpin.NewSignalVerifier([]byte(configs.WebhookSecret))
	if err != nil {
		logger.Error("Invalid webhook configuration", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(gormDB, calculator, publisher, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	app.CreateHTTPServer(verifier).RegisterRoutes(e)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil {
			logger.Info("HTTP server stopped", "reason", startErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:         os.Getenv("HTTP_PORT"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBSslMode:        os.Getenv("DB_SSLMODE"),
		AmqpURL:          os.Getenv("AMQP_URL"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		PayoutPolicy:     os.Getenv("PAYOUT_POLICY"),
		PayoutFlatCents:  os.Getenv("PAYOUT_FLAT_CENTS"),
		PayoutFeePercent: os.Getenv("PAYOUT_FEE_PERCENT"),
	}
}

func buildCalculator(configs cmd.Config) (services.PayoutCalculator, error) {
	policy, err := configs.BuildPayoutPolicy()
	if err != nil {
		return services.PayoutCalculator{}, err
	}
	return services.NewPayoutCalculator(policy)
}

// buildPublisher connects to RabbitMQ when an AMQP URL is configured and
// falls back to log-only publishing otherwise.
func buildPublisher(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.AmqpURL == "" {
		logger.Info("AMQP_URL not set, publishing events to the log only")
		return eventlog.NewSlogEventPublisher(logger), func() {}
	}

	publisher, err := rabbitmq.NewRabbitEventPublisher(configs.AmqpURL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, publishing events to the log only", "error", err)
		return eventlog.NewSlogEventPublisher(logger), func() {}
	}

	return publisher, publisher.Close
}
