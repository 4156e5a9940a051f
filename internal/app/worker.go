package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/gps"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/messaging/kafka"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/messaging/kafka/producer"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/selfie"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/connection"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/sweep"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker hosts the two background loops: the outbox relay that pushes
// pending events to Kafka, and the cron sweep that force-closes sessions
// open past the cap.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	if err := applyTuningOverrides(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if kafkaBroker := os.Getenv("KAFKA_BROKER"); kafkaBroker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		go producer.ProcessOutboxEvents(
			ctx,
			outboxRepo,
			kafkaWriter,
			logger,
			3*time.Second,
		)
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox relay disabled")
	}

	// The sweep closes sessions from a fresh device fix when one is
	// available. The worker has no device to ask, so the engine falls
	// back to the check-in fix.
	attendanceRepo := attendance.NewRepository(gormDB)
	attendanceService := attendance.NewService(
		sqlDB,
		attendanceRepo,
		selfie.StaticUploader{BaseURL: "https://selfies.invalid"},
		gps.UnavailableProvider{},
		outboxRepo,
		nil,
	)

	c := cron.New()
	sweeper := sweep.NewSweeper(attendanceRepo, attendanceService, logger)
	if err := sweeper.Register(c); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
