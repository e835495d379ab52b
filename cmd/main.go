package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/kafka"
	"github.com/printhub-store/backend/internal/logger"
	"github.com/printhub-store/backend/internal/repository/postgresql"
	"github.com/printhub-store/backend/internal/server"
	"github.com/printhub-store/backend/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	database, err := db.NewDb(ctx)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.GetPool().Close()

	orderRepo := postgresql.NewOrderRepo(database)
	notificationRepo := postgresql.NewNotificationRepo(database)
	shopRepo := postgresql.NewShopRepo(database)
	pricingRepo := postgresql.NewPricingConfigRepo(database)
	userRepo := postgresql.NewUserRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()

	producer := newProducer(log)
	defer func() { _ = producer.Close() }()

	svc := service.New(database, orderRepo, notificationRepo, shopRepo, pricingRepo, outboxRepo, log)
	if err := svc.WarmCache(ctx); err != nil {
		log.Warn("order cache warmup failed", zap.Error(err))
	}

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    50,
		MaxAttempts:  5,
	}, log)

	srv := server.New(svc, userRepo, producer, log)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "9000"
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gCtx, port)
	})

	g.Go(func() error {
		publisher.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		publisher.Shutdown()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown finished with error", zap.Error(err))
		return
	}
	log.Info("server gracefully stopped")
}

// newProducer connects to Kafka when brokers are configured and falls
// back to console output for local runs without a broker.
func newProducer(log *zap.Logger) kafka.Producer {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Warn("KAFKA_BROKERS not set, events are logged to console")
		return kafka.NewConsoleProducer()
	}
	return kafka.NewWriterProducer(strings.Split(brokers, ","))
}
