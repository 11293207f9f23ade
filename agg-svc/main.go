package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kantin-dashboard/agg-svc/internal/service"
	"kantin-dashboard/agg-svc/internal/storage"
	"kantin-dashboard/config"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("")
	logger := config.NewLogger("agg-svc")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.OrderEventsTopic, "agg-svc")
	defer reader.Close()

	counters := storage.NewRedisCounters(rdb, storage.CounterRetention)
	consumer := service.NewConsumer(reader, counters, cfg.Location, logger)
	reconciler := service.NewReconciler(storage.NewPostgresSource(db), counters, time.Hour, cfg.Location, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reconciler.Run(ctx)
	}()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("consumer failed", zap.Error(err))
	}
	stop()
	wg.Wait()
	logger.Info("agg-svc stopped")
}
