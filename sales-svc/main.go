package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kantin-dashboard/config"
	httpapi "kantin-dashboard/sales-svc/internal/api/http"
	"kantin-dashboard/sales-svc/internal/service"
	"kantin-dashboard/sales-svc/internal/storage"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("8083")
	logger := config.NewLogger("sales-svc")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	sessions := session.NewRedisStore(rdb, cfg.CacheTTL)
	tokens := session.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	resolver := session.NewResolver(session.NewPostgresLookup(db), sessions, logger)
	authenticator := session.NewAuthenticator(tokens, sessions, resolver, logger)

	salesSvc := service.NewSalesService(
		storage.NewPostgresRepository(db),
		storage.NewRedisCounters(rdb),
		cfg.Location,
		logger,
	)

	handler := httpapi.NewHandler(salesSvc, cfg.Location, logger)
	router := httpapi.NewRouter(handler, authenticator.Middleware, cfg.RequestTimeout)

	if err := httpapi.StartServer(ctx, ":"+cfg.Port, router, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
