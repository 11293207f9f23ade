package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kantin-dashboard/config"
	httpapi "kantin-dashboard/dashboard-svc/internal/api/http"
	"kantin-dashboard/dashboard-svc/internal/service"
	"kantin-dashboard/dashboard-svc/internal/storage"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("8081")
	logger := config.NewLogger("dashboard-svc")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.OrderEventsTopic)
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure schema", zap.Error(err))
	}

	cache := storage.NewRedisCache(rdb, cfg.OrderCacheTTL)
	images := storage.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL)

	sessions := session.NewRedisStore(rdb, cfg.CacheTTL)
	tokens := session.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	resolver := session.NewResolver(session.NewPostgresLookup(db), sessions, logger)
	authenticator := session.NewAuthenticator(tokens, sessions, resolver, logger)

	hub := httpapi.NewHub(logger)
	go hub.Run(ctx)

	// The live feed goes first so a slow broker never holds it back.
	publishers := service.Publishers{hub, storage.NewKafkaPublisher(writer)}
	qr := service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}

	orderSvc := service.NewOrderService(repo, cache, publishers, qr, logger)
	menuSvc := service.NewMenuService(repo, images, logger)
	restSvc := service.NewRestaurantService(repo, images)
	authSvc := service.NewAuthService(repo, images, tokens, sessions, resolver, cache,
		service.LogOTPSender{Logger: logger}, logger)

	handler := httpapi.NewHandler(orderSvc, menuSvc, restSvc, authSvc, hub, logger)
	router := httpapi.NewRouter(handler, authenticator.Middleware, cfg.UploadDir, cfg.RequestTimeout)

	if err := httpapi.StartServer(ctx, ":"+cfg.Port, router, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
