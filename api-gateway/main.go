package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kantin-dashboard/api-gateway/internal/gateway"
	"kantin-dashboard/config"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("8080")
	logger := config.NewLogger("api-gateway")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewGateway(gateway.Config{
		DashboardSvcURL: cfg.DashboardSvcURL,
		SalesSvcURL:     cfg.SalesSvcURL,
		RateSvcURL:      cfg.RateSvcURL,
	}, &http.Client{Timeout: 60 * time.Second}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api gateway starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("gateway failed", zap.Error(err))
	}
}
