package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-tab/config"
	httpapi "cafe-tab/internal/api/http"
	"cafe-tab/internal/app"
	"cafe-tab/internal/gateway"
	"cafe-tab/internal/platform/logger"

	"github.com/rs/cors"
)

func newHandler(cfg config.Gateway, logg *logger.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		TabSvcURL:       cfg.TabSvcURL,
		ProjectorSvcURL: cfg.ProjectorSvcURL,
	}, &http.Client{Timeout: 10 * time.Second}, logg)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg, err := config.Load(":8080")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logg.Sync()
	logg = logg.With("service", "api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg.Info("api gateway starting",
		"tab_svc", cfg.Gateway.TabSvcURL,
		"projector_svc", cfg.Gateway.ProjectorSvcURL,
	)
	srv := httpapi.NewServer(cfg.HTTPAddr, newHandler(cfg.Gateway, logg))
	if err := app.Serve(ctx, srv, logg); err != nil {
		logg.Error("http server stopped", "error", err)
	}
}
