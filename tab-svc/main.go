package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cafe-tab/config"
	httpapi "cafe-tab/internal/api/http"
	"cafe-tab/internal/app"
	"cafe-tab/internal/platform/logger"
	"cafe-tab/internal/projection"
	"cafe-tab/internal/service"
	"cafe-tab/internal/storage"
)

func main() {
	cfg, err := config.Load(":8081")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logg.Sync()
	logg = logg.With("service", "tab-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := app.OpenEventStore(ctx, cfg, logg)
	defer closeStore()

	views, closeViews := app.OpenViews(cfg, logg)
	defer closeViews()

	projections := []projection.Projection{projection.LogProjection{Log: logg}}
	if cfg.InlineProjections {
		projections = append(projections, views.All()...)
	}
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		projections = append(projections, storage.NewKafkaPublisher(writer))
	}

	dispatcher := service.NewDispatcher(store, projections, cfg.CommandMaxAttempts, logg)
	handler := httpapi.NewHandler(
		dispatcher,
		service.NewQueueService(views),
		service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL},
	)
	router := httpapi.NewRouter(handler.RegisterCommandRoutes, handler.RegisterQueryRoutes)

	logg.Info("tab service starting",
		"event_store", cfg.EventStore,
		"view_store", cfg.ViewStore,
		"inline_projections", cfg.InlineProjections,
		"kafka", cfg.Kafka.Enabled(),
	)
	if err := app.Serve(ctx, httpapi.NewServer(cfg.HTTPAddr, router), logg); err != nil {
		logg.Error("http server stopped", "error", err)
	}
}
