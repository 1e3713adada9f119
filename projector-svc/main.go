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
)

func main() {
	cfg, err := config.Load(":8082")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logg.Sync()
	logg = logg.With("service", "projector-svc")

	if !cfg.Kafka.Enabled() {
		logg.Fatal("KAFKA_BROKER is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	views, closeViews := app.OpenViews(cfg, logg)
	defer closeViews()

	// Gaps are backfilled from the event store only when it is shared.
	var history projection.HistoryLoader
	if cfg.EventStore == config.StorePostgres {
		store, closeStore := app.OpenEventStore(ctx, cfg, logg)
		defer closeStore()
		history = store
	}

	reader := config.NewKafkaReader(cfg.Kafka)
	defer reader.Close()

	consumer := service.NewConsumer(reader, views.All(), history, logg)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logg.Error("consumer stopped, offset left uncommitted", "error", err)
		}
		stop()
	}()

	handler := httpapi.NewHandler(nil, service.NewQueueService(views), nil)
	router := httpapi.NewRouter(handler.RegisterQueryRoutes)

	logg.Info("projector service starting", "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)
	if err := app.Serve(ctx, httpapi.NewServer(cfg.HTTPAddr, router), logg); err != nil {
		logg.Error("http server stopped", "error", err)
	}
}
