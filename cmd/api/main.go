package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shopsync/internal/api"
	"shopsync/internal/api/handlers"
	"shopsync/internal/app"
	"shopsync/internal/config"
	"shopsync/internal/events"
	"shopsync/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := logger.New(cfg.LogLevel)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// With Kafka configured the worker runs passes; otherwise this process does.
	var trigger handlers.Trigger
	var local *app.LocalTrigger
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		requests := events.NewKafkaPublisher(brokers, cfg.KafkaRequestsTopic)
		defer requests.Close()
		trigger = app.NewQueueTrigger(requests)
	} else {
		if err := cfg.ValidateSync(); err != nil {
			logger.Warning("Sync requests will fail: %v", err)
		}
		local = app.NewLocalTrigger(ctx, a.Syncer, logger)
		trigger = local
	}

	server := api.New(cfg, logger, a.Store, trigger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	if local != nil {
		local.Wait()
	}
}
