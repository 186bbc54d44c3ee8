package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shopsync/internal/app"
	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/worker"
	"shopsync/internal/worker/processors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := logger.New(cfg.LogLevel)

	if err := cfg.ValidateSync(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}
	if len(cfg.Brokers()) == 0 {
		logger.Fatal("KAFKA_BROKERS is required to run the worker")
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processor := processors.NewEventProcessor(a.Syncer, logger)
	w := worker.New(worker.NewReader(cfg), processor, logger)

	logger.Info("Starting worker...")
	go w.Start(ctx)

	<-ctx.Done()
	logger.Info("Shutting down worker...")
	w.Stop()
}
