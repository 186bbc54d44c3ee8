package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shopsync/internal/app"
	"shopsync/internal/config"
	"shopsync/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.ValidateSync(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := a.Syncer.Run(ctx, "cli"); err != nil {
		fmt.Println(err)
		a.Close()
		os.Exit(1)
	}
	fmt.Println("Done")
}
