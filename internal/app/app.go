// Package app wires the shared services every command needs.
package app

import (
	"fmt"

	"shopsync/internal/assets"
	"shopsync/internal/catalog"
	"shopsync/internal/config"
	"shopsync/internal/database"
	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/publish"
	"shopsync/internal/services/shopify"
)

type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *database.Database
	Store     *database.Store
	Publisher events.Publisher
	Syncer    *catalog.Syncer
}

// New connects to the database and builds the sync pipeline. Events go to
// Kafka when brokers are configured and are dropped otherwise. The events
// writer is asynchronous so a pass never waits on the broker per record.
func New(cfg *config.Config, logger *logger.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := database.NewStore(db.DB)

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaEventsTopic,
			events.Async(func(err error, count int) {
				logger.Warning("[events] Could not deliver %d events: %v", count, err)
			}))
	}

	client := shopify.NewClient(cfg.ShopifyShopDomain, cfg.ShopifyAccessToken, logger,
		shopify.WithAPIVersion(cfg.ShopifyAPIVersion),
		shopify.WithRateLimit(cfg.ShopifyRequestsPerSecond, 40),
	)
	files := assets.NewOS(cfg.AssetsDir, logger)
	gate := publish.NewGate(store, publisher, logger)

	syncer := catalog.New(client, store, files, gate, publisher, logger, catalog.Options{
		PageSize:           cfg.ShopifyPageSize,
		UseProductListings: cfg.ShopifyUseProductListing,
		LockTTL:            cfg.SyncLockTTL,
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Store:     store,
		Publisher: publisher,
		Syncer:    syncer,
	}, nil
}

func (a *App) Close() error {
	pubErr := a.Publisher.Close()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return pubErr
}
