package catalog

import (
	"context"

	"shopsync/internal/mapping"
	"shopsync/internal/models"
	"shopsync/internal/services/shopify"
)

// RemoteCatalog pages through the remote store's catalog.
type RemoteCatalog interface {
	Collections(ctx context.Context, q shopify.Query) ([]mapping.Record, error)
	Products(ctx context.Context, q shopify.Query) ([]mapping.Record, error)
	Collects(ctx context.Context, q shopify.Query) ([]mapping.Record, error)
	ProductListingIDs(ctx context.Context, page, limit int) ([]string, error)
}

// AssetFetcher stores image files locally.
type AssetFetcher interface {
	Fetch(ctx context.Context, src, folder string) (string, error)
	Remove(path string) error
}

// PublishGate promotes records to their live state.
type PublishGate interface {
	Publish(ctx context.Context, entity models.Entity) (bool, error)
	Unpublish(ctx context.Context, entity models.Entity) (bool, error)
}
