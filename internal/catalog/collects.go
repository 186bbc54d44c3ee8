package catalog

import (
	"context"
	"fmt"

	"shopsync/internal/database"
	"shopsync/internal/mapping"
	"shopsync/internal/metrics"
	"shopsync/internal/models"
	"shopsync/internal/reconcile"
	"shopsync/internal/services/shopify"
)

// membershipStore resolves collects by remote id or by their parent pair and
// stamps every row it saves with the pass generation.
type membershipStore struct {
	store        *database.Store
	collectionID string
	productID    string
	generation   uint64
}

func (m membershipStore) FindByRemoteID(ctx context.Context, remoteID string) (*models.CollectionMembership, error) {
	return m.store.FindMembership(ctx, remoteID, m.collectionID, m.productID)
}

func (m membershipStore) Save(ctx context.Context, row *models.CollectionMembership) error {
	row.Generation = m.generation
	return m.store.SaveMembership(ctx, row)
}

func (s *Syncer) syncCollects(ctx context.Context, p *pass) error {
	fetch := func(ctx context.Context, sinceID string) ([]mapping.Record, error) {
		return s.remote.Collects(ctx, shopify.Query{Limit: s.opts.PageSize, SinceID: sinceID})
	}
	err := s.paginate(ctx, "collects", fetch, func(ctx context.Context, page []mapping.Record) error {
		for _, rec := range page {
			if err := s.importCollect(ctx, p, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	swept, err := s.store.SweepMemberships(ctx, p.run.Generation)
	if err != nil {
		return fmt.Errorf("failed to sweep collects: %w", err)
	}
	if swept > 0 {
		p.run.Deleted += int(swept)
		s.logger.Success("[%d] Deleted %d collects not seen in this run", p.run.Generation, swept)
	}
	return nil
}

func (s *Syncer) importCollect(ctx context.Context, p *pass, rec mapping.Record) error {
	remoteID := rec.ID()
	collectionRemoteID, _ := mapping.ID.Convert(rec["collection_id"])
	productRemoteID, _ := mapping.ID.Convert(rec["product_id"])

	collection, err := s.store.Collections.FindByRemoteID(ctx, collectionRemoteID)
	if err != nil {
		return s.failed(ctx, p, "collect", remoteID, models.IssueCodeValidation, err)
	}
	product, err := s.store.Products.FindByRemoteID(ctx, productRemoteID)
	if err != nil {
		return s.failed(ctx, p, "collect", remoteID, models.IssueCodeValidation, err)
	}
	if collection == nil || product == nil {
		s.skipped(p, "collect", remoteID,
			fmt.Sprintf("collection %s or product %s is not imported", collectionRemoteID, productRemoteID))
		return nil
	}

	kind := reconcile.Kind[models.CollectionMembership]{
		Name: "collect",
		Store: membershipStore{
			store:        s.store,
			collectionID: collection.ID,
			productID:    product.ID,
			generation:   p.run.Generation,
		},
		New: func() *models.CollectionMembership { return &models.CollectionMembership{} },
	}
	res, err := reconcile.Reconcile(ctx, kind, membershipTable, rec,
		func(_ context.Context, m *models.CollectionMembership, changes *mapping.Changes) error {
			mapping.Assign(&m.CollectionID, collection.ID, "CollectionID", changes)
			mapping.Assign(&m.ProductID, product.ID, "ProductID", changes)
			return nil
		})
	if err != nil {
		return s.failed(ctx, p, "collect", remoteID, models.IssueCodeValidation, err)
	}

	m := res.Entity
	if !res.Written {
		if err := s.store.StampMembership(ctx, m.ID, p.run.Generation); err != nil {
			return s.failed(ctx, p, "collect", remoteID, models.IssueCodeValidation, err)
		}
		p.run.Unchanged++
		metrics.RecordEntity("collect", metrics.ActionUnchanged)
		s.logger.Debug("[%s] Collect between Product[%s] and Collection[%s] has no changes", m.ID, product.ID, collection.ID)
		return nil
	}

	if res.Created {
		p.run.Created++
		metrics.RecordEntity("collect", metrics.ActionCreated)
		s.logger.Success("[%s] Created collect between Product[%s] and Collection[%s]", m.ID, product.ID, collection.ID)
	} else {
		p.run.Updated++
		metrics.RecordEntity("collect", metrics.ActionUpdated)
		s.logger.Success("[%s] Saved changes in collect between Product[%s] and Collection[%s]", m.ID, product.ID, collection.ID)
	}
	return nil
}
