// Package catalog runs a full reconciliation pass of the local catalog
// against the remote store: collections, then products with their images
// and variants, then collection memberships.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopsync/internal/database"
	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/metrics"
	"shopsync/internal/models"
	"shopsync/internal/services/shopify"
)

// LockName is the lease every pass holds while it writes.
const LockName = "catalog-sync"

type Options struct {
	PageSize           int
	UseProductListings bool
	LockTTL            time.Duration
}

type Syncer struct {
	remote RemoteCatalog
	store  *database.Store
	assets AssetFetcher
	gate   PublishGate
	events events.Publisher
	logger *logger.Logger
	opts   Options
}

func New(remote RemoteCatalog, store *database.Store, assets AssetFetcher, gate PublishGate, publisher events.Publisher, logger *logger.Logger, opts Options) *Syncer {
	if opts.PageSize <= 0 || opts.PageSize > shopify.MaxPageSize {
		opts.PageSize = shopify.MaxPageSize
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 6 * time.Hour
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Syncer{
		remote: remote,
		store:  store,
		assets: assets,
		gate:   gate,
		events: publisher,
		logger: logger,
		opts:   opts,
	}
}

// pass is the state of one run.
type pass struct {
	run *models.SyncRun

	seenCollections map[string]bool
	seenProducts    map[string]bool

	// child keep sets per product remote id, accumulated over the whole pass
	keepImages   map[string]map[string]bool
	keepVariants map[string]map[string]bool
}

func newPass(run *models.SyncRun) *pass {
	return &pass{
		run:             run,
		seenCollections: map[string]bool{},
		seenProducts:    map[string]bool{},
		keepImages:      map[string]map[string]bool{},
		keepVariants:    map[string]map[string]bool{},
	}
}

func keep(sets map[string]map[string]bool, parent, child string) map[string]bool {
	set, ok := sets[parent]
	if !ok {
		set = map[string]bool{}
		sets[parent] = set
	}
	if child != "" {
		set[child] = true
	}
	return set
}

// Run executes one pass. Object-level failures are recorded on the run;
// the returned error is a transport or store failure that aborted it.
func (s *Syncer) Run(ctx context.Context, trigger string) (*models.SyncRun, error) {
	owner := uuid.NewString()
	if err := s.store.AcquireLock(ctx, LockName, owner, s.opts.LockTTL); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.store.ReleaseLock(context.WithoutCancel(ctx), LockName, owner); err != nil {
			s.logger.Warning("[%s] Could not release sync lock: %v", owner, err)
		}
	}()

	run, err := s.store.StartRun(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to start sync run: %w", err)
	}
	p := newPass(run)

	err = s.runPhases(ctx, p)

	run.Status = models.SyncRunStatusCompleted
	eventType := events.TypeSyncCompleted
	if err != nil {
		run.Status = models.SyncRunStatusFailed
		run.Error = err.Error()
		eventType = events.TypeSyncFailed
	}

	if finishErr := s.store.FinishRun(context.WithoutCancel(ctx), run); finishErr != nil && err == nil {
		err = fmt.Errorf("failed to finish sync run: %w", finishErr)
	}
	metrics.RecordRun(string(run.Status))

	pubErr := s.events.Publish(ctx, events.Event{
		Type:       eventType,
		RunID:      run.ID,
		Generation: run.Generation,
		Trigger:    trigger,
		Message:    run.Error,
		Timestamp:  time.Now().UTC(),
	})
	if pubErr != nil && err == nil {
		s.logger.Warning("[%s] Could not send %s event: %v", run.ID, eventType, pubErr)
	}

	if err != nil {
		return run, err
	}

	s.logger.Success("[%s] Sync finished: %d created, %d updated, %d unchanged, %d deleted, %d failed, %d skipped",
		run.ID, run.Created, run.Updated, run.Unchanged, run.Deleted, run.Failed, run.Skipped)
	return run, nil
}

func (s *Syncer) runPhases(ctx context.Context, p *pass) error {
	if err := s.syncCollections(ctx, p); err != nil {
		return err
	}
	if err := s.syncProducts(ctx, p); err != nil {
		return err
	}
	return s.syncCollects(ctx, p)
}
