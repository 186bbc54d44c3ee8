// Package publish promotes saved catalog records to their live state.
package publish

import (
	"context"
	"fmt"
	"time"

	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"
)

// VersionWriter persists an entity's published version without bumping its version.
type VersionWriter interface {
	SetPublishedVersion(ctx context.Context, entity models.Entity, version int) error
}

type Gate struct {
	store  VersionWriter
	events events.Publisher
	logger *logger.Logger
}

func NewGate(store VersionWriter, publisher events.Publisher, logger *logger.Logger) *Gate {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Gate{store: store, events: publisher, logger: logger}
}

// IsPublished reports whether the live state matches the current saved version.
func (g *Gate) IsPublished(entity models.Entity) bool {
	return entity.GetVersion() > 0 && entity.GetPublishedVersion() == entity.GetVersion()
}

// Publish promotes entity. It returns false when it was already live.
func (g *Gate) Publish(ctx context.Context, entity models.Entity) (bool, error) {
	if g.IsPublished(entity) {
		return false, nil
	}
	if err := g.store.SetPublishedVersion(ctx, entity, entity.GetVersion()); err != nil {
		return false, fmt.Errorf("failed to publish %s %s: %w", entity.Kind(), entity.GetRemoteID(), err)
	}
	entity.SetPublishedVersion(entity.GetVersion())
	g.emit(ctx, events.TypePublished, entity)
	return true, nil
}

// Unpublish takes entity out of the live state. It returns false when it was not live.
func (g *Gate) Unpublish(ctx context.Context, entity models.Entity) (bool, error) {
	if entity.GetPublishedVersion() == 0 {
		return false, nil
	}
	if err := g.store.SetPublishedVersion(ctx, entity, 0); err != nil {
		return false, fmt.Errorf("failed to unpublish %s %s: %w", entity.Kind(), entity.GetRemoteID(), err)
	}
	entity.SetPublishedVersion(0)
	g.emit(ctx, events.TypeUnpublished, entity)
	return true, nil
}

// event delivery is best effort; the local state is authoritative
func (g *Gate) emit(ctx context.Context, eventType string, entity models.Entity) {
	err := g.events.Publish(ctx, events.Event{
		Type:      eventType,
		Kind:      entity.Kind(),
		RemoteID:  entity.GetRemoteID(),
		LocalID:   entity.GetID(),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		g.logger.Warning("[%s] Could not send %s event: %v", entity.GetID(), eventType, err)
	}
}
