// Package reconcile implements find-or-create-or-update for one remote record.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"shopsync/internal/mapping"
)

// Store is the persistence capability a kind needs.
// FindByRemoteID returns nil, nil when no local record exists.
type Store[T any] interface {
	FindByRemoteID(ctx context.Context, remoteID string) (*T, error)
	Save(ctx context.Context, entity *T) error
}

// Kind bundles everything needed to reconcile one entity type.
type Kind[T any] struct {
	Name  string
	Store Store[T]
	New   func() *T
}

// Hook runs after mapping and before the write decision. It may change the
// entity further and must mark those fields on changes.
type Hook[T any] func(ctx context.Context, entity *T, changes *mapping.Changes) error

type Result[T any] struct {
	Entity  *T
	Created bool
	Written bool
	Changes mapping.Changes
}

// ValidationError is an object-level failure. The caller skips the object and
// carries on with the batch.
type ValidationError struct {
	Kind     string
	RemoteID string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] could not import %s: %v", e.RemoteID, e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is object-level.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Reconcile loads the local record matching rec's id (or makes a new one),
// applies table, runs hooks and saves only if something changed.
func Reconcile[T any](ctx context.Context, kind Kind[T], table mapping.Table[T], rec mapping.Record, hooks ...Hook[T]) (Result[T], error) {
	remoteID := rec.ID()
	fail := func(err error) (Result[T], error) {
		return Result[T]{}, &ValidationError{Kind: kind.Name, RemoteID: remoteID, Err: err}
	}

	if remoteID == "" {
		return fail(errors.New("record has no id"))
	}

	entity, err := kind.Store.FindByRemoteID(ctx, remoteID)
	if err != nil {
		return fail(fmt.Errorf("lookup: %w", err))
	}

	res := Result[T]{Entity: entity}
	if entity == nil {
		res.Entity = kind.New()
		res.Created = true
	}

	res.Changes, err = mapping.Apply(table, res.Entity, rec)
	if err != nil {
		return fail(err)
	}

	for _, hook := range hooks {
		if err := hook(ctx, res.Entity, &res.Changes); err != nil {
			return fail(err)
		}
	}

	if !res.Created && !res.Changes.Any() {
		return res, nil
	}

	if err := kind.Store.Save(ctx, res.Entity); err != nil {
		return fail(fmt.Errorf("save: %w", err))
	}
	res.Written = true

	return res, nil
}
