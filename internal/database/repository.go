package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shopsync/internal/models"
)

// Repository is the generic per-kind persistence used by the reconciler.
type Repository[T any, PT interface {
	*T
	models.Entity
}] struct {
	db *gorm.DB
}

func NewRepository[T any, PT interface {
	*T
	models.Entity
}](db *gorm.DB) *Repository[T, PT] {
	return &Repository[T, PT]{db: db}
}

// FindByRemoteID returns nil, nil when there is no local row for remoteID.
func (r *Repository[T, PT]) FindByRemoteID(ctx context.Context, remoteID string) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID returns gorm.ErrRecordNotFound when id is unknown.
func (r *Repository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save bumps the entity's version and writes every column.
func (r *Repository[T, PT]) Save(ctx context.Context, entity *T) error {
	PT(entity).Touch()
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *Repository[T, PT]) Delete(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Delete(entity).Error
}

// List returns one page ordered by creation time plus the total row count.
func (r *Repository[T, PT]) List(ctx context.Context, offset, limit int) ([]T, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []T
	err := r.db.WithContext(ctx).Order("created_at").Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Orphans returns every row whose remote id is not in seen.
func (r *Repository[T, PT]) Orphans(ctx context.Context, seen map[string]bool) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	orphans := rows[:0]
	for _, row := range rows {
		if !seen[PT(&row).GetRemoteID()] {
			orphans = append(orphans, row)
		}
	}
	return orphans, nil
}
