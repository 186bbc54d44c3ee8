package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shopsync/internal/models"
)

// ErrSyncInProgress is returned when another pass holds the sync lock.
var ErrSyncInProgress = errors.New("a catalog sync is already running")

// StartRun records a new run with the next generation number.
func (s *Store) StartRun(ctx context.Context, trigger string) (*models.SyncRun, error) {
	run := &models.SyncRun{
		Status:    models.SyncRunStatusRunning,
		Trigger:   trigger,
		StartedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last uint64
		if err := tx.Model(&models.SyncRun{}).Select("COALESCE(MAX(generation), 0)").Scan(&last).Error; err != nil {
			return err
		}
		run.Generation = last + 1
		return tx.Create(run).Error
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun stores the run's final status and counters.
func (s *Store) FinishRun(ctx context.Context, run *models.SyncRun) error {
	now := time.Now()
	run.FinishedAt = &now
	return s.db.WithContext(ctx).Save(run).Error
}

func (s *Store) RecordIssue(ctx context.Context, issue *models.SyncIssue) error {
	return s.db.WithContext(ctx).Create(issue).Error
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := s.db.WithContext(ctx).Order("generation DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

func (s *Store) FindRun(ctx context.Context, id string) (*models.SyncRun, error) {
	var run models.SyncRun
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) RunIssues(ctx context.Context, runID string) ([]models.SyncIssue, error) {
	var issues []models.SyncIssue
	err := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("created_at").Find(&issues).Error
	return issues, err
}

// AcquireLock takes the named lease for ttl. Expired leases are reclaimed.
func (s *Store) AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ? AND expires_at < ?", name, now).Delete(&models.SyncLock{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.SyncLock{
			Name:       name,
			Owner:      owner,
			AcquiredAt: now,
			ExpiresAt:  now.Add(ttl),
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSyncInProgress
	}
	return err
}

// ReleaseLock drops the lease if owner still holds it.
func (s *Store) ReleaseLock(ctx context.Context, name, owner string) error {
	return s.db.WithContext(ctx).Where("name = ? AND owner = ?", name, owner).Delete(&models.SyncLock{}).Error
}

// LockHeld reports whether an unexpired lease named name exists.
func (s *Store) LockHeld(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.SyncLock{}).
		Where("name = ? AND expires_at >= ?", name, time.Now()).
		Count(&n).Error
	return n > 0, err
}
