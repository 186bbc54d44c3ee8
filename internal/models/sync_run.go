package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRun records one reconciliation pass. Generation increases by one per run
// and stamps every membership the run touches.
type SyncRun struct {
	ID         string        `json:"id" gorm:"primaryKey;size:36"`
	Generation uint64        `json:"generation" gorm:"uniqueIndex;not null"`
	Status     SyncRunStatus `json:"status" gorm:"not null;default:RUNNING"`
	Trigger    string        `json:"trigger"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Unchanged  int           `json:"unchanged"`
	Deleted    int           `json:"deleted"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Error      string        `json:"error" gorm:"type:text"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusCompleted SyncRunStatus = "COMPLETED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
)

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// SyncLock is a named lease that keeps two passes from writing at once.
type SyncLock struct {
	Name       string    `json:"name" gorm:"primaryKey;size:64"`
	Owner      string    `json:"owner" gorm:"not null"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
}
