package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncIssue is an object skipped during a run because it failed to map or save.
type SyncIssue struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	RunID       string        `json:"run_id" gorm:"size:36;not null;index"`
	Kind        string        `json:"kind" gorm:"not null"`
	RemoteID    string        `json:"remote_id"`
	Code        string        `json:"code" gorm:"not null"`
	Severity    IssueSeverity `json:"severity" gorm:"not null"`
	Explanation string        `json:"explanation" gorm:"type:text;not null"`
	CreatedAt   time.Time     `json:"created_at"`
}

type IssueSeverity string

const (
	IssueSeverityLow      IssueSeverity = "LOW"
	IssueSeverityMedium   IssueSeverity = "MEDIUM"
	IssueSeverityHigh     IssueSeverity = "HIGH"
	IssueSeverityCritical IssueSeverity = "CRITICAL"
)

const (
	IssueCodeValidation = "VALIDATION_FAILED"
	IssueCodeDelete     = "DELETE_FAILED"
	IssueCodePublish    = "PUBLISH_FAILED"
)

func (i *SyncIssue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
