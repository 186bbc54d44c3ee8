package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is a synced catalog record. RemoteID is the only key shared with the
// remote catalog; ID is local and never sent upstream.
type Entity interface {
	Kind() string
	Label() string
	GetID() string
	GetRemoteID() string
	GetVersion() int
	GetPublishedVersion() int
	SetPublishedVersion(v int)
	Touch()
}

// Base carries identity and publish bookkeeping shared by every synced record.
// Version grows on every write; the record is live when PublishedVersion matches it.
type Base struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	RemoteID         string    `json:"remote_id" gorm:"uniqueIndex;not null"`
	Version          int       `json:"version" gorm:"not null;default:0"`
	PublishedVersion int       `json:"published_version" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (b *Base) GetID() string { return b.ID }
func (b *Base) GetRemoteID() string { return b.RemoteID }
func (b *Base) GetVersion() int { return b.Version }
func (b *Base) GetPublishedVersion() int { return b.PublishedVersion }
func (b *Base) SetPublishedVersion(v int) { b.PublishedVersion = v }
func (b *Base) Touch() { b.Version++ }
func (b *Base) IsPublished() bool { return b.Version > 0 && b.PublishedVersion == b.Version }
