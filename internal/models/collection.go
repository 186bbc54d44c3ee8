package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Collection struct {
	Base
	Title           string    `json:"title" gorm:"not null"`
	Content         string    `json:"content" gorm:"type:text"`
	URLSegment      string    `json:"url_segment" gorm:"index"`
	ImageID         *string   `json:"image_id" gorm:"size:36"`
	RemoteCreatedAt time.Time `json:"remote_created_at"`
	RemoteUpdatedAt time.Time `json:"remote_updated_at"`
}

func (c *Collection) Kind() string { return "collection" }
func (c *Collection) Label() string { return c.Title }

func (c *Collection) Validate() error {
	if c.RemoteID == "" {
		return errors.New("collection has no remote id")
	}
	if c.Title == "" {
		return errors.New("collection title is required")
	}
	return nil
}

func (c *Collection) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}

// CollectionMembership links one collection to one product ("collect").
// Generation is the sync run that last saw the row; older rows are swept.
type CollectionMembership struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	RemoteID     string    `json:"remote_id" gorm:"uniqueIndex;not null"`
	CollectionID string    `json:"collection_id" gorm:"size:36;not null;uniqueIndex:idx_membership_pair"`
	ProductID    string    `json:"product_id" gorm:"size:36;not null;uniqueIndex:idx_membership_pair;index"`
	SortValue    string    `json:"sort_value"`
	Position     int       `json:"position"`
	Featured     bool      `json:"featured"`
	Generation   uint64    `json:"generation" gorm:"index;not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *CollectionMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
