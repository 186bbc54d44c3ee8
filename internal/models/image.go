package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Image belongs to a product, or stands alone as a collection image.
// OriginalSrc is the remote URL; FilePath is the downloaded copy.
type Image struct {
	Base
	ProductID       *string   `json:"product_id" gorm:"size:36;index"`
	Title           string    `json:"title"`
	Sort            int       `json:"sort"`
	OriginalSrc     string    `json:"original_src" gorm:"type:text;not null"`
	FilePath        string    `json:"file_path"`
	RemoteCreatedAt time.Time `json:"remote_created_at"`
	RemoteUpdatedAt time.Time `json:"remote_updated_at"`
}

func (i *Image) Kind() string { return "image" }

func (i *Image) Label() string {
	if i.Title != "" {
		return i.Title
	}
	return i.OriginalSrc
}

func (i *Image) Validate() error {
	if i.RemoteID == "" {
		return errors.New("image has no remote id")
	}
	if i.OriginalSrc == "" {
		return errors.New("image source is required")
	}
	return nil
}

func (i *Image) BeforeSave(tx *gorm.DB) error {
	return i.Validate()
}
