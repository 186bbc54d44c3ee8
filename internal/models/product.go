package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Base
	Title           string                      `json:"title" gorm:"not null"`
	Content         string                      `json:"content" gorm:"type:text"`
	Vendor          string                      `json:"vendor"`
	ProductType     string                      `json:"product_type"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	URLSegment      string                      `json:"url_segment" gorm:"index"`
	ImageID         *string                     `json:"image_id" gorm:"size:36"`
	RemoteCreatedAt time.Time                   `json:"remote_created_at"`
	RemoteUpdatedAt time.Time                   `json:"remote_updated_at"`
}

func (p *Product) Kind() string { return "product" }
func (p *Product) Label() string { return p.Title }

func (p *Product) Validate() error {
	if p.RemoteID == "" {
		return errors.New("product has no remote id")
	}
	if p.Title == "" {
		return errors.New("product title is required")
	}
	return nil
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}
