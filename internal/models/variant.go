package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Variant struct {
	Base
	ProductID        string              `json:"product_id" gorm:"size:36;index;not null"`
	ImageID          *string             `json:"image_id" gorm:"size:36"`
	Title            string              `json:"title"`
	Price            decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	CompareAtPrice   decimal.NullDecimal `json:"compare_at_price" gorm:"type:decimal(10,2)"`
	SKU              string              `json:"sku" gorm:"index"`
	Sort             int                 `json:"sort"`
	Option1          string              `json:"option1"`
	Option2          string              `json:"option2"`
	Option3          string              `json:"option3"`
	Taxable          bool                `json:"taxable"`
	Barcode          string              `json:"barcode"`
	Inventory        int                 `json:"inventory"`
	Grams            int                 `json:"grams"`
	Weight           float64             `json:"weight"`
	WeightUnit       string              `json:"weight_unit"`
	InventoryItemID  string              `json:"inventory_item_id"`
	RequiresShipping bool                `json:"requires_shipping"`
	RemoteCreatedAt  time.Time           `json:"remote_created_at"`
	RemoteUpdatedAt  time.Time           `json:"remote_updated_at"`
}

func (v *Variant) Kind() string { return "variant" }
func (v *Variant) Label() string { return v.Title }

func (v *Variant) Validate() error {
	if v.RemoteID == "" {
		return errors.New("variant has no remote id")
	}
	if v.ProductID == "" {
		return errors.New("variant is not attached to a product")
	}
	if v.Price.IsNegative() {
		return errors.New("variant price cannot be negative")
	}
	if v.CompareAtPrice.Valid && v.CompareAtPrice.Decimal.IsNegative() {
		return errors.New("variant compare-at price cannot be negative")
	}
	return nil
}

func (v *Variant) BeforeSave(tx *gorm.DB) error {
	return v.Validate()
}
