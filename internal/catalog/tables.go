package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"shopsync/internal/mapping"
	"shopsync/internal/models"
)

var productTable = mapping.NewTable(
	mapping.Field("id", "RemoteID", func(p *models.Product) *string { return &p.RemoteID }, mapping.ID),
	mapping.Field("title", "Title", func(p *models.Product) *string { return &p.Title }, mapping.String),
	mapping.Field("body_html", "Content", func(p *models.Product) *string { return &p.Content }, mapping.String),
	mapping.Field("vendor", "Vendor", func(p *models.Product) *string { return &p.Vendor }, mapping.String),
	mapping.Field("product_type", "ProductType", func(p *models.Product) *string { return &p.ProductType }, mapping.String),
	mapping.Field("created_at", "RemoteCreatedAt", func(p *models.Product) *time.Time { return &p.RemoteCreatedAt }, mapping.Time),
	mapping.Field("handle", "URLSegment", func(p *models.Product) *string { return &p.URLSegment }, mapping.String),
	mapping.Field("updated_at", "RemoteUpdatedAt", func(p *models.Product) *time.Time { return &p.RemoteUpdatedAt }, mapping.Time),
	mapping.Field("tags", "Tags", func(p *models.Product) *datatypes.JSONSlice[string] { return &p.Tags }, mapping.TagList),
)

var variantTable = mapping.NewTable(
	mapping.Field("id", "RemoteID", func(v *models.Variant) *string { return &v.RemoteID }, mapping.ID),
	mapping.Field("title", "Title", func(v *models.Variant) *string { return &v.Title }, mapping.String),
	mapping.Field("price", "Price", func(v *models.Variant) *decimal.Decimal { return &v.Price }, mapping.Decimal),
	mapping.Field("compare_at_price", "CompareAtPrice", func(v *models.Variant) *decimal.NullDecimal { return &v.CompareAtPrice }, mapping.NullDecimal),
	mapping.Field("sku", "SKU", func(v *models.Variant) *string { return &v.SKU }, mapping.String),
	mapping.Field("position", "Sort", func(v *models.Variant) *int { return &v.Sort }, mapping.Int),
	mapping.Field("option1", "Option1", func(v *models.Variant) *string { return &v.Option1 }, mapping.String),
	mapping.Field("option2", "Option2", func(v *models.Variant) *string { return &v.Option2 }, mapping.String),
	mapping.Field("option3", "Option3", func(v *models.Variant) *string { return &v.Option3 }, mapping.String),
	mapping.Field("created_at", "RemoteCreatedAt", func(v *models.Variant) *time.Time { return &v.RemoteCreatedAt }, mapping.Time),
	mapping.Field("updated_at", "RemoteUpdatedAt", func(v *models.Variant) *time.Time { return &v.RemoteUpdatedAt }, mapping.Time),
	mapping.Field("taxable", "Taxable", func(v *models.Variant) *bool { return &v.Taxable }, mapping.Bool),
	mapping.Field("barcode", "Barcode", func(v *models.Variant) *string { return &v.Barcode }, mapping.String),
	mapping.Field("grams", "Grams", func(v *models.Variant) *int { return &v.Grams }, mapping.Int),
	mapping.Field("inventory_quantity", "Inventory", func(v *models.Variant) *int { return &v.Inventory }, mapping.Int),
	mapping.Field("weight", "Weight", func(v *models.Variant) *float64 { return &v.Weight }, mapping.Float),
	mapping.Field("weight_unit", "WeightUnit", func(v *models.Variant) *string { return &v.WeightUnit }, mapping.String),
	mapping.Field("inventory_item_id", "InventoryItemID", func(v *models.Variant) *string { return &v.InventoryItemID }, mapping.ID),
	mapping.Field("requires_shipping", "RequiresShipping", func(v *models.Variant) *bool { return &v.RequiresShipping }, mapping.Bool),
)

var imageTable = mapping.NewTable(
	mapping.Field("id", "RemoteID", func(i *models.Image) *string { return &i.RemoteID }, mapping.ID),
	mapping.Field("alt", "Title", func(i *models.Image) *string { return &i.Title }, mapping.String),
	mapping.Field("position", "Sort", func(i *models.Image) *int { return &i.Sort }, mapping.Int),
	mapping.Field("src", "OriginalSrc", func(i *models.Image) *string { return &i.OriginalSrc }, mapping.String),
	mapping.Field("created_at", "RemoteCreatedAt", func(i *models.Image) *time.Time { return &i.RemoteCreatedAt }, mapping.Time),
	mapping.Field("updated_at", "RemoteUpdatedAt", func(i *models.Image) *time.Time { return &i.RemoteUpdatedAt }, mapping.Time),
)

var collectionTable = mapping.NewTable(
	mapping.Field("id", "RemoteID", func(c *models.Collection) *string { return &c.RemoteID }, mapping.ID),
	mapping.Field("handle", "URLSegment", func(c *models.Collection) *string { return &c.URLSegment }, mapping.String),
	mapping.Field("title", "Title", func(c *models.Collection) *string { return &c.Title }, mapping.String),
	mapping.Field("body_html", "Content", func(c *models.Collection) *string { return &c.Content }, mapping.String),
	mapping.Field("updated_at", "RemoteUpdatedAt", func(c *models.Collection) *time.Time { return &c.RemoteUpdatedAt }, mapping.Time),
	mapping.Field("created_at", "RemoteCreatedAt", func(c *models.Collection) *time.Time { return &c.RemoteCreatedAt }, mapping.Time),
)

// Collects carry optional attributes; a null leaves the stored value alone.
var membershipTable = mapping.NewTable(
	mapping.Field("id", "RemoteID", func(m *models.CollectionMembership) *string { return &m.RemoteID }, mapping.ID),
	mapping.Field("sort_value", "SortValue", func(m *models.CollectionMembership) *string { return &m.SortValue }, mapping.String),
	mapping.Field("position", "Position", func(m *models.CollectionMembership) *int { return &m.Position }, mapping.Int),
	mapping.Field("featured", "Featured", func(m *models.CollectionMembership) *bool { return &m.Featured }, mapping.Bool),
).WithPresence(mapping.NonNull)
