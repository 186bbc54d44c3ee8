package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shopsync/internal/models"
)

// Store groups the repositories and the cross-table queries of the catalog.
type Store struct {
	db *gorm.DB

	Products    *Repository[models.Product, *models.Product]
	Variants    *Repository[models.Variant, *models.Variant]
	Images      *Repository[models.Image, *models.Image]
	Collections *Repository[models.Collection, *models.Collection]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Products:    NewRepository[models.Product](db),
		Variants:    NewRepository[models.Variant](db),
		Images:      NewRepository[models.Image](db),
		Collections: NewRepository[models.Collection](db),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) ProductImages(ctx context.Context, productID string) ([]models.Image, error) {
	var images []models.Image
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("sort").Find(&images).Error
	return images, err
}

func (s *Store) ProductVariants(ctx context.Context, productID string) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("sort").Find(&variants).Error
	return variants, err
}

func (s *Store) ProductCollections(ctx context.Context, productID string) ([]models.Collection, error) {
	var collections []models.Collection
	err := s.db.WithContext(ctx).
		Joins("JOIN collection_memberships ON collection_memberships.collection_id = collections.id").
		Where("collection_memberships.product_id = ?", productID).
		Order("collection_memberships.position").
		Find(&collections).Error
	return collections, err
}

func (s *Store) CollectionProducts(ctx context.Context, collectionID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Joins("JOIN collection_memberships ON collection_memberships.product_id = products.id").
		Where("collection_memberships.collection_id = ?", collectionID).
		Order("collection_memberships.position").
		Find(&products).Error
	return products, err
}

// DeleteProduct removes a product with its variants, images and memberships.
func (s *Store) DeleteProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CollectionMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
}

// DeleteCollection removes a collection and its memberships. Its image may be
// shared with another collection and is left to UnlinkedCollectionImages.
func (s *Store) DeleteCollection(ctx context.Context, collection *models.Collection) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", collection.ID).Delete(&models.CollectionMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(collection).Error
	})
}

// UnlinkedCollectionImages returns standalone images no collection references.
func (s *Store) UnlinkedCollectionImages(ctx context.Context) ([]models.Image, error) {
	linked := s.db.Model(&models.Collection{}).Select("image_id").Where("image_id IS NOT NULL")

	var images []models.Image
	err := s.db.WithContext(ctx).
		Where("product_id IS NULL").
		Where("id NOT IN (?)", linked).
		Order("created_at").
		Find(&images).Error
	return images, err
}

// FindMembership looks a collect up by remote id, then by its
// (collection, product) pair so a re-created collect reuses the row.
func (s *Store) FindMembership(ctx context.Context, remoteID, collectionID, productID string) (*models.CollectionMembership, error) {
	var m models.CollectionMembership
	err := s.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Where("collection_id = ? AND product_id = ?", collectionID, productID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveMembership(ctx context.Context, m *models.CollectionMembership) error {
	return s.db.WithContext(ctx).Save(m).Error
}

// StampMembership marks an unchanged membership as seen by generation.
func (s *Store) StampMembership(ctx context.Context, id string, generation uint64) error {
	return s.db.WithContext(ctx).Model(&models.CollectionMembership{}).
		Where("id = ?", id).
		UpdateColumn("generation", generation).Error
}

// SweepMemberships deletes every membership not stamped with generation.
func (s *Store) SweepMemberships(ctx context.Context, generation uint64) (int64, error) {
	res := s.db.WithContext(ctx).Where("generation < ?", generation).Delete(&models.CollectionMembership{})
	return res.RowsAffected, res.Error
}

func (s *Store) CountMemberships(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.CollectionMembership{}).Count(&n).Error
	return n, err
}

// SetPublishedVersion writes only published_version so the row's version
// and hooks stay untouched.
func (s *Store) SetPublishedVersion(ctx context.Context, entity models.Entity, version int) error {
	return s.db.WithContext(ctx).Model(entity).UpdateColumn("published_version", version).Error
}
