package catalog

import (
	"context"
	"fmt"

	"shopsync/internal/mapping"
	"shopsync/internal/models"
	"shopsync/internal/reconcile"
	"shopsync/internal/services/shopify"
)

func (s *Syncer) productKind() reconcile.Kind[models.Product] {
	return reconcile.Kind[models.Product]{
		Name:  "product",
		Store: s.store.Products,
		New:   func() *models.Product { return &models.Product{} },
	}
}

func (s *Syncer) variantKind() reconcile.Kind[models.Variant] {
	return reconcile.Kind[models.Variant]{
		Name:  "variant",
		Store: s.store.Variants,
		New:   func() *models.Variant { return &models.Variant{} },
	}
}

func (s *Syncer) syncProducts(ctx context.Context, p *pass) error {
	ids, err := s.listingIDs(ctx)
	if err != nil {
		return err
	}

	handle := func(ctx context.Context, page []mapping.Record) error {
		for _, rec := range page {
			if err := s.importProduct(ctx, p, rec); err != nil {
				return err
			}
		}
		return nil
	}
	query := func(ids []string) pageFetcher {
		return func(ctx context.Context, sinceID string) ([]mapping.Record, error) {
			return s.remote.Products(ctx, shopify.Query{
				Limit:          s.opts.PageSize,
				SinceID:        sinceID,
				IDs:            ids,
				PublishedScope: shopify.PublishedScopeGlobal,
			})
		}
	}

	if len(ids) == 0 {
		if err := s.paginate(ctx, "products", query(nil), handle); err != nil {
			return err
		}
	} else {
		for _, group := range chunk(ids, s.opts.PageSize) {
			if err := s.paginate(ctx, "products", query(group), handle); err != nil {
				return err
			}
		}
	}

	return s.sweepProducts(ctx, p)
}

// listingIDs returns the products published to this app, or nil to import
// every globally published product.
func (s *Syncer) listingIDs(ctx context.Context) ([]string, error) {
	if !s.opts.UseProductListings {
		return nil, nil
	}

	var ids []string
	for page := 1; ; page++ {
		batch, err := s.remote.ProductListingIDs(ctx, page, s.opts.PageSize)
		if err != nil {
			if te, ok := shopify.AsTransportError(err); ok && (te.IsAuth() || te.IsNotFound()) {
				s.logger.Warning("[listings] Product listings unavailable (%d), importing all published products", te.StatusCode)
				return nil, nil
			}
			return nil, err
		}
		ids = append(ids, batch...)
		if len(batch) < s.opts.PageSize {
			return ids, nil
		}
	}
}

func (s *Syncer) importProduct(ctx context.Context, p *pass, rec mapping.Record) error {
	remoteID := rec.ID()
	if remoteID != "" {
		p.seenProducts[remoteID] = true
	}

	res, err := reconcile.Reconcile(ctx, s.productKind(), productTable, rec)
	if err != nil {
		return s.failed(ctx, p, "product", remoteID, models.IssueCodeValidation, err)
	}
	product := res.Entity
	s.saved(p, product, outcomeOf(res))

	// featured image link changes, saved once the children are in place
	var links mapping.Changes
	if err := s.syncProductImages(ctx, p, product, rec, &links); err != nil {
		return err
	}
	if err := s.syncVariants(ctx, p, product, rec); err != nil {
		return err
	}
	if err := s.attachFeaturedImage(ctx, p, product, rec, &links); err != nil {
		return err
	}
	return s.publish(ctx, p, product)
}

func (s *Syncer) syncProductImages(ctx context.Context, p *pass, product *models.Product, rec mapping.Record, links *mapping.Changes) error {
	keepSet := keep(p.keepImages, product.RemoteID, "")
	for _, imgRec := range rec.Objects("images") {
		keep(p.keepImages, product.RemoteID, imgRec.ID())
		if _, err := s.importImage(ctx, p, imgRec, product.RemoteID, &product.ID); err != nil {
			if err := s.failed(ctx, p, "image", imgRec.ID(), models.IssueCodeValidation, err); err != nil {
				return err
			}
		}
	}

	images, err := s.store.ProductImages(ctx, product.ID)
	if err != nil {
		return s.failed(ctx, p, "product", product.RemoteID, models.IssueCodeDelete, err)
	}
	for i := range images {
		if keepSet[images[i].RemoteID] {
			continue
		}
		if product.ImageID != nil && *product.ImageID == images[i].ID {
			setRef(&product.ImageID, nil, "ImageID", links)
		}
		if err := s.deleteImage(ctx, p, &images[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) syncVariants(ctx context.Context, p *pass, product *models.Product, rec mapping.Record) error {
	keepSet := keep(p.keepVariants, product.RemoteID, "")
	for _, varRec := range rec.Objects("variants") {
		keep(p.keepVariants, product.RemoteID, varRec.ID())
		if err := s.importVariant(ctx, p, product, varRec); err != nil {
			return err
		}
	}

	variants, err := s.store.ProductVariants(ctx, product.ID)
	if err != nil {
		return s.failed(ctx, p, "product", product.RemoteID, models.IssueCodeDelete, err)
	}
	for i := range variants {
		v := &variants[i]
		if keepSet[v.RemoteID] {
			continue
		}
		if _, err := s.gate.Unpublish(ctx, v); err != nil {
			if err := s.failed(ctx, p, "variant", v.RemoteID, models.IssueCodeDelete, err); err != nil {
				return err
			}
			continue
		}
		if err := s.store.Variants.Delete(ctx, v); err != nil {
			if err := s.failed(ctx, p, "variant", v.RemoteID, models.IssueCodeDelete, err); err != nil {
				return err
			}
			continue
		}
		s.deleted(p, "variant", v.ID, v.RemoteID, "old variant connected to product")
	}
	return nil
}

func (s *Syncer) importVariant(ctx context.Context, p *pass, product *models.Product, rec mapping.Record) error {
	res, err := reconcile.Reconcile(ctx, s.variantKind(), variantTable, rec,
		func(ctx context.Context, v *models.Variant, changes *mapping.Changes) error {
			mapping.Assign(&v.ProductID, product.ID, "ProductID", changes)
			if !rec.Has("image_id") {
				return nil
			}
			imageID, err := mapping.ID.Convert(rec["image_id"])
			if err != nil {
				return fmt.Errorf("image_id: %w", err)
			}
			ref, err := s.imageRef(ctx, imageID)
			if err != nil {
				return err
			}
			setRef(&v.ImageID, ref, "ImageID", changes)
			return nil
		})
	if err != nil {
		return s.failed(ctx, p, "variant", rec.ID(), models.IssueCodeValidation, err)
	}

	s.saved(p, res.Entity, outcomeOf(res))
	return s.publish(ctx, p, res.Entity)
}

// attachFeaturedImage links the product's main image. A declared null clears it.
func (s *Syncer) attachFeaturedImage(ctx context.Context, p *pass, product *models.Product, rec mapping.Record, links *mapping.Changes) error {
	if rec.Has("image") {
		var ref *string
		if imgRec, ok := rec.Object("image"); ok {
			var err error
			if ref, err = s.imageRef(ctx, imgRec.ID()); err != nil {
				return s.failed(ctx, p, "product", product.RemoteID, models.IssueCodeValidation, err)
			}
		}
		setRef(&product.ImageID, ref, "ImageID", links)
	}

	if !links.Any() {
		return nil
	}
	if err := s.store.Products.Save(ctx, product); err != nil {
		return s.failed(ctx, p, "product", product.RemoteID, models.IssueCodeValidation, err)
	}
	s.logger.Success("[%s] Saved changes in product %s", product.ID, product.Title)
	return nil
}

// sweepProducts deletes local products missing from the full remote listing,
// together with their variants, images and memberships.
func (s *Syncer) sweepProducts(ctx context.Context, p *pass) error {
	orphans, err := s.store.Products.Orphans(ctx, p.seenProducts)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for i := range orphans {
		if err := s.deleteProduct(ctx, p, &orphans[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) deleteProduct(ctx context.Context, p *pass, product *models.Product) error {
	fail := func(err error) error {
		return s.failed(ctx, p, "product", product.RemoteID, models.IssueCodeDelete, err)
	}

	images, err := s.store.ProductImages(ctx, product.ID)
	if err != nil {
		return fail(err)
	}
	variants, err := s.store.ProductVariants(ctx, product.ID)
	if err != nil {
		return fail(err)
	}

	if _, err := s.gate.Unpublish(ctx, product); err != nil {
		return fail(err)
	}
	for i := range variants {
		if _, err := s.gate.Unpublish(ctx, &variants[i]); err != nil {
			return fail(err)
		}
	}
	for i := range images {
		if _, err := s.gate.Unpublish(ctx, &images[i]); err != nil {
			return fail(err)
		}
	}

	if err := s.store.DeleteProduct(ctx, product); err != nil {
		return fail(err)
	}
	for i := range images {
		s.removeFile(images[i].ID, images[i].FilePath)
	}

	p.run.Deleted += len(images) + len(variants)
	s.deleted(p, "product", product.ID, product.RemoteID, "product and its connections")
	return nil
}
