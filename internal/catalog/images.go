package catalog

import (
	"context"

	"shopsync/internal/mapping"
	"shopsync/internal/metrics"
	"shopsync/internal/models"
	"shopsync/internal/reconcile"
)

// collectionImageFolder holds every collection image; product images go
// under the product's remote id.
const collectionImageFolder = "collection"

func (s *Syncer) imageKind() reconcile.Kind[models.Image] {
	return reconcile.Kind[models.Image]{
		Name:  "image",
		Store: s.store.Images,
		New:   func() *models.Image { return &models.Image{} },
	}
}

// importImage reconciles one image record. The file is downloaded only when
// the source URL changed, which includes the first import.
func (s *Syncer) importImage(ctx context.Context, p *pass, rec mapping.Record, folder string, productID *string) (*models.Image, error) {
	var previous string
	res, err := reconcile.Reconcile(ctx, s.imageKind(), imageTable, rec,
		func(ctx context.Context, img *models.Image, changes *mapping.Changes) error {
			if productID != nil {
				setRef(&img.ProductID, productID, "ProductID", changes)
			}
			if !changes.Has("OriginalSrc") || img.OriginalSrc == "" {
				return nil
			}
			previous = img.FilePath
			stored, err := s.assets.Fetch(ctx, img.OriginalSrc, folder)
			metrics.RecordAssetDownload(err)
			if err != nil {
				return err
			}
			mapping.Assign(&img.FilePath, stored, "FilePath", changes)
			return nil
		})
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != res.Entity.FilePath {
		s.removeFile(res.Entity.ID, previous)
	}

	s.saved(p, res.Entity, outcomeOf(res))
	if err := s.publish(ctx, p, res.Entity); err != nil {
		return nil, err
	}
	return res.Entity, nil
}

// deleteImage unpublishes an image and removes its row and stored file.
func (s *Syncer) deleteImage(ctx context.Context, p *pass, img *models.Image) error {
	if _, err := s.gate.Unpublish(ctx, img); err != nil {
		return s.failed(ctx, p, "image", img.RemoteID, models.IssueCodeDelete, err)
	}
	if err := s.store.Images.Delete(ctx, img); err != nil {
		return s.failed(ctx, p, "image", img.RemoteID, models.IssueCodeDelete, err)
	}
	s.removeFile(img.ID, img.FilePath)
	s.deleted(p, "image", img.ID, img.RemoteID, "image")
	return nil
}

func (s *Syncer) removeFile(imageID, path string) {
	if path == "" {
		return
	}
	if err := s.assets.Remove(path); err != nil {
		s.logger.Warning("[%s] Could not remove file %s: %v", imageID, path, err)
	}
}

// setRef points *dst at id's value, marking name when the target changes.
// A nil id clears the reference.
func setRef(dst **string, id *string, name string, changes *mapping.Changes) {
	switch {
	case id == nil && *dst == nil:
		return
	case id != nil && *dst != nil && **dst == *id:
		return
	}
	if id == nil {
		*dst = nil
	} else {
		v := *id
		*dst = &v
	}
	changes.Mark(name)
}

// imageRef resolves the local id of the image with remoteID.
func (s *Syncer) imageRef(ctx context.Context, remoteID string) (*string, error) {
	if remoteID == "" {
		return nil, nil
	}
	img, err := s.store.Images.FindByRemoteID(ctx, remoteID)
	if err != nil || img == nil {
		return nil, err
	}
	return &img.ID, nil
}
