package catalog

import (
	"context"
	"fmt"

	"shopsync/internal/mapping"
	"shopsync/internal/models"
	"shopsync/internal/reconcile"
	"shopsync/internal/services/shopify"
)

func (s *Syncer) collectionKind() reconcile.Kind[models.Collection] {
	return reconcile.Kind[models.Collection]{
		Name:  "collection",
		Store: s.store.Collections,
		New:   func() *models.Collection { return &models.Collection{} },
	}
}

func (s *Syncer) syncCollections(ctx context.Context, p *pass) error {
	fetch := func(ctx context.Context, sinceID string) ([]mapping.Record, error) {
		return s.remote.Collections(ctx, shopify.Query{Limit: s.opts.PageSize, SinceID: sinceID})
	}
	err := s.paginate(ctx, "collections", fetch, func(ctx context.Context, page []mapping.Record) error {
		for _, rec := range page {
			if err := s.importCollection(ctx, p, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.sweepCollections(ctx, p)
}

func (s *Syncer) importCollection(ctx context.Context, p *pass, rec mapping.Record) error {
	remoteID := rec.ID()
	if remoteID != "" {
		p.seenCollections[remoteID] = true
	}

	ref, link, err := s.collectionImage(ctx, p, rec)
	if err != nil {
		return err
	}

	res, err := reconcile.Reconcile(ctx, s.collectionKind(), collectionTable, rec,
		func(ctx context.Context, c *models.Collection, changes *mapping.Changes) error {
			if link {
				setRef(&c.ImageID, ref, "ImageID", changes)
			}
			return nil
		})
	if err != nil {
		return s.failed(ctx, p, "collection", remoteID, models.IssueCodeValidation, err)
	}

	s.saved(p, res.Entity, outcomeOf(res))
	return s.publish(ctx, p, res.Entity)
}

// collectionImage reconciles the embedded image on its own, so a broken image
// never holds back the collection. link is false when the collection should
// keep whatever image it has. Collection images carry no id of their own, so
// the source URL stands in for one.
func (s *Syncer) collectionImage(ctx context.Context, p *pass, rec mapping.Record) (ref *string, link bool, err error) {
	if !rec.Has("image") {
		return nil, false, nil
	}
	imgRec, ok := rec.Object("image")
	if !ok {
		return nil, true, nil
	}

	if imgRec.ID() == "" {
		src, _ := mapping.String.Convert(imgRec["src"])
		if src == "" {
			err := fmt.Errorf("image of collection %s has neither id nor src", rec.ID())
			return nil, false, s.failed(ctx, p, "image", rec.ID(), models.IssueCodeValidation, err)
		}
		imgRec = withID(imgRec, src)
	}

	img, err := s.importImage(ctx, p, imgRec, collectionImageFolder, nil)
	if err != nil {
		return nil, false, s.failed(ctx, p, "image", imgRec.ID(), models.IssueCodeValidation, err)
	}
	return &img.ID, true, nil
}

func withID(rec mapping.Record, id string) mapping.Record {
	out := make(mapping.Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	out["id"] = id
	return out
}

// sweepCollections deletes local collections the remote listing no longer
// has, then the standalone images no collection points at anymore.
func (s *Syncer) sweepCollections(ctx context.Context, p *pass) error {
	orphans, err := s.store.Collections.Orphans(ctx, p.seenCollections)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for i := range orphans {
		c := &orphans[i]
		if _, err := s.gate.Unpublish(ctx, c); err != nil {
			if err := s.failed(ctx, p, "collection", c.RemoteID, models.IssueCodeDelete, err); err != nil {
				return err
			}
			continue
		}
		if err := s.store.DeleteCollection(ctx, c); err != nil {
			if err := s.failed(ctx, p, "collection", c.RemoteID, models.IssueCodeDelete, err); err != nil {
				return err
			}
			continue
		}
		s.deleted(p, "collection", c.ID, c.RemoteID, "collection and its connections")
	}

	unlinked, err := s.store.UnlinkedCollectionImages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collection images: %w", err)
	}
	for i := range unlinked {
		if err := s.deleteImage(ctx, p, &unlinked[i]); err != nil {
			return err
		}
	}
	return nil
}
