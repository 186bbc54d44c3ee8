package catalog

import (
	"context"
	"errors"
	"strings"

	"shopsync/internal/metrics"
	"shopsync/internal/models"
	"shopsync/internal/reconcile"
)

type outcome struct {
	created bool
	written bool
}

func outcomeOf[T any](res reconcile.Result[T]) outcome {
	return outcome{created: res.Created, written: res.Written}
}

// saved logs and counts a successful reconcile.
func (s *Syncer) saved(p *pass, entity models.Entity, o outcome) {
	kind := entity.Kind()
	switch {
	case o.created:
		p.run.Created++
		metrics.RecordEntity(kind, metrics.ActionCreated)
		s.logger.Success("[%s] Created %s %s", entity.GetID(), kind, entity.Label())
	case o.written:
		p.run.Updated++
		metrics.RecordEntity(kind, metrics.ActionUpdated)
		s.logger.Success("[%s] Saved changes in %s %s", entity.GetID(), kind, entity.Label())
	default:
		p.run.Unchanged++
		metrics.RecordEntity(kind, metrics.ActionUnchanged)
		s.logger.Notice("[%s] %s %s has no changes", entity.GetID(), title(kind), entity.Label())
	}
}

func (s *Syncer) deleted(p *pass, kind, localID, remoteID, what string) {
	p.run.Deleted++
	metrics.RecordEntity(kind, metrics.ActionDeleted)
	s.logger.Success("[%s][%s] Deleted %s", localID, remoteID, what)
}

func (s *Syncer) skipped(p *pass, kind, remoteID, reason string) {
	p.run.Skipped++
	metrics.RecordEntity(kind, metrics.ActionSkipped)
	s.logger.Debug("[%s] Skipped %s: %s", remoteID, kind, reason)
}

// failed isolates an object-level error: it is logged, counted and stored as
// an issue on the run. Only a cancelled context is passed back up.
func (s *Syncer) failed(ctx context.Context, p *pass, kind, remoteID, code string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var ve *reconcile.ValidationError
	if errors.As(err, &ve) {
		err = ve.Err
	}

	p.run.Failed++
	metrics.RecordEntity(kind, metrics.ActionFailed)
	s.logger.Error("[%s] Could not import %s: %v", remoteID, kind, err)

	severity := models.IssueSeverityHigh
	if code != models.IssueCodeValidation {
		severity = models.IssueSeverityMedium
	}
	issue := &models.SyncIssue{
		RunID:       p.run.ID,
		Kind:        kind,
		RemoteID:    remoteID,
		Code:        code,
		Severity:    severity,
		Explanation: err.Error(),
	}
	if recErr := s.store.RecordIssue(ctx, issue); recErr != nil {
		s.logger.Warning("[%s] Could not record issue for %s: %v", remoteID, kind, recErr)
	}
	return nil
}

// publish promotes entity unless it is already live.
func (s *Syncer) publish(ctx context.Context, p *pass, entity models.Entity) error {
	published, err := s.gate.Publish(ctx, entity)
	if err != nil {
		return s.failed(ctx, p, entity.Kind(), entity.GetRemoteID(), models.IssueCodePublish, err)
	}
	if published {
		s.logger.Success("[%s] Published %s %s", entity.GetID(), entity.Kind(), entity.Label())
	} else {
		s.logger.Notice("[%s] %s %s is already published", entity.GetID(), title(entity.Kind()), entity.Label())
	}
	return nil
}

func title(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}
