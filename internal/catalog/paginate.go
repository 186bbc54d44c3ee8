package catalog

import (
	"context"
	"strconv"
	"time"

	"shopsync/internal/mapping"
	"shopsync/internal/metrics"
)

type pageFetcher func(ctx context.Context, sinceID string) ([]mapping.Record, error)

type pageHandler func(ctx context.Context, page []mapping.Record) error

// paginate walks a since_id listing. Each cursor is the largest id of the
// previous page; the walk ends on an empty page or when the cursor stops moving.
func (s *Syncer) paginate(ctx context.Context, resource string, fetch pageFetcher, handle pageHandler) error {
	var cursor uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sinceID := ""
		if cursor > 0 {
			sinceID = strconv.FormatUint(cursor, 10)
		}

		start := time.Now()
		page, err := fetch(ctx, sinceID)
		metrics.RecordPageFetch(resource, time.Since(start))
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		if err := handle(ctx, page); err != nil {
			return err
		}

		next := lastID(page)
		if next <= cursor {
			s.logger.Warning("[%d] Cursor for %s did not advance, stopping", cursor, resource)
			return nil
		}
		cursor = next
		s.logger.Notice("[%d] Importing next page of %s since last id", cursor, resource)
	}
}

// lastID is the largest numeric id on the page.
func lastID(page []mapping.Record) uint64 {
	var last uint64
	for _, rec := range page {
		id, err := strconv.ParseUint(rec.ID(), 10, 64)
		if err == nil && id > last {
			last = id
		}
	}
	return last
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
