package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"
)

type stubRunner struct {
	mu       sync.Mutex
	triggers []string
	err      error
}

func (r *stubRunner) Run(_ context.Context, trigger string) (*models.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger)
	if r.err != nil {
		return nil, r.err
	}
	return &models.SyncRun{Trigger: trigger}, nil
}

func TestLocalTriggerRunsInBackground(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	trigger := NewLocalTrigger(context.Background(), runner, logger.NewWithWriter("error", io.Discard))

	require.NoError(t, trigger.Trigger(context.Background(), "api"))
	require.NoError(t, trigger.Trigger(context.Background(), "api"))
	trigger.Wait()

	assert.Equal(t, []string{"api", "api"}, runner.triggers)
}

func TestQueueTriggerPublishesRequest(t *testing.T) {
	rec := &events.Recorder{}
	trigger := NewQueueTrigger(rec)

	require.NoError(t, trigger.Trigger(context.Background(), "api"))

	requests := rec.OfType(events.TypeSyncRequested)
	require.Len(t, requests, 1)
	assert.Equal(t, "api", requests[0].Trigger)
	assert.Equal(t, events.TypeSyncRequested, requests[0].Key())
}
