package app

import (
	"context"
	"sync"
	"time"

	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/worker/processors"
)

// LocalTrigger runs each requested pass in a goroutine of this process.
type LocalTrigger struct {
	ctx    context.Context
	runner processors.Runner
	logger *logger.Logger
	wg     sync.WaitGroup
}

// NewLocalTrigger runs passes under ctx, so cancelling it stops them.
func NewLocalTrigger(ctx context.Context, runner processors.Runner, logger *logger.Logger) *LocalTrigger {
	return &LocalTrigger{ctx: ctx, runner: runner, logger: logger}
}

func (t *LocalTrigger) Trigger(_ context.Context, source string) error {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if _, err := t.runner.Run(t.ctx, source); err != nil {
			t.logger.Error("[%s] Sync failed: %v", source, err)
		}
	}()
	return nil
}

// Wait blocks until every started pass has returned.
func (t *LocalTrigger) Wait() {
	t.wg.Wait()
}

// QueueTrigger hands the request to the worker through the requests topic.
type QueueTrigger struct {
	publisher events.Publisher
}

func NewQueueTrigger(publisher events.Publisher) *QueueTrigger {
	return &QueueTrigger{publisher: publisher}
}

func (t *QueueTrigger) Trigger(ctx context.Context, source string) error {
	return t.publisher.Publish(ctx, events.Event{
		Type:      events.TypeSyncRequested,
		Trigger:   source,
		Timestamp: time.Now().UTC(),
	})
}
