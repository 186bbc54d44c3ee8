package processors

import (
	"context"
	"errors"

	"shopsync/internal/database"
	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"
)

// Runner runs one catalog sync pass.
type Runner interface {
	Run(ctx context.Context, trigger string) (*models.SyncRun, error)
}

type EventProcessor struct {
	runner Runner
	logger *logger.Logger
}

func NewEventProcessor(runner Runner, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		runner: runner,
		logger: logger,
	}
}

// Process handles one decoded event. Only sync requests do anything; a
// request that arrives while a pass is running is dropped, since the running
// pass already covers it.
func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	ep.logger.Debug("Processing event: %+v", event)

	switch event.Type {
	case events.TypeSyncRequested:
		trigger := event.Trigger
		if trigger == "" {
			trigger = "worker"
		}

		run, err := ep.runner.Run(ctx, trigger)
		if errors.Is(err, database.ErrSyncInProgress) {
			ep.logger.Warning("[%s] Sync already running, request dropped", trigger)
			return nil
		}
		if err != nil {
			return err
		}
		ep.logger.Success("[%s] Sync run %d finished", run.ID, run.Generation)
		return nil
	default:
		ep.logger.Debug("Ignoring event type %s", event.Type)
		return nil
	}
}
