package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopsync/internal/catalog"
	"shopsync/internal/database"
	"shopsync/internal/logger"
)

// Trigger starts a sync pass without waiting for it.
type Trigger interface {
	Trigger(ctx context.Context, source string) error
}

type SyncHandler struct {
	store   *database.Store
	trigger Trigger
	logger  *logger.Logger
}

func NewSyncHandler(store *database.Store, trigger Trigger, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		store:   store,
		trigger: trigger,
		logger:  logger,
	}
}

func (h *SyncHandler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	held, err := h.store.LockHeld(ctx, catalog.LockName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check sync state"})
		return
	}
	if held {
		c.JSON(http.StatusConflict, gin.H{"error": database.ErrSyncInProgress.Error()})
		return
	}

	if err := h.trigger.Trigger(ctx, "api"); err != nil {
		if errors.Is(err, database.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to start sync: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sync"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Sync started"})
}
