package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shopsync/internal/database"
	"shopsync/internal/logger"
)

type CollectionHandler struct {
	store  *database.Store
	logger *logger.Logger
}

func NewCollectionHandler(store *database.Store, logger *logger.Logger) *CollectionHandler {
	return &CollectionHandler{
		store:  store,
		logger: logger,
	}
}

func (h *CollectionHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	collections, total, err := h.store.Collections.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to fetch collections: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": collections,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *CollectionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	collection, err := h.store.Collections.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection"})
		return
	}

	products, err := h.store.CollectionProducts(ctx, collection.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      collection,
		"published": collection.IsPublished(),
		"products":  products,
	})
}
