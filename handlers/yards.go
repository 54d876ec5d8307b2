package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/models"
	"yard-staffing-api/repository"
	"yard-staffing-api/services"
)

const yardCacheTTL = 10 * time.Minute

type YardHandler struct {
	store repository.YardStore
	cache *services.CacheService
}

func NewYardHandler(store repository.YardStore, cache *services.CacheService) *YardHandler {
	return &YardHandler{store: store, cache: cache}
}

func (h *YardHandler) List(c *gin.Context) {
	page := ParsePagination(c)
	yards, total, err := h.store.List(c.Request.Context(), page)
	if err != nil {
		respondStoreError(c, err, "yard")
		return
	}
	c.JSON(http.StatusOK, NewPageResponse(yards, page, total))
}

// Get reads through the cache.
func (h *YardHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := services.YardCacheKey(id)

	var cached models.Yard
	if err := h.cache.Get(ctx, key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	yard, err := h.store.Get(ctx, id)
	if err != nil {
		respondStoreError(c, err, "yard")
		return
	}
	h.cache.SetAsync(key, yard, yardCacheTTL)
	c.JSON(http.StatusOK, yard)
}

func (h *YardHandler) Create(c *gin.Context) {
	var yard models.Yard
	if err := c.ShouldBindJSON(&yard); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	yard.ID = 0

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, &yard); err != nil {
		respondStoreError(c, err, "yard")
		return
	}
	h.cache.PublishChange(ctx, "yard", "created", yard.ID)
	c.JSON(http.StatusCreated, yard)
}

func (h *YardHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var yard models.Yard
	if err := c.ShouldBindJSON(&yard); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if yard.ID != id {
		respondError(c, http.StatusBadRequest, "id in path and body do not match")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Update(ctx, &yard); err != nil {
		respondStoreError(c, err, "yard")
		return
	}
	_ = h.cache.Delete(ctx, services.YardCacheKey(id))
	h.cache.PublishChange(ctx, "yard", "updated", id)
	c.Status(http.StatusNoContent)
}

func (h *YardHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, id); err != nil {
		respondStoreError(c, err, "yard")
		return
	}
	_ = h.cache.Delete(ctx, services.YardCacheKey(id))
	h.cache.PublishChange(ctx, "yard", "deleted", id)
	c.Status(http.StatusNoContent)
}
