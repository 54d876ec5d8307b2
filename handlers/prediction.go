package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/services"
)

// Predictor is the trained staffing model as seen by the HTTP layer.
type Predictor interface {
	Predict(req services.StaffingRequest) (services.StaffingPrediction, error)
	Info() services.StaffingModelInfo
	Version() string
}

type PredictionHandler struct {
	model Predictor
	cache *services.CacheService
}

func NewPredictionHandler(model Predictor, cache *services.CacheService) *PredictionHandler {
	return &PredictionHandler{model: model, cache: cache}
}

type predictionRequest struct {
	DayOfWeek *int `json:"dayOfWeek" binding:"required"`
	Hour      *int `json:"hour" binding:"required"`
	Month     *int `json:"month" binding:"required"`
}

func (h *PredictionHandler) PredictStaffing(c *gin.Context) {
	var body predictionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "dayOfWeek, hour and month are required integers")
		return
	}
	req := services.StaffingRequest{DayOfWeek: *body.DayOfWeek, Hour: *body.Hour, Month: *body.Month}

	var verr *services.ValidationError
	if err := req.Validate(); errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	cacheKey := services.PredictionCacheKey(h.model.Version(), req)
	var cached services.StaffingPrediction
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	prediction, err := h.model.Predict(req)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, services.ErrPredictionUnavailable.Error())
		return
	}

	h.cache.SetAsync(cacheKey, prediction, time.Hour)
	c.JSON(http.StatusOK, gin.H{"data": prediction})
}

func (h *PredictionHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.model.Info()})
}
