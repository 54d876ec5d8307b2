package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/repository"
)

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondStoreError maps repository errors onto HTTP statuses. Unexpected
// errors are attached to the context for the request logger.
func respondStoreError(c *gin.Context, err error, entity string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, repository.ErrDuplicate):
		respondError(c, http.StatusConflict, entity+" already exists")
	case errors.Is(err, repository.ErrInUse):
		respondError(c, http.StatusConflict, entity+" conflicts with related records")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "database query failed")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
