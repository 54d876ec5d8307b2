package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/models"
	"yard-staffing-api/repository"
)

type ManagerHandler struct {
	store  repository.ManagerStore
	events ChangePublisher
}

func NewManagerHandler(store repository.ManagerStore, events ChangePublisher) *ManagerHandler {
	return &ManagerHandler{store: store, events: events}
}

type managerRequest struct {
	ID         uint `json:"id"`
	EmployeeID uint `json:"employeeId" binding:"required"`
	YardID     uint `json:"yardId" binding:"required"`
}

func (h *ManagerHandler) List(c *gin.Context) {
	page := ParsePagination(c)
	managers, total, err := h.store.List(c.Request.Context(), page)
	if err != nil {
		respondStoreError(c, err, "manager")
		return
	}
	c.JSON(http.StatusOK, NewPageResponse(managers, page, total))
}

func (h *ManagerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	manager, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "manager")
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *ManagerHandler) Create(c *gin.Context) {
	var req managerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	manager := models.Manager{EmployeeID: req.EmployeeID, YardID: req.YardID}

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, &manager); err != nil {
		respondStoreError(c, err, "manager")
		return
	}
	h.events.PublishChange(ctx, "manager", "created", manager.ID)
	c.JSON(http.StatusCreated, manager)
}

func (h *ManagerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req managerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID != id {
		respondError(c, http.StatusBadRequest, "id in path and body do not match")
		return
	}

	ctx := c.Request.Context()
	manager := models.Manager{ID: id, EmployeeID: req.EmployeeID, YardID: req.YardID}
	if err := h.store.Update(ctx, &manager); err != nil {
		respondStoreError(c, err, "manager")
		return
	}
	h.events.PublishChange(ctx, "manager", "updated", id)
	c.Status(http.StatusNoContent)
}

func (h *ManagerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, id); err != nil {
		respondStoreError(c, err, "manager")
		return
	}
	h.events.PublishChange(ctx, "manager", "deleted", id)
	c.Status(http.StatusNoContent)
}
