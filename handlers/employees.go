package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yard-staffing-api/models"
	"yard-staffing-api/repository"
)

// PasswordHasher digests plaintext passwords before they are stored.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

type EmployeeHandler struct {
	store  repository.EmployeeStore
	hasher PasswordHasher
	events ChangePublisher
}

func NewEmployeeHandler(store repository.EmployeeStore, hasher PasswordHasher, events ChangePublisher) *EmployeeHandler {
	return &EmployeeHandler{store: store, hasher: hasher, events: events}
}

type createEmployeeRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	YardID   uint   `json:"yardId" binding:"required"`
}

// Password is optional on update; an empty value keeps the stored hash.
type updateEmployeeRequest struct {
	ID       uint   `json:"id"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"omitempty,min=6,max=100"`
	YardID   uint   `json:"yardId" binding:"required"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	page := ParsePagination(c)
	employees, total, err := h.store.List(c.Request.Context(), page)
	if err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	c.JSON(http.StatusOK, NewPageResponse(employees, page, total))
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	employee, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.HashPassword(req.Password)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "could not hash password")
		return
	}
	employee := models.Employee{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		YardID:       req.YardID,
	}

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, &employee); err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	h.events.PublishChange(ctx, "employee", "created", employee.ID)
	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID != id {
		respondError(c, http.StatusBadRequest, "id in path and body do not match")
		return
	}

	ctx := c.Request.Context()
	employee, err := h.store.Get(ctx, id)
	if err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	employee.Name = strings.TrimSpace(req.Name)
	employee.Email = strings.TrimSpace(req.Email)
	employee.YardID = req.YardID
	employee.Yard = nil
	if req.Password != "" {
		hash, err := h.hasher.HashPassword(req.Password)
		if err != nil {
			_ = c.Error(err)
			respondError(c, http.StatusInternalServerError, "could not hash password")
			return
		}
		employee.PasswordHash = hash
	}

	if err := h.store.Update(ctx, employee); err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	h.events.PublishChange(ctx, "employee", "updated", id)
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, id); err != nil {
		respondStoreError(c, err, "employee")
		return
	}
	h.events.PublishChange(ctx, "employee", "deleted", id)
	c.Status(http.StatusNoContent)
}
