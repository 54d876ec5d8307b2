// Package handlers exposes the yard, employee, manager, auth and staffing
// prediction endpoints over gin.
package handlers

import (
	"context"

	"yard-staffing-api/services"
)

// Authenticator is the slice of services.AuthService the HTTP layer uses.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ValidateToken(token string) (*services.Claims, error)
	HashPassword(plain string) (string, error)
}

// ChangePublisher announces successful writes to websocket subscribers.
type ChangePublisher interface {
	PublishChange(ctx context.Context, entity, action string, id uint)
}

var (
	_ Authenticator   = (*services.AuthService)(nil)
	_ ChangePublisher = (*services.CacheService)(nil)
	_ Predictor       = (*services.StaffingModel)(nil)
)
