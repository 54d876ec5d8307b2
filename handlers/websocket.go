package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/middleware"
	"yard-staffing-api/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsWebSocket streams change events from Redis to an authenticated
// client. Browsers cannot set headers on the upgrade, so the token comes in
// the query string.
func EventsWebSocket(cache *services.CacheService, validator middleware.TokenValidator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			respondError(c, http.StatusUnauthorized, "missing token query parameter")
			return
		}
		claims, err := validator.ValidateToken(tokenStr)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !cache.Available() {
			respondError(c, http.StatusServiceUnavailable, "event stream unavailable")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		log := logger.WithField("employee_id", claims.EmployeeID)
		log.Info("event stream opened")
		defer log.Info("event stream closed")

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Read pump: only used to notice the client going away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pubsub := cache.Subscribe(ctx, services.EventsChannel)
		defer pubsub.Close()
		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				err := conn.WriteJSON(gin.H{
					"type": "change",
					"data": msg.Payload,
				})
				if err != nil {
					log.WithError(err).Warn("websocket write failed")
					return
				}
			}
		}
	}
}
