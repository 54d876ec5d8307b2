package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
	"yard-staffing-api/metrics"
	"yard-staffing-api/middleware"
	"yard-staffing-api/repository"
	"yard-staffing-api/services"
)

type RouterDeps struct {
	Logger    *logrus.Logger
	CORS      config.CORSConfig
	Auth      Authenticator
	Model     Predictor
	Cache     *services.CacheService
	Yards     repository.YardStore
	Employees repository.EmployeeStore
	Managers  repository.ManagerStore
	Health    *HealthHandler
}

// NewRouter wires middleware and routes. Reads are public; writes and
// predictions require a bearer token.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(metrics.HTTPMetricsMiddleware())
	r.Use(middleware.SetupCORS(d.CORS))

	r.GET("/health", d.Health.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/events", EventsWebSocket(d.Cache, d.Auth, d.Logger))

	guard := middleware.RequireAuth(d.Auth)

	api := r.Group("/api")
	api.POST("/auth/login", NewAuthHandler(d.Auth).Login)

	v1 := api.Group("/v1")

	yards := NewYardHandler(d.Yards, d.Cache)
	yg := v1.Group("/yards")
	yg.GET("", yards.List)
	yg.GET("/:id", yards.Get)
	yg.POST("", guard, yards.Create)
	yg.PUT("/:id", guard, yards.Update)
	yg.DELETE("/:id", guard, yards.Delete)

	employees := NewEmployeeHandler(d.Employees, d.Auth, d.Cache)
	eg := v1.Group("/employees")
	eg.GET("", employees.List)
	eg.GET("/:id", employees.Get)
	eg.POST("", guard, employees.Create)
	eg.PUT("/:id", guard, employees.Update)
	eg.DELETE("/:id", guard, employees.Delete)

	managers := NewManagerHandler(d.Managers, d.Cache)
	mg := v1.Group("/managers")
	mg.GET("", managers.List)
	mg.GET("/:id", managers.Get)
	mg.POST("", guard, managers.Create)
	mg.PUT("/:id", guard, managers.Update)
	mg.DELETE("/:id", guard, managers.Delete)

	predictions := NewPredictionHandler(d.Model, d.Cache)
	pg := v1.Group("/predictions", guard)
	pg.POST("/yard-staffing", predictions.PredictStaffing)
	pg.GET("/info", predictions.ModelInfo)

	return r
}
