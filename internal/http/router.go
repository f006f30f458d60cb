package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/config"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/http/handlers"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/http/middleware"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/insights"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/store"

	_ "github.com/Gabru-xD/geo-rescue-optimizer/docs"
)

func Router(cfg config.Config, st *store.Store, db handlers.Pinger, ins insights.Adapter, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := handlers.New(st, db, ins, logger)

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/incidents", h.IncidentsList)
		api.POST("/incidents", h.ReportIncident)
		api.GET("/incidents/active", h.ActiveIncident)
		api.GET("/incidents/:id", h.IncidentDetails)
		api.PATCH("/incidents/:id", h.UpdateIncident)
		api.GET("/incidents/:id/insights", h.IncidentInsights)
		api.POST("/incidents/:id/updates", h.AppendIncidentUpdate)
		api.POST("/incidents/:id/focus", h.FocusIncident)
		api.POST("/incidents/:id/assign", h.AssignResource)
		api.POST("/incidents/:id/unassign", h.UnassignResource)
		api.POST("/incidents/:id/optimize", h.OptimizeAllocation)

		api.GET("/resources", h.ResourcesList)
		api.POST("/resources", h.AddResource)
		api.GET("/resources/available", h.AvailableResources)
		api.PATCH("/resources/:id", h.UpdateResource)

		api.GET("/analytics", h.Analytics)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
