package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tedtalks-backend/internal/shared/middleware"
	"tedtalks-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupTalkRoutes(v1, c)
		setupSpeakerRoutes(v1, c)
		setupImportRoutes(v1, c)
		setupAnalysisRoutes(v1, c)
	}

	return router
}

func setupTalkRoutes(v1 *gin.RouterGroup, c *container.Container) {
	talks := v1.Group("/talks")
	{
		talks.GET("", c.TalkHandler.List)
		talks.GET("/count", c.TalkHandler.Count)
		talks.GET("/search", c.TalkHandler.Search)
		talks.GET("/by-speaker/:name", c.TalkHandler.GetBySpeaker)
		talks.GET("/by-year/:year", c.TalkHandler.GetByYear)
		talks.GET("/:id", c.TalkHandler.GetByID)
		talks.POST("", c.TalkHandler.Create)
		talks.PATCH("/:id", c.TalkHandler.Update)
		talks.DELETE("/:id", c.TalkHandler.Delete)
	}
}

func setupSpeakerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	speakers := v1.Group("/speakers")
	{
		speakers.GET("", c.SpeakerHandler.List)
		speakers.GET("/count", c.SpeakerHandler.Count)
		speakers.GET("/search", c.SpeakerHandler.Search)
		speakers.GET("/by-name/:name", c.SpeakerHandler.GetByName)
		speakers.GET("/:id", c.SpeakerHandler.GetByID)
		speakers.POST("", c.SpeakerHandler.Create)
		speakers.PATCH("/:id/bio", c.SpeakerHandler.UpdateBio)
		speakers.DELETE("/:id", c.SpeakerHandler.Delete)
	}
}

func setupImportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	imports := v1.Group("/import")
	{
		imports.POST("", c.ImportHandler.Submit)
		imports.GET("/:id/status", c.ImportHandler.Status)
		imports.GET("/:id/errors", c.ImportHandler.Errors)
	}
}

func setupAnalysisRoutes(v1 *gin.RouterGroup, c *container.Container) {
	analysis := v1.Group("/analysis")
	{
		analysis.GET("/top-speakers", c.AnalysisHandler.TopSpeakers)
		analysis.GET("/most-influential-per-year", c.AnalysisHandler.PerYear)
		analysis.GET("/speakers/:name", c.AnalysisHandler.Speaker)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
			"version":  c.Config.App.Version,
		})
	}
}
