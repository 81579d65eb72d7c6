package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes (public read access)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/rankings", handler.GetRankings)
		v1.GET("/rankings/all", handler.GetAllRankings)

		v1.GET("/nodes/:id/timeline", handler.GetNodeTimeline)
		v1.GET("/nodes/:id/ranks", handler.GetNodeRanks)

		v1.GET("/channels", handler.ListChannels)
		v1.GET("/channels/:id", handler.GetChannelDetail)

		v1.GET("/insights/summary", handler.GetInsightsSummary)
	}
}
