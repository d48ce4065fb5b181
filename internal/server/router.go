// Package server exposes the HTTP surface: device ingestion, reading queries,
// the event log, and the monitor status endpoints.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with middleware and all routes. token==""
// disables auth; gatherer==nil disables the /metrics endpoint.
func NewRouter(h *Handler, token string, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	// Unauthenticated probes.
	router.GET("/health", h.Health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/", BearerAuthMiddleware(token))
	{
		api.POST("/sensor-data", h.IngestReading)
		api.GET("/sensor-data/latest", h.LatestReading)
		api.GET("/sensor-data/history", h.ReadingHistory)
		api.POST("/log-event", h.LogEvent)
		api.GET("/event-logs", h.EventLogs)
		api.GET("/status", h.Status)
	}

	return router
}
