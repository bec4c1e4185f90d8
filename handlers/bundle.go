package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Scheduling *SchedulingHandler
	Route      *RouteHandler
	Provider   *ProviderHandler

	// Health and metrics endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}
