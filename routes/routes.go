package routes

import (
	"net/http"
	"time"

	"shinely/handlers"
	"shinely/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers provider setup, availability, day view and route endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.POST("", hb.Provider.RegisterProviderHandler)
		api.GET("/:providerID", hb.Provider.GetProviderHandler)
		api.PUT("/:providerID/schedule", hb.Provider.UpdateScheduleHandler)
		api.PUT("/:providerID/catalog", hb.Provider.UpdateCatalogHandler)

		api.GET("/:providerID/availability", hb.Scheduling.GetAvailabilityHandler)
		api.GET("/:providerID/appointments", hb.Scheduling.DayAppointmentsHandler)

		api.POST("/:providerID/route", hb.Route.ActivateRouteHandler)
		api.POST("/:providerID/location", hb.Route.LocationUpdateHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for quoting and booking a cart.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("/quote", hb.Scheduling.QuoteHandler)
		bookingGroup.POST("", hb.Scheduling.ConfirmBookingHandler)
		bookingGroup.POST("/payment-intent", hb.Scheduling.PaymentIntentHandler)
	}
}

// RegisterAppointmentRoutes registers the appointment transitions.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments/:appointmentID")
	{
		api.POST("/reschedule", hb.Scheduling.RescheduleHandler)
		api.POST("/arrive", hb.Scheduling.ArriveHandler)
		api.POST("/missed", hb.Scheduling.MissedHandler)
		api.DELETE("/missed", hb.Scheduling.UndoMissedHandler)
		api.POST("/cancel", hb.Scheduling.CancelHandler)
		api.POST("/complete", hb.Scheduling.CompleteHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	health := hb.HealthHandler
	if health == nil {
		health = func(c *gin.Context) {
			status := utils.GetHealthStatus()
			code := http.StatusOK
			if !status.Healthy() {
				code = http.StatusServiceUnavailable
			}
			c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Shinely"})
		}
	}
	r.GET("/health", health)
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}
