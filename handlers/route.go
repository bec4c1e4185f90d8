package handlers

import (
	"net/http"

	"shinely/models"
	"shinely/services/route"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteHandler serves the provider's driving day.
type RouteHandler struct {
	Sequencer *route.Sequencer
	Tracker   *route.Tracker
}

type locationRequest struct {
	Location *models.LatLng `json:"location" binding:"required"`
	Date     string         `json:"date"`
}

// ActivateRouteHandler starts the provider's route from their current location.
func (h *RouteHandler) ActivateRouteHandler(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := h.Sequencer.Plan(c.Request.Context(), route.PlanRequest{
		ProviderID: c.Param("providerID"),
		Date:       req.Date,
		Current:    req.Location.Point(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	getLogger(c).Info("Route activated",
		zap.String("providerID", plan.ProviderID),
		zap.Int("stops", len(plan.Stops)),
		zap.Bool("etaAvailable", plan.ETAAvailable))
	c.JSON(http.StatusOK, gin.H{"route": plan})
}

// LocationUpdateHandler records a live location and returns the refreshed route.
func (h *RouteHandler) LocationUpdateHandler(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := h.Tracker.Update(c.Request.Context(), route.PlanRequest{
		ProviderID: c.Param("providerID"),
		Date:       req.Date,
		Current:    req.Location.Point(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"route":       plan,
		"nearNextJob": plan.NearNextJob,
	})
}
