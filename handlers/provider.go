package handlers

import (
	"net/http"

	"shinely/models"
	"shinely/services/provider"

	"github.com/gin-gonic/gin"
)

// ProviderHandler manages the provider records the engine schedules against.
type ProviderHandler struct {
	Service provider.ProviderService
}

func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var req models.Provider
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Service.RegisterProvider(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Provider registered", "provider": p})
}

func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	p, err := h.Service.GetProvider(c.Request.Context(), c.Param("providerID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": p})
}

// UpdateScheduleHandler replaces working hours, lunch and travel buffer.
func (h *ProviderHandler) UpdateScheduleHandler(c *gin.Context) {
	var req models.ProviderSchedule
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Service.UpdateSchedule(c.Request.Context(), c.Param("providerID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated", "provider": p})
}

func (h *ProviderHandler) UpdateCatalogHandler(c *gin.Context) {
	var req struct {
		Catalog []models.ServiceCatalogItem `json:"catalog" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Service.UpdateCatalog(c.Request.Context(), c.Param("providerID"), req.Catalog)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catalog updated", "provider": p})
}
