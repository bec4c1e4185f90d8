package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"shinely/models"
	"shinely/services/booking"
	"shinely/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler serves availability, quoting and booking.
type SchedulingHandler struct {
	Availability booking.AvailabilityCalculator
	Scheduling   booking.SchedulingService
	Payments     payment.PaymentService
}

// GetAvailabilityHandler lists every grid start of a provider's day for a
// given total duration, each marked available or carrying its reason.
func (h *SchedulingHandler) GetAvailabilityHandler(c *gin.Context) {
	q, err := slotQueryFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slots, err := h.Availability.ComputeSlots(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		ProviderID: q.ProviderID,
		Date:       q.Date,
		Duration:   q.TotalDurationMinutes,
		Slots:      booking.SlotDTOs(slots),
	})
}

func slotQueryFrom(c *gin.Context) (booking.SlotQuery, error) {
	q := booking.SlotQuery{ProviderID: c.Param("providerID"), Date: c.Query("date")}

	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		return q, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeInvalidDuration, "duration", "duration must be a whole number of minutes")
	}
	q.TotalDurationMinutes = duration

	site := models.JobSite{Address: c.Query("address")}
	lat, lng := c.Query("lat"), c.Query("lng")
	if lat != "" || lng != "" {
		latV, latErr := strconv.ParseFloat(lat, 64)
		lngV, lngErr := strconv.ParseFloat(lng, 64)
		if latErr != nil || lngErr != nil {
			return q, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeInvalidLocation, "location", "lat and lng must both be numbers")
		}
		site.Geo = models.NewGeoPoint(latV, lngV)
		if !site.Geo.Valid() {
			return q, booking.NewSchedulingError(booking.KindInvalidInput, booking.CodeInvalidLocation, "location", "coordinates out of range")
		}
	}
	if site.Known() {
		q.JobSite = &site
	}

	if exclude := c.Query("exclude"); exclude != "" {
		for _, id := range strings.Split(exclude, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.ExcludeAppointmentIDs = append(q.ExcludeAppointmentIDs, id)
			}
		}
	}
	return q, nil
}

// QuoteHandler prices and times a cart without booking it.
func (h *SchedulingHandler) QuoteHandler(c *gin.Context) {
	var req struct {
		ProviderID string                   `json:"providerId" binding:"required"`
		Items      []models.BookingCartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.Scheduling.Quote(c.Request.Context(), req.ProviderID, req.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// ConfirmBookingHandler books a cart at one start time.
func (h *SchedulingHandler) ConfirmBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	confirmation, err := h.Scheduling.ConfirmBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Info("Booking confirmed",
		zap.String("bookingID", confirmation.BookingID),
		zap.String("providerID", req.ProviderID),
		zap.Int("vehicles", len(confirmation.Appointments)))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed",
		"booking": confirmation,
	})
}

// PaymentIntentHandler opens a card payment for a quoted cart.
func (h *SchedulingHandler) PaymentIntentHandler(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	intent, err := h.Payments.CreateIntent(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"paymentIntent": intent})
}

// DayAppointmentsHandler lists a provider's appointments for one date.
func (h *SchedulingHandler) DayAppointmentsHandler(c *gin.Context) {
	appts, err := h.Scheduling.DayAppointments(c.Request.Context(), c.Param("providerID"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
