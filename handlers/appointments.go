package handlers

import (
	"context"
	"net/http"

	"shinely/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RescheduleHandler moves one appointment to a new date and time.
func (h *SchedulingHandler) RescheduleHandler(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.AppointmentID = c.Param("appointmentID")

	appt, err := h.Scheduling.Reschedule(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	getLogger(c).Info("Appointment rescheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("date", appt.ScheduledDate),
		zap.Int("rescheduleCount", appt.RescheduleCount))
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *SchedulingHandler) ArriveHandler(c *gin.Context) {
	h.transition(c, h.Scheduling.MarkArrived)
}

func (h *SchedulingHandler) MissedHandler(c *gin.Context) {
	h.transition(c, h.Scheduling.MarkMissed)
}

func (h *SchedulingHandler) UndoMissedHandler(c *gin.Context) {
	h.transition(c, h.Scheduling.UndoMissed)
}

func (h *SchedulingHandler) CancelHandler(c *gin.Context) {
	h.transition(c, h.Scheduling.Cancel)
}

func (h *SchedulingHandler) CompleteHandler(c *gin.Context) {
	h.transition(c, h.Scheduling.Complete)
}

func (h *SchedulingHandler) transition(c *gin.Context, apply func(context.Context, string) (*models.Appointment, error)) {
	appt, err := apply(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}
