package handlers

import (
	"errors"
	"net/http"

	"shinely/services/booking"
	"shinely/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps a scheduling error kind to its HTTP status.
func statusFor(se *booking.SchedulingError) int {
	switch se.Kind {
	case booking.KindInvalidInput:
		if se.Code == booking.CodeUnknownProvider {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindPolicyViolation:
		return http.StatusUnprocessableEntity
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindCollaboratorUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders any service error as a structured JSON response.
func writeError(c *gin.Context, err error) {
	var se *booking.SchedulingError
	if !errors.As(err, &se) {
		utils.JSONError(c, http.StatusInternalServerError, utils.ErrorResponse{
			Message: "Internal Server Error",
			Details: err.Error(),
		})
		return
	}
	resp := utils.ErrorResponse{
		Message: se.Message,
		Code:    se.Code,
		Field:   se.Field,
		Limit:   se.Limit,
		Reason:  string(se.Reason),
	}
	if resp.Message == "" {
		resp.Message = se.Error()
	}
	if se.Kind == booking.KindCollaboratorUnavailable && se.Err != nil {
		resp.Details = se.Err.Error()
	}
	utils.JSONError(c, statusFor(se), resp)
}

// badRequest reports a payload that failed binding.
func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, utils.ErrorResponse{
		Message: "Invalid request payload",
		Code:    "invalid_request",
		Details: err.Error(),
	})
}
