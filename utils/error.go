package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Limit   int    `json:"limit,omitempty"`  // the policy limit that was hit
	Reason  string `json:"reason,omitempty"` // why a requested slot is taken
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.FullPath()))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, resp ErrorResponse) {
	fields := []zap.Field{zap.Int("status", status), zap.String("path", c.FullPath())}
	if resp.Code != "" {
		fields = append(fields, zap.String("code", resp.Code))
	}
	if resp.Details != "" {
		fields = append(fields, zap.String("details", resp.Details))
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(resp.Message, fields...)
	} else {
		GetLogger().Warn(resp.Message, fields...)
	}
	c.AbortWithStatusJSON(status, resp)
}
