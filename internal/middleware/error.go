package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/internal/apperr"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ErrorHandler recovers panics and renders errors attached with c.Error as
// JSON, unless the handler already wrote a response.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("request_id", GetRequestID(c)),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "Internal Server Error",
					Kind:  string(apperr.KindUnknown),
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		fields := []zap.Field{
			zap.Error(err),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.String("request_id", GetRequestID(c)),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Info("request failed", fields...)
		}

		c.JSON(status, ErrorResponse{
			Error: apperr.UserMessage(err),
			Kind:  string(apperr.KindOf(err)),
		})
	}
}
