package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutorlink/internal/api"
	"tutorlink/internal/service"
	"tutorlink/internal/session"
	"tutorlink/internal/validation"
)

// writeError traduce los errores de servicio a status HTTP.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var verr *validation.Error
	var apiErr *api.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrForbiddenRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed for this role"})
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, api.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, session.ErrLogoutFailed):
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "logout failed, session kept"})
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		c.JSON(apiErr.StatusCode, gin.H{"error": msg})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	}
}
