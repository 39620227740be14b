package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/middleware"
	"github.com/orazbekov/ratehub/internal/service"
	"github.com/orazbekov/ratehub/pkg/logger"
)

// respondError maps a service error to its status code and a safe message.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{
		"error": apperr.Message(err),
	})
}

// caller converts the authenticated claims into a service.Caller. Routes
// calling this must run behind the Authenticate middleware.
func caller(c *gin.Context) (service.Caller, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, true
}

// uintParam parses a numeric path parameter. Unparsable ids map to 404,
// the same as ids that parse but match nothing.
func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}
