// Package handler adapts HTTP requests to the service layer.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Priyanshusingh0818/GORUS/internal/middleware"
	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the message of the innermost service error, never the
// text of any wrapping. Anything else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorBody("Server error"))
		return
	}
	c.JSON(statusFor(se.Kind), middleware.ErrorBody(se.Message))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, middleware.ErrorBody(msg))
}

// actor builds the caller identity from the token claims set by RequireAuth.
func actor(c *gin.Context) (service.Actor, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, middleware.ErrorBody("Unauthorized"))
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Email: claims.Email, IsAdmin: claims.IsAdmin}, true
}

// idParam parses a positive numeric path parameter; on failure it answers
// 404 with notFound, since no such record can exist.
func idParam(c *gin.Context, name, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, middleware.ErrorBody(notFound))
		return 0, false
	}
	return uint(id), true
}
