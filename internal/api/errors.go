package api

import (
	"net/http"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"

	"github.com/gin-gonic/gin"
)

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an ErrorResponse. Errors outside the taxonomy
// are logged and reported without their internals.
func WriteError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		logger.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	status := StatusFor(e.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "code", e.Code, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: e.Message, Code: e.Code})
}
