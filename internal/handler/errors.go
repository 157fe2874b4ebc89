package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/service"
)

// respondError maps a service error to an HTTP response. Unclassified
// errors surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status, label := statusForKind(svcErr.Kind)
		c.JSON(status, dto.ErrorResponse{
			Error:   label,
			Message: svcErr.Message,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: "something went wrong",
	})
}

func statusForKind(kind service.ErrorKind) (int, string) {
	switch kind {
	case service.KindBadRequest:
		return http.StatusBadRequest, "Bad request"
	case service.KindUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case service.KindForbidden:
		return http.StatusForbidden, "Forbidden"
	case service.KindNotFound:
		return http.StatusNotFound, "Not found"
	case service.KindConflict:
		return http.StatusConflict, "Conflict"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
