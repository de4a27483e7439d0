package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/service"
	"github.com/jengzang/smartcity-backend-go/pkg/response"
)

// writeError maps service errors to HTTP responses
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Complaint not found")
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidImage):
		response.Error(c, 400, err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}
