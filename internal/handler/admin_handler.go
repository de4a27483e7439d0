package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/service"
	"github.com/jengzang/smartcity-backend-go/pkg/response"
)

// AdminHandler handles the akimat export endpoints
type AdminHandler struct {
	akimatService *service.AkimatService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(akimatService *service.AkimatService) *AdminHandler {
	return &AdminHandler{akimatService: akimatService}
}

// Prepare handles POST /admin/akimat/prepare/:id
func (h *AdminHandler) Prepare(c *gin.Context) {
	res, err := h.akimatService.Prepare(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// Payload handles GET /admin/akimat/payload/:id
func (h *AdminHandler) Payload(c *gin.Context) {
	payload, err := h.akimatService.Payload(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, payload)
}

// Send handles POST /admin/akimat/send/:id
func (h *AdminHandler) Send(c *gin.Context) {
	res, err := h.akimatService.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}
