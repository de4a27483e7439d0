package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/smartcity-backend-go/internal/models"
	"github.com/jengzang/smartcity-backend-go/internal/service"
	"github.com/jengzang/smartcity-backend-go/pkg/response"
)

// ComplaintHandler handles HTTP requests for complaints
type ComplaintHandler struct {
	complaintService *service.ComplaintService
	maxUpload        int64
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *service.ComplaintService, maxUpload int64) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		maxUpload:        maxUpload,
	}
}

// Create handles POST /complaints
func (h *ComplaintHandler) Create(c *gin.Context) {
	photo, filename, err := h.readPhoto(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), service.CreateInput{
		Photo:      photo,
		Filename:   filename,
		Text:       c.PostForm("text"),
		UICategory: c.PostForm("ui_category"),
		Lat:        c.PostForm("lat"),
		Lng:        c.PostForm("lng"),
		Lang:       c.DefaultPostForm("lang", "ru"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, complaint)
}

// List handles GET /complaints
func (h *ComplaintHandler) List(c *gin.Context) {
	var filter models.ComplaintFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	complaints, err := h.complaintService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, complaints)
}

// Get handles GET /complaints/:id
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.complaintService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, complaint)
}

// Patch handles PATCH /complaints/:id
func (h *ComplaintHandler) Patch(c *gin.Context) {
	var patch models.StatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.UpdateStatus(c.Request.Context(), c.Param("id"), patch.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, complaint)
}

// AfterPhoto handles POST /complaints/:id/after_photo
func (h *ComplaintHandler) AfterPhoto(c *gin.Context) {
	photo, filename, err := h.readPhoto(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	complaint, err := h.complaintService.AttachAfterPhoto(c.Request.Context(), c.Param("id"), photo, filename)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"complaint_id":     complaint.ID,
		"after_image_path": complaint.AfterImagePath,
	})
}

func (h *ComplaintHandler) readPhoto(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return nil, "", fmt.Errorf("photo is required")
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, "", fmt.Errorf("photo exceeds %d bytes", h.maxUpload)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read photo")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read photo")
	}
	return data, fh.Filename, nil
}
