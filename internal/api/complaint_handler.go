package api

import (
	"errors"
	"fmt"
	"net/http"

	"hostelhub/internal/domain"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

// ComplaintHandler holds the complaint service dependency.
type ComplaintHandler struct {
	complaintService service.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// --- Request Structs ---

type SubmitComplaintRequest struct {
	RoomNumber  string `json:"roomNumber" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateComplaintRequest struct {
	Status domain.ComplaintStatus `json:"status" binding:"required"`
}

// --- Handler Methods ---

// Submit files a new complaint for the authenticated student.
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var req SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	complaint, err := h.complaintService.Submit(c.Request.Context(), username, req.RoomNumber, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrComplaintValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to submit complaint")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "complaint": complaint})
}

// List returns every complaint.
func (h *ComplaintHandler) List(c *gin.Context) {
	complaints, err := h.complaintService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load complaints")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "complaints": complaints})
}

// Stats returns complaint totals by status.
func (h *ComplaintHandler) Stats(c *gin.Context) {
	stats, err := h.complaintService.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load complaint stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// UpdateStatus lets an admin change a complaint's status.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	complaint, err := h.complaintService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrComplaintNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrInvalidStatus) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update complaint")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": complaint})
}
