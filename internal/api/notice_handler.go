package api

import (
	"errors"
	"fmt"
	"net/http"

	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

// NoticeHandler holds the notice service dependency.
type NoticeHandler struct {
	noticeService service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

type CreateNoticeRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// List returns every notice on the board.
func (h *NoticeHandler) List(c *gin.Context) {
	notices, err := h.noticeService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load notices")
		return
	}

	c.JSON(http.StatusOK, notices)
}

// Create publishes a new notice (admin only).
func (h *NoticeHandler) Create(c *gin.Context) {
	var req CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), req.Title, req.Message, username)
	if err != nil {
		if errors.Is(err, service.ErrNoticeValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create notice")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "notice": notice})
}

// Delete removes a notice (admin only).
func (h *NoticeHandler) Delete(c *gin.Context) {
	err := h.noticeService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete notice")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
