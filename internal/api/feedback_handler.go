package api

import (
	"errors"
	"fmt"
	"net/http"

	"hostelhub/internal/domain"
	"hostelhub/internal/realtime"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler holds the feedback service dependency.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

type SubmitFeedbackRequest struct {
	Feedback domain.FeedbackCategory `json:"feedback" binding:"required"`
}

// Submit records one mess feedback for the authenticated user. The
// identity comes from the JWT, never from the request body.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get username from token")
		return
	}

	counts, remaining, err := h.feedbackService.Submit(c.Request.Context(), username, req.Feedback)
	if err != nil {
		if errors.Is(err, realtime.ErrQuotaExceeded) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "You can submit only 3 feedbacks per day",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidCategory) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"counts":    counts,
		"remaining": remaining,
	})
}

// Live returns the current aggregate counters.
func (h *FeedbackHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "counts": h.feedbackService.Counts()})
}

// Stats returns audit-derived totals.
func (h *FeedbackHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.feedbackService.Stats()})
}
