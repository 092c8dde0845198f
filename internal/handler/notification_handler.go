package handler

import (
	"net/http"
	"strconv"
	"time"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type NotificationResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	RetryCount   int        `json:"retry_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Title:        n.Title,
		Body:         n.Body,
		Status:       string(n.Status),
		ErrorMessage: n.ErrorMessage,
		SentAt:       n.SentAt,
		RetryCount:   n.RetryCount,
		CreatedAt:    n.CreatedAt,
	}
}

// endregion

// ListMyNotifications godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} NotificationResponse
// @Router       /notifications [get]
func (h *Handler) ListMyNotifications(c *gin.Context) {
	userID, _ := auth.UserID(c)

	rows, err := h.notifications.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		responses = append(responses, newNotificationResponse(n))
	}
	c.JSON(http.StatusOK, responses)
}

// CancelNotification godoc
// @Summary      Cancel a pending notification
// @Description  Marks a still-pending notification cancelled. Already-delivered or failed notifications cannot be cancelled.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} NotificationResponse
// @Failure      403 {object} ErrorResponse "Not the recipient"
// @Failure      404 {object} ErrorResponse "Notification not found"
// @Failure      409 {object} ErrorResponse "Notification is not pending"
// @Router       /notifications/{id}/cancel [post]
func (h *Handler) CancelNotification(c *gin.Context) {
	userID, _ := auth.UserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	n, cancelErr := h.notifications.Cancel(c.Request.Context(), uint(id), userID)
	if cancelErr != nil {
		respondServiceError(c, cancelErr)
		return
	}
	c.JSON(http.StatusOK, newNotificationResponse(*n))
}
