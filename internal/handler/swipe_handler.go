package handler

import (
	"net/http"
	"time"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SwipeInput struct {
	Action string `json:"action" binding:"required,oneof=like pass" example:"like"`
}

type SwipeResponse struct {
	UserID    uint      `json:"user_id"`
	SessionID uint      `json:"session_id"`
	Action    string    `json:"action"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSwipeResponse(swipe models.UserSwipe) SwipeResponse {
	return SwipeResponse{
		UserID:    swipe.UserID,
		SessionID: swipe.SessionID,
		Action:    string(swipe.Action),
		UpdatedAt: swipe.UpdatedAt,
	}
}

func newSwipeResponses(swipes []models.UserSwipe) []SwipeResponse {
	responses := make([]SwipeResponse, 0, len(swipes))
	for _, s := range swipes {
		responses = append(responses, newSwipeResponse(s))
	}
	return responses
}

// endregion

// RecordSwipe godoc
// @Summary      Record a like/pass on a session
// @Description  Stores the caller's outcome for the session; a later submission overwrites the earlier one.
// @Tags         swipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int        true "Session ID"
// @Param        input body SwipeInput true "Swipe action"
// @Success      200 {object} SwipeResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/swipe [post]
func (h *Handler) RecordSwipe(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input SwipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	swipe, err := h.swipes.Record(c.Request.Context(), userID, sessionID, models.SwipeAction(input.Action))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSwipeResponse(*swipe))
}

// ListSessionSwipes godoc
// @Summary      List all swipe outcomes for a session
// @Tags         swipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} SwipeResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/swipes [get]
func (h *Handler) ListSessionSwipes(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	swipes, err := h.swipes.ForSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSwipeResponses(swipes))
}

// ListMySwipes godoc
// @Summary      List the caller's swipe outcomes
// @Tags         swipes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SwipeResponse
// @Router       /users/me/swipes [get]
func (h *Handler) ListMySwipes(c *gin.Context) {
	userID, _ := auth.UserID(c)

	swipes, err := h.swipes.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSwipeResponses(swipes))
}
