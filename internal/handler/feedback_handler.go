package handler

import (
	"net/http"
	"time"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type FeedbackInput struct {
	EnjoymentRating  int    `json:"enjoyment_rating" binding:"required,min=1,max=5" example:"4"`
	Attended         bool   `json:"attended"`
	PresentPlayerIDs []uint `json:"present_player_ids"`
	Comment          string `json:"comment"`
}

type FeedbackResponse struct {
	UserID           uint      `json:"user_id"`
	SessionID        uint      `json:"session_id"`
	EnjoymentRating  int       `json:"enjoyment_rating"`
	Attended         bool      `json:"attended"`
	PresentPlayerIDs []uint    `json:"present_player_ids"`
	Comment          string    `json:"comment"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newFeedbackResponse(fb models.SessionFeedback) FeedbackResponse {
	return FeedbackResponse{
		UserID:           fb.UserID,
		SessionID:        fb.SessionID,
		EnjoymentRating:  fb.EnjoymentRating,
		Attended:         fb.Attended,
		PresentPlayerIDs: fb.PresentPlayerIDs,
		Comment:          fb.Comment,
		UpdatedAt:        fb.UpdatedAt,
	}
}

func newFeedbackResponses(rows []models.SessionFeedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(rows))
	for _, fb := range rows {
		responses = append(responses, newFeedbackResponse(fb))
	}
	return responses
}

// endregion

// SubmitFeedback godoc
// @Summary      Submit feedback for a session
// @Description  Upserts the caller's rating for the session; a second submission overwrites the first.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Session ID"
// @Param        input body FeedbackInput true "Feedback"
// @Success      200 {object} FeedbackResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/feedback [put]
func (h *Handler) SubmitFeedback(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.feedback.Submit(c.Request.Context(), userID, sessionID, service.FeedbackParams{
		EnjoymentRating:  input.EnjoymentRating,
		Attended:         input.Attended,
		PresentPlayerIDs: input.PresentPlayerIDs,
		Comment:          input.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackResponse(*fb))
}

// ListSessionFeedback godoc
// @Summary      List all feedback for a session
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} FeedbackResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/feedback [get]
func (h *Handler) ListSessionFeedback(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	rows, err := h.feedback.ForSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackResponses(rows))
}

// ListMyFeedback godoc
// @Summary      List the caller's submitted feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} FeedbackResponse
// @Router       /users/me/feedback [get]
func (h *Handler) ListMyFeedback(c *gin.Context) {
	userID, _ := auth.UserID(c)

	rows, err := h.feedback.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedbackResponses(rows))
}
