package handler

import (
	"net/http"
	"strconv"
	"time"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/service"
	"boardmatch/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SessionInput struct {
	GameBGGID    string     `json:"game_bgg_id" binding:"required" example:"13"`
	GameName     string     `json:"game_name" binding:"required" example:"Catan"`
	GameImageURL string     `json:"game_image_url"`
	MinPlayers   int        `json:"min_players" binding:"required,min=1" example:"3"`
	MaxPlayers   int        `json:"max_players" binding:"required,min=1" example:"4"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	Channel      string     `json:"channel"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
}

type SessionUpdateInput struct {
	MinPlayers  int        `json:"min_players" binding:"required,min=1"`
	MaxPlayers  int        `json:"max_players" binding:"required,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Channel     string     `json:"channel"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
}

type TransitionInput struct {
	Status string `json:"status" binding:"required" example:"established"`
}

type SessionResponse struct {
	ID                uint                 `json:"id"`
	Status            string               `json:"status"`
	GameBGGID         string               `json:"game_bgg_id"`
	GameName          string               `json:"game_name"`
	GameImageURL      string               `json:"game_image_url"`
	MinPlayers        int                  `json:"min_players"`
	MaxPlayers        int                  `json:"max_players"`
	ScheduledAt       *time.Time           `json:"scheduled_at,omitempty"`
	Channel           string               `json:"channel,omitempty"`
	Description       string               `json:"description,omitempty"`
	Location          string               `json:"location,omitempty"`
	Host              PublicUserResponse   `json:"host"`
	Players           []PublicUserResponse `json:"players"`
	InterestedPlayers []PublicUserResponse `json:"interested_players"`
}

func newSessionResponse(session models.Session) SessionResponse {
	players := make([]PublicUserResponse, 0, len(session.Players))
	for _, p := range session.Players {
		players = append(players, newPublicUserResponse(p))
	}
	interested := make([]PublicUserResponse, 0, len(session.InterestedPlayers))
	for _, p := range session.InterestedPlayers {
		interested = append(interested, newPublicUserResponse(p))
	}

	return SessionResponse{
		ID:                session.ID,
		Status:            string(session.Status),
		GameBGGID:         session.GameBGGID,
		GameName:          session.GameName,
		GameImageURL:      session.GameImageURL,
		MinPlayers:        session.MinPlayers,
		MaxPlayers:        session.MaxPlayers,
		ScheduledAt:       session.ScheduledAt,
		Channel:           session.Channel,
		Description:       session.Description,
		Location:          session.Location,
		Host:              newPublicUserResponse(session.Host),
		Players:           players,
		InterestedPlayers: interested,
	}
}

func newSessionResponses(sessions []models.Session) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, newSessionResponse(s))
	}
	return responses
}

// endregion

func sessionIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return 0, false
	}
	return uint(id), true
}

// CreateSession godoc
// @Summary      Propose a new session
// @Description  Creates a session with the caller as host. Status starts at "proposed".
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SessionInput true "Session proposal"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse "Invalid input or player range"
// @Failure      401  {object}  ErrorResponse
// @Router       /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	hostID, _ := auth.UserID(c)

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), hostID, service.CreateSessionParams{
		GameBGGID:    input.GameBGGID,
		GameName:     input.GameName,
		GameImageURL: input.GameImageURL,
		MinPlayers:   input.MinPlayers,
		MaxPlayers:   input.MaxPlayers,
		ScheduledAt:  input.ScheduledAt,
		Channel:      input.Channel,
		Description:  input.Description,
		Location:     input.Location,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(*session))
}

// ListSessions godoc
// @Summary      List sessions
// @Description  Lists sessions, optionally filtered by status or host, soonest scheduled first.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        status  query string false "Filter by status"
// @Param        host_id query int    false "Filter by host"
// @Param        page    query int    false "Page number" default(1)
// @Param        limit   query int    false "Items per page" default(20)
// @Success      200 {array} SessionResponse
// @Router       /sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := store.SessionFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if status := c.Query("status"); status != "" {
		if !models.SessionStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		filter.Status = models.SessionStatus(status)
	}
	if hostID, err := strconv.ParseUint(c.Query("host_id"), 10, 32); err == nil {
		filter.HostID = uint(hostID)
	}

	sessions, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponses(sessions))
}

// DiscoverSessions godoc
// @Summary      Discovery feed for swiping
// @Description  Returns proposed sessions the caller neither hosts nor has swiped on.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max results" default(20)
// @Success      200 {array} SessionResponse
// @Router       /sessions/discover [get]
func (h *Handler) DiscoverSessions(c *gin.Context) {
	userID, _ := auth.UserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, err := h.sessions.Discover(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponses(sessions))
}

// GetSessionByID godoc
// @Summary      Get a session by ID
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [get]
func (h *Handler) GetSessionByID(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(*session))
}

// UpdateSession godoc
// @Summary      Update a session (host only)
// @Description  Edits session details. The player range must stay consistent with the current player set.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int                true "Session ID"
// @Param        input body SessionUpdateInput true "New session details"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} ErrorResponse "Invalid player range"
// @Failure      403 {object} ErrorResponse "Only the host can update the session"
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id} [put]
func (h *Handler) UpdateSession(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input SessionUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Update(c.Request.Context(), sessionID, userID, service.UpdateSessionParams{
		MinPlayers:  input.MinPlayers,
		MaxPlayers:  input.MaxPlayers,
		ScheduledAt: input.ScheduledAt,
		Channel:     input.Channel,
		Description: input.Description,
		Location:    input.Location,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(*session))
}

// TransitionSession godoc
// @Summary      Advance a session's status (host only)
// @Description  Moves the status one step forward (proposed -> established -> confirmed -> completed) or to cancelled from any non-terminal state.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Session ID"
// @Param        input body TransitionInput true "Target status"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} ErrorResponse "Unknown status"
// @Failure      403 {object} ErrorResponse "Only the host can transition the session"
// @Failure      409 {object} ErrorResponse "Transition not allowed"
// @Router       /sessions/{id}/status [post]
func (h *Handler) TransitionSession(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target := models.SessionStatus(input.Status)
	if !target.Valid() || target == models.StatusProposed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target status"})
		return
	}

	session, err := h.sessions.Transition(c.Request.Context(), sessionID, userID, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(*session))
}

// JoinSession godoc
// @Summary      Join a session
// @Description  Adds the caller to the player set. Joining twice is a no-op.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Failure      409 {object} ErrorResponse "Session full or no longer joinable"
// @Router       /sessions/{id}/join [post]
func (h *Handler) JoinSession(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessions.Join(c.Request.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(*session))
}

// LeaveSession godoc
// @Summary      Leave a session
// @Description  Removes the caller from the player set. The host cannot leave; they cancel instead.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Failure      409 {object} ErrorResponse "Host cannot leave or session locked"
// @Router       /sessions/{id}/leave [post]
func (h *Handler) LeaveSession(c *gin.Context) {
	userID, _ := auth.UserID(c)
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessions.Leave(c.Request.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(*session))
}
