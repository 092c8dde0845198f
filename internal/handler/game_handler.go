package handler

import (
	"net/http"
	"strconv"

	"boardmatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	BGGID       string  `json:"bgg_id" binding:"required" example:"13"`
	Name        string  `json:"name" binding:"required" example:"Catan"`
	ImageURL    string  `json:"image_url"`
	MinPlayers  int     `json:"min_players" binding:"min=0"`
	MaxPlayers  int     `json:"max_players" binding:"min=0"`
	PlayingTime int     `json:"playing_time" binding:"min=0"`
	Complexity  float64 `json:"complexity" binding:"min=0,max=5"`
	Description string  `json:"description"`
}

type GameResponse struct {
	ID          uint    `json:"id"`
	BGGID       string  `json:"bgg_id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"image_url"`
	MinPlayers  int     `json:"min_players"`
	MaxPlayers  int     `json:"max_players"`
	PlayingTime int     `json:"playing_time"`
	Complexity  float64 `json:"complexity"`
	Description string  `json:"description"`
}

func newGameResponse(game models.GameData) GameResponse {
	return GameResponse{
		ID:          game.ID,
		BGGID:       game.BGGID,
		Name:        game.Name,
		ImageURL:    game.ImageURL,
		MinPlayers:  game.MinPlayers,
		MaxPlayers:  game.MaxPlayers,
		PlayingTime: game.PlayingTime,
		Complexity:  game.Complexity,
		Description: game.Description,
	}
}

// endregion

// SearchGames godoc
// @Summary      Search the game catalog
// @Description  Cursor-paginated catalog search. Pass the returned cursor back to fetch the next page; is_done marks the final page.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        q      query string false "Name search query"
// @Param        cursor query string false "Continuation cursor from the previous page"
// @Param        limit  query int    false "Page size" default(20)
// @Success      200 {object} CursorPage[GameResponse]
// @Failure      400 {object} ErrorResponse "Malformed cursor"
// @Router       /games [get]
func (h *Handler) SearchGames(c *gin.Context) {
	afterID, err := decodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed cursor"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	games, isDone, err := h.catalog.Search(c.Request.Context(), c.Query("q"), afterID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]GameResponse, 0, len(games))
	for _, g := range games {
		responses = append(responses, newGameResponse(g))
	}

	var lastID uint
	if len(games) > 0 {
		lastID = games[len(games)-1].ID
	}
	c.JSON(http.StatusOK, NewCursorPage(responses, lastID, isDone))
}

// GetGameByBGGID godoc
// @Summary      Get a catalog entry by BGG id
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        bggID path string true "BGG id"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{bggID} [get]
func (h *Handler) GetGameByBGGID(c *gin.Context) {
	game, err := h.catalog.GetByBGGID(c.Request.Context(), c.Param("bggID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// ImportGame godoc
// @Summary      Import a catalog entry (admin only)
// @Description  Inserts or refreshes a denormalized copy of an external catalog entry, keyed by BGG id.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Catalog entry"
// @Success      201 {object} GameResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/games [post]
func (h *Handler) ImportGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.catalog.Import(c.Request.Context(), &models.GameData{
		BGGID:       input.BGGID,
		Name:        input.Name,
		ImageURL:    input.ImageURL,
		MinPlayers:  input.MinPlayers,
		MaxPlayers:  input.MaxPlayers,
		PlayingTime: input.PlayingTime,
		Complexity:  input.Complexity,
		Description: input.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(*game))
}
