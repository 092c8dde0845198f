package handler

import (
	"net/http"
	"strconv"

	"boardmatch/backend/internal/auth"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// IdentityInput is the provider-verified identity forwarded after the OAuth
// handshake.
type IdentityInput struct {
	DiscordID   string `json:"discord_id" binding:"required" example:"123456789"`
	DisplayName string `json:"display_name" binding:"required" example:"boardgamer42"`
	AvatarURL   string `json:"avatar_url" example:"https://cdn.discordapp.com/avatars/..."`
}

type LibraryEntryInput struct {
	BGGID     string `json:"bgg_id" binding:"required" example:"13"`
	Name      string `json:"name" binding:"required" example:"Catan"`
	ImageURL  string `json:"image_url"`
	Expertise string `json:"expertise" binding:"required,expertise" example:"intermediate"`
}

type LibraryInput struct {
	Games []LibraryEntryInput `json:"games" binding:"dive"`
}

type AvailabilitySlotInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6" example:"5"`
	StartTime string `json:"start_time" binding:"required" example:"18:00"`
	EndTime   string `json:"end_time" binding:"required" example:"22:00"`
}

type AvailabilityInput struct {
	Slots []AvailabilitySlotInput `json:"slots" binding:"dive"`
}

type PushSubscriptionInput struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

type LibraryEntryResponse struct {
	BGGID     string `json:"bgg_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Expertise string `json:"expertise"`
}

type AvailabilitySlotResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UserResponse is the authenticated user's own profile.
type UserResponse struct {
	ID             uint                       `json:"id" example:"1"`
	DiscordID      string                     `json:"discord_id"`
	DisplayName    string                     `json:"display_name"`
	AvatarURL      string                     `json:"avatar_url"`
	Role           string                     `json:"role"`
	GameLibrary    []LibraryEntryResponse     `json:"game_library"`
	Availability   []AvailabilitySlotResponse `json:"availability"`
	PushSubscribed bool                       `json:"push_subscribed"`
}

// PublicUserResponse is what other players see.
type PublicUserResponse struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func newUserResponse(user models.User) UserResponse {
	library := make([]LibraryEntryResponse, 0, len(user.GameLibrary))
	for _, entry := range user.GameLibrary {
		library = append(library, LibraryEntryResponse{
			BGGID:     entry.BGGID,
			Name:      entry.Name,
			ImageURL:  entry.ImageURL,
			Expertise: string(entry.Expertise),
		})
	}

	availability := make([]AvailabilitySlotResponse, 0, len(user.Availability))
	for _, slot := range user.Availability {
		availability = append(availability, AvailabilitySlotResponse{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	return UserResponse{
		ID:             user.ID,
		DiscordID:      user.DiscordID,
		DisplayName:    user.DisplayName,
		AvatarURL:      user.AvatarURL,
		Role:           string(user.Role),
		GameLibrary:    library,
		Availability:   availability,
		PushSubscribed: user.HasPushSubscription(),
	}
}

func newPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// endregion

// region --- Auth Handlers ---

// ExchangeIdentity godoc
// @Summary      Sign in with a Discord identity
// @Description  Upserts the profile for the given Discord identity and returns an API token. First sign-in creates the profile; later ones refresh name and avatar.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body IdentityInput true "Verified identity"
// @Success      200  {object}  map[string]interface{} "{"token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/discord [post]
func (h *Handler) ExchangeIdentity(c *gin.Context) {
	var input IdentityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.profiles.UpsertByIdentity(c.Request.Context(), input.DiscordID, input.DisplayName, input.AvatarURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := jwt.GenerateToken(user.ID, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": newUserResponse(*user)})
}

// endregion

// region --- Profile Handlers ---

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := auth.UserID(c)

	user, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// GetUserByID godoc
// @Summary      Get a user's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.profiles.Get(c.Request.Context(), uint(targetID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPublicUserResponse(*user))
}

// UpdateLibrary godoc
// @Summary      Replace the caller's game library
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LibraryInput true "Game library"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/library [put]
func (h *Handler) UpdateLibrary(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var input LibraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]models.GameLibraryEntry, 0, len(input.Games))
	for _, g := range input.Games {
		entries = append(entries, models.GameLibraryEntry{
			BGGID:     g.BGGID,
			Name:      g.Name,
			ImageURL:  g.ImageURL,
			Expertise: models.ExpertiseLevel(g.Expertise),
		})
	}

	user, err := h.profiles.SetLibrary(c.Request.Context(), userID, entries)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// UpdateAvailability godoc
// @Summary      Replace the caller's availability windows
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AvailabilityInput true "Availability windows"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/availability [put]
func (h *Handler) UpdateAvailability(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots := make([]models.AvailabilitySlot, 0, len(input.Slots))
	for _, s := range input.Slots {
		slots = append(slots, models.AvailabilitySlot{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	user, err := h.profiles.SetAvailability(c.Request.Context(), userID, slots)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// SetPushSubscription godoc
// @Summary      Register the caller's Web Push subscription
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PushSubscriptionInput true "Push subscription"
// @Success      200 {object} map[string]string "{"message": "Push subscription registered"}"
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/push-subscription [put]
func (h *Handler) SetPushSubscription(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var input PushSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profiles.SetPushSubscription(c.Request.Context(), userID, input.Endpoint, input.P256dh, input.Auth); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push subscription registered"})
}

// RemovePushSubscription godoc
// @Summary      Remove the caller's Web Push subscription
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string "{"message": "Push subscription removed"}"
// @Router       /users/me/push-subscription [delete]
func (h *Handler) RemovePushSubscription(c *gin.Context) {
	userID, _ := auth.UserID(c)

	if err := h.profiles.ClearPushSubscription(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push subscription removed"})
}

// endregion
