package handler

import (
	"net/http"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/service"
	"boardmatch/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// Handler carries the injected services for all HTTP handlers.
type Handler struct {
	profiles      *service.ProfileService
	sessions      *service.SessionService
	swipes        *service.SwipeService
	feedback      *service.FeedbackService
	notifications *service.NotificationService
	catalog       *service.CatalogService
	hub           *changefeed.Hub
	jwtSecret     string
}

func New(
	profiles *service.ProfileService,
	sessions *service.SessionService,
	swipes *service.SwipeService,
	feedback *service.FeedbackService,
	notifications *service.NotificationService,
	catalog *service.CatalogService,
	hub *changefeed.Hub,
	jwtSecret string,
) *Handler {
	return &Handler{
		profiles:      profiles,
		sessions:      sessions,
		swipes:        swipes,
		feedback:      feedback,
		notifications: notifications,
		catalog:       catalog,
		hub:           hub,
		jwtSecret:     jwtSecret,
	}
}

// RegisterValidators installs custom binding validations. Call once at
// startup, before any request is served.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("expertise", func(fl validator.FieldLevel) bool {
			return models.ExpertiseLevel(fl.Field().String()).Valid()
		})
	}
}

// respondServiceError translates service-layer errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotHost), errors.Is(err, service.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPlayerRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrSessionLocked),
		errors.Is(err, service.ErrHostCannotLeave),
		errors.Is(err, service.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
