// Package service owns the business rules: the session status machine,
// swipe and feedback upsert semantics, profile identity upserts, and the
// notification dispatch loop. Services are constructed with their
// dependencies and injected into the HTTP layer; there is no package-level
// state.
package service

import (
	"context"

	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/store"

	"github.com/pkg/errors"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSessionLocked     = errors.New("session no longer accepts player changes")
	ErrSessionFull       = errors.New("session is full")
	ErrHostCannotLeave   = errors.New("host cannot leave their own session")
	ErrNotHost           = errors.New("only the host may do this")
	ErrPlayerRange       = errors.New("invalid player count range")
	ErrNotPending        = errors.New("notification is not pending")
	ErrNotRecipient      = errors.New("only the recipient may do this")
)

// ErrNotFound re-exports the storage sentinel for convenience.
var ErrNotFound = store.ErrNotFound

// UserStore is the slice of user persistence the services need.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	UpsertByDiscordID(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	ReplaceLibrary(ctx context.Context, userID uint, entries []models.GameLibraryEntry) error
	ReplaceAvailability(ctx context.Context, userID uint, slots []models.AvailabilitySlot) error
}

// SessionStore persists sessions and their player sets.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id uint) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	List(ctx context.Context, filter store.SessionFilter) ([]models.Session, error)
	AddPlayer(ctx context.Context, sessionID, userID uint) error
	RemovePlayer(ctx context.Context, sessionID, userID uint) error
	AddInterested(ctx context.Context, sessionID, userID uint) error
	RemoveInterested(ctx context.Context, sessionID, userID uint) error
}

// SwipeStore persists like/pass outcomes.
type SwipeStore interface {
	Put(ctx context.Context, swipe *models.UserSwipe) error
	ListBySession(ctx context.Context, sessionID uint) ([]models.UserSwipe, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserSwipe, error)
}

// FeedbackStore persists post-session ratings.
type FeedbackStore interface {
	Put(ctx context.Context, fb *models.SessionFeedback) error
	ListBySession(ctx context.Context, sessionID uint) ([]models.SessionFeedback, error)
	ListByUser(ctx context.Context, userID uint) ([]models.SessionFeedback, error)
}

// NotificationStore persists the outbound push queue.
type NotificationStore interface {
	CreateBatch(ctx context.Context, rows []models.Notification) error
	Get(ctx context.Context, id uint) (*models.Notification, error)
	FetchPendingBatch(ctx context.Context, limit int) ([]models.Notification, error)
	Update(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, userID uint) ([]models.Notification, error)
}

// GameStore persists the imported catalog.
type GameStore interface {
	Upsert(ctx context.Context, game *models.GameData) error
	GetByBGGID(ctx context.Context, bggID string) (*models.GameData, error)
	SearchAfter(ctx context.Context, query string, afterID uint, limit int) ([]models.GameData, error)
}
