package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Swipes persists like/pass outcomes, one row per (user, session).
type Swipes struct {
	db *gorm.DB
}

func NewSwipes(db *gorm.DB) *Swipes {
	return &Swipes{db: db}
}

// Put records a swipe outcome, overwriting any prior outcome for the same
// (user, session) pair in a single conditional write. Last write wins; no
// history is retained.
func (s *Swipes) Put(ctx context.Context, swipe *models.UserSwipe) error {
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).
		Create(swipe).Error
	return errors.Wrap(err, "put swipe")
}

func (s *Swipes) ListBySession(ctx context.Context, sessionID uint) ([]models.UserSwipe, error) {
	var swipes []models.UserSwipe
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("updated_at DESC").
		Find(&swipes).Error
	return swipes, errors.Wrap(err, "list swipes by session")
}

func (s *Swipes) ListByUser(ctx context.Context, userID uint) ([]models.UserSwipe, error) {
	var swipes []models.UserSwipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&swipes).Error
	return swipes, errors.Wrap(err, "list swipes by user")
}
