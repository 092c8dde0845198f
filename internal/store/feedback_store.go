package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Feedback persists post-session ratings, one row per (user, session).
type Feedback struct {
	db *gorm.DB
}

func NewFeedback(db *gorm.DB) *Feedback {
	return &Feedback{db: db}
}

// Put upserts a feedback row keyed by (user, session). The uniqueness is
// enforced by the composite index, so concurrent submissions for the same
// key cannot produce two rows.
func (s *Feedback) Put(ctx context.Context, fb *models.SessionFeedback) error {
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enjoyment_rating", "attended", "present_player_ids", "comment", "updated_at",
			}),
		}).
		Create(fb).Error
	return errors.Wrap(err, "put feedback")
}

func (s *Feedback) ListBySession(ctx context.Context, sessionID uint) ([]models.SessionFeedback, error) {
	var rows []models.SessionFeedback
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "list feedback by session")
}

func (s *Feedback) ListByUser(ctx context.Context, userID uint) ([]models.SessionFeedback, error) {
	var rows []models.SessionFeedback
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "list feedback by user")
}
