package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifications persists the outbound push queue.
type Notifications struct {
	db *gorm.DB
}

func NewNotifications(db *gorm.DB) *Notifications {
	return &Notifications{db: db}
}

func (s *Notifications) CreateBatch(ctx context.Context, rows []models.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error
	return errors.Wrap(err, "enqueue notifications")
}

func (s *Notifications) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "notification %d", id)
	}
	return &n, nil
}

// FetchPendingBatch returns up to limit pending notifications, oldest first.
func (s *Notifications) FetchPendingBatch(ctx context.Context, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.WithContext(ctx).
		Where("status = ?", models.NotificationPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, errors.Wrap(err, "fetch pending notifications")
}

func (s *Notifications) Update(ctx context.Context, n *models.Notification) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(n).Error
	return errors.Wrap(err, "update notification")
}

func (s *Notifications) ListByRecipient(ctx context.Context, userID uint) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "list notifications")
}
