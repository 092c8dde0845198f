package service

import (
	"context"
	"log/slog"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
)

// NotificationService exposes the queue to its recipients: listing and
// explicit cancellation of still-pending rows.
type NotificationService struct {
	notifications NotificationStore
	feed          changefeed.Publisher
	log           *slog.Logger
}

func NewNotificationService(notifications NotificationStore, feed changefeed.Publisher, log *slog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, feed: feed, log: log}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.notifications.ListByRecipient(ctx, userID)
}

// Cancel marks a still-pending notification cancelled. Cancellation is an
// explicit status write; terminal rows are rejected.
func (s *NotificationService) Cancel(ctx context.Context, id, actorID uint) (*models.Notification, error) {
	n, err := s.notifications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	if n.Status != models.NotificationPending {
		return nil, ErrNotPending
	}

	n.Status = models.NotificationCancelled
	if err := s.notifications.Update(ctx, n); err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableNotifications, n.ID, changefeed.OpUpdated))
	s.log.Info("notification cancelled", "notification_id", n.ID, "user_id", actorID)
	return n, nil
}
