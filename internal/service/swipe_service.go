package service

import (
	"context"
	"log/slog"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
)

// SwipeService records like/pass outcomes and keeps the session's interested
// set in step with them.
type SwipeService struct {
	swipes   SwipeStore
	sessions SessionStore
	feed     changefeed.Publisher
	log      *slog.Logger
}

func NewSwipeService(swipes SwipeStore, sessions SessionStore, feed changefeed.Publisher, log *slog.Logger) *SwipeService {
	return &SwipeService{swipes: swipes, sessions: sessions, feed: feed, log: log}
}

// Record stores the outcome for (user, session), overwriting any earlier
// one. A like adds the user to the session's interested players, a pass
// removes them.
func (s *SwipeService) Record(ctx context.Context, userID, sessionID uint, action models.SwipeAction) (*models.UserSwipe, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	swipe := &models.UserSwipe{
		UserID:    userID,
		SessionID: sessionID,
		Action:    action,
	}
	if err := s.swipes.Put(ctx, swipe); err != nil {
		return nil, err
	}

	switch action {
	case models.SwipeLike:
		err = s.sessions.AddInterested(ctx, sessionID, userID)
	case models.SwipePass:
		err = s.sessions.RemoveInterested(ctx, sessionID, userID)
	}
	if err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSwipes, swipe.ID, changefeed.OpUpdated))
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, session.ID, changefeed.OpUpdated))
	s.log.Info("swipe recorded", "session_id", sessionID, "user_id", userID, "action", action)
	return swipe, nil
}

// ForSession lists every outcome recorded against a session.
func (s *SwipeService) ForSession(ctx context.Context, sessionID uint) ([]models.UserSwipe, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.swipes.ListBySession(ctx, sessionID)
}

// ForUser lists every outcome a user has recorded.
func (s *SwipeService) ForUser(ctx context.Context, userID uint) ([]models.UserSwipe, error) {
	return s.swipes.ListByUser(ctx, userID)
}
