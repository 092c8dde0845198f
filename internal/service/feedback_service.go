package service

import (
	"context"
	"log/slog"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"

	"gorm.io/datatypes"
)

// FeedbackParams carries one feedback submission.
type FeedbackParams struct {
	EnjoymentRating  int
	Attended         bool
	PresentPlayerIDs []uint
	Comment          string
}

// FeedbackService upserts post-session ratings per (user, session).
type FeedbackService struct {
	feedback FeedbackStore
	sessions SessionStore
	feed     changefeed.Publisher
	log      *slog.Logger
}

func NewFeedbackService(feedback FeedbackStore, sessions SessionStore, feed changefeed.Publisher, log *slog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, sessions: sessions, feed: feed, log: log}
}

// Submit upserts the caller's feedback for a session. A second submission
// for the same pair overwrites the first; exactly one row is stored.
func (s *FeedbackService) Submit(ctx context.Context, userID, sessionID uint, params FeedbackParams) (*models.SessionFeedback, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	fb := &models.SessionFeedback{
		UserID:           userID,
		SessionID:        sessionID,
		EnjoymentRating:  params.EnjoymentRating,
		Attended:         params.Attended,
		PresentPlayerIDs: datatypes.NewJSONSlice(params.PresentPlayerIDs),
		Comment:          params.Comment,
	}
	if err := s.feedback.Put(ctx, fb); err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableFeedback, fb.ID, changefeed.OpUpdated))
	s.log.Info("feedback submitted", "session_id", sessionID, "user_id", userID, "rating", params.EnjoymentRating)
	return fb, nil
}

// ForSession lists all feedback recorded for a session.
func (s *FeedbackService) ForSession(ctx context.Context, sessionID uint) ([]models.SessionFeedback, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.feedback.ListBySession(ctx, sessionID)
}

// ForUser lists all feedback a user has submitted.
func (s *FeedbackService) ForUser(ctx context.Context, userID uint) ([]models.SessionFeedback, error) {
	return s.feedback.ListByUser(ctx, userID)
}
