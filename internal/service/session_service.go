package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/store"

	"github.com/pkg/errors"
)

// CreateSessionParams carries the host's proposal.
type CreateSessionParams struct {
	GameBGGID    string
	GameName     string
	GameImageURL string
	MinPlayers   int
	MaxPlayers   int
	ScheduledAt  *time.Time
	Channel      string
	Description  string
	Location     string
}

// UpdateSessionParams carries host-editable fields.
type UpdateSessionParams struct {
	MinPlayers  int
	MaxPlayers  int
	ScheduledAt *time.Time
	Channel     string
	Description string
	Location    string
}

// SessionService owns the session entity and its status machine.
type SessionService struct {
	sessions      SessionStore
	users         UserStore
	swipes        SwipeStore
	notifications NotificationStore
	feed          changefeed.Publisher
	log           *slog.Logger
}

func NewSessionService(
	sessions SessionStore,
	users UserStore,
	swipes SwipeStore,
	notifications NotificationStore,
	feed changefeed.Publisher,
	log *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions:      sessions,
		users:         users,
		swipes:        swipes,
		notifications: notifications,
		feed:          feed,
		log:           log,
	}
}

// Create proposes a new session. The storage layer does not check the player
// range, so it is enforced here: 1 <= minPlayers <= maxPlayers.
func (s *SessionService) Create(ctx context.Context, hostID uint, params CreateSessionParams) (*models.Session, error) {
	if params.MinPlayers < 1 || params.MinPlayers > params.MaxPlayers {
		return nil, errors.Wrapf(ErrPlayerRange, "min %d, max %d", params.MinPlayers, params.MaxPlayers)
	}
	if _, err := s.users.GetByID(ctx, hostID); err != nil {
		return nil, err
	}

	session := &models.Session{
		HostID:       hostID,
		GameBGGID:    params.GameBGGID,
		GameName:     params.GameName,
		GameImageURL: params.GameImageURL,
		Status:       models.StatusProposed,
		ScheduledAt:  params.ScheduledAt,
		MinPlayers:   params.MinPlayers,
		MaxPlayers:   params.MaxPlayers,
		Channel:      params.Channel,
		Description:  params.Description,
		Location:     params.Location,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, session.ID, changefeed.OpCreated))
	s.log.Info("session proposed", "session_id", session.ID, "host_id", hostID, "game", params.GameName)
	return s.sessions.Get(ctx, session.ID)
}

func (s *SessionService) Get(ctx context.Context, id uint) (*models.Session, error) {
	return s.sessions.Get(ctx, id)
}

// List returns sessions matching the filter. See store.SessionFilter.
func (s *SessionService) List(ctx context.Context, filter store.SessionFilter) ([]models.Session, error) {
	return s.sessions.List(ctx, filter)
}

// Discover returns proposed sessions the user has neither hosted nor swiped
// on, for the swipe feed.
func (s *SessionService) Discover(ctx context.Context, userID uint, limit int) ([]models.Session, error) {
	swipes, err := s.swipes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make([]uint, 0, len(swipes))
	for _, sw := range swipes {
		seen = append(seen, sw.SessionID)
	}

	return s.sessions.List(ctx, store.SessionFilter{
		Status:        models.StatusProposed,
		ExcludeHostID: userID,
		ExcludeIDs:    seen,
		Limit:         limit,
	})
}

// Transition moves the session's status one step forward, or to cancelled
// from any non-terminal state. Only the host may transition a session.
// Reaching confirmed enqueues a push notification for every player.
func (s *SessionService) Transition(ctx context.Context, sessionID, actorID uint, target models.SessionStatus) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HostID != actorID {
		return nil, ErrNotHost
	}
	if !session.Status.CanTransitionTo(target) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", session.Status, target)
	}

	session.Status = target
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	if target == models.StatusConfirmed {
		if err := s.notifyConfirmed(ctx, session); err != nil {
			// The transition already happened; delivery problems are logged,
			// not surfaced.
			s.log.Error("enqueue confirmation notifications", "session_id", session.ID, "error", err)
		}
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, session.ID, changefeed.OpUpdated))
	s.log.Info("session transitioned", "session_id", session.ID, "status", target)
	return session, nil
}

func (s *SessionService) notifyConfirmed(ctx context.Context, session *models.Session) error {
	if len(session.Players) == 0 {
		return nil
	}

	body := fmt.Sprintf("%s is confirmed", session.GameName)
	if session.ScheduledAt != nil {
		body = fmt.Sprintf("%s is confirmed for %s", session.GameName, session.ScheduledAt.Format(time.RFC1123))
	}

	rows := make([]models.Notification, 0, len(session.Players))
	for _, p := range session.Players {
		rows = append(rows, models.Notification{
			RecipientID: p.ID,
			Title:       "Session confirmed",
			Body:        body,
			Status:      models.NotificationPending,
		})
	}
	if err := s.notifications.CreateBatch(ctx, rows); err != nil {
		return err
	}
	for _, n := range rows {
		s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableNotifications, n.ID, changefeed.OpCreated))
	}
	return nil
}

// Join adds the user to the player set. Allowed only while the session is
// proposed or established; joining twice is a no-op, not an error.
func (s *SessionService) Join(ctx context.Context, sessionID, userID uint) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if session.Status != models.StatusProposed && session.Status != models.StatusEstablished {
		return nil, errors.Wrapf(ErrSessionLocked, "status %s", session.Status)
	}
	if session.HasPlayer(userID) {
		return session, nil
	}
	if len(session.Players) >= session.MaxPlayers {
		return nil, ErrSessionFull
	}

	if err := s.sessions.AddPlayer(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, sessionID, changefeed.OpUpdated))
	s.log.Info("player joined", "session_id", sessionID, "user_id", userID)
	return s.sessions.Get(ctx, sessionID)
}

// Leave removes the user from the player set. The host cannot leave their
// own session; they cancel it instead. Leaving a session the user is not in
// is a no-op.
func (s *SessionService) Leave(ctx context.Context, sessionID, userID uint) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HostID == userID {
		return nil, ErrHostCannotLeave
	}
	if session.Status != models.StatusProposed && session.Status != models.StatusEstablished {
		return nil, errors.Wrapf(ErrSessionLocked, "status %s", session.Status)
	}
	if !session.HasPlayer(userID) {
		return session, nil
	}

	if err := s.sessions.RemovePlayer(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, sessionID, changefeed.OpUpdated))
	s.log.Info("player left", "session_id", sessionID, "user_id", userID)
	return s.sessions.Get(ctx, sessionID)
}

// Update edits host-editable fields. No update may set minPlayers above
// maxPlayers or drop maxPlayers below the current player-set size.
func (s *SessionService) Update(ctx context.Context, sessionID, actorID uint, params UpdateSessionParams) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HostID != actorID {
		return nil, ErrNotHost
	}
	if params.MinPlayers < 1 || params.MinPlayers > params.MaxPlayers {
		return nil, errors.Wrapf(ErrPlayerRange, "min %d, max %d", params.MinPlayers, params.MaxPlayers)
	}
	if params.MaxPlayers < len(session.Players) {
		return nil, errors.Wrapf(ErrPlayerRange, "max %d below current player count %d", params.MaxPlayers, len(session.Players))
	}

	session.MinPlayers = params.MinPlayers
	session.MaxPlayers = params.MaxPlayers
	session.ScheduledAt = params.ScheduledAt
	session.Channel = params.Channel
	session.Description = params.Description
	session.Location = params.Location

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableSessions, sessionID, changefeed.OpUpdated))
	return session, nil
}
