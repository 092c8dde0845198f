package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	svc           *SessionService
	users         *storetest.Users
	sessions      *storetest.Sessions
	swipes        *storetest.Swipes
	notifications *storetest.Notifications
	hostID        uint
	playerID      uint
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	users := storetest.NewUsers()
	sessions := storetest.NewSessions()
	swipes := storetest.NewSwipes()
	notifications := storetest.NewNotifications()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &sessionFixture{
		svc:           NewSessionService(sessions, users, swipes, notifications, changefeed.Nop{}, log),
		users:         users,
		sessions:      sessions,
		swipes:        swipes,
		notifications: notifications,
		hostID:        users.Add(models.User{DiscordID: "host", DisplayName: "Host"}),
		playerID:      users.Add(models.User{DiscordID: "player", DisplayName: "Player"}),
	}
}

func (f *sessionFixture) propose(t *testing.T, minPlayers, maxPlayers int) *models.Session {
	t.Helper()
	session, err := f.svc.Create(context.Background(), f.hostID, CreateSessionParams{
		GameBGGID:  "13",
		GameName:   "Catan",
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
	})
	require.NoError(t, err)
	return session
}

func TestCreateSessionStartsProposed(t *testing.T) {
	f := newSessionFixture(t)

	session := f.propose(t, 2, 4)

	assert.Equal(t, models.StatusProposed, session.Status)
	assert.Equal(t, f.hostID, session.HostID)
	assert.Empty(t, session.Players)
}

func TestCreateSessionRejectsBadPlayerRange(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Create(context.Background(), f.hostID, CreateSessionParams{
		GameBGGID: "13", GameName: "Catan", MinPlayers: 5, MaxPlayers: 4,
	})
	assert.ErrorIs(t, err, ErrPlayerRange)

	_, err = f.svc.Create(context.Background(), f.hostID, CreateSessionParams{
		GameBGGID: "13", GameName: "Catan", MinPlayers: 0, MaxPlayers: 4,
	})
	assert.ErrorIs(t, err, ErrPlayerRange)
}

func TestCreateSessionUnknownHost(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Create(context.Background(), 999, CreateSessionParams{
		GameBGGID: "13", GameName: "Catan", MinPlayers: 2, MaxPlayers: 4,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionMovesForwardOneStep(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	session, err := f.svc.Transition(ctx, session.ID, f.hostID, models.StatusEstablished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEstablished, session.Status)

	session, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, session.Status)

	session, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, session.Status)
}

func TestTransitionRejectsSkippingAndBackwards(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Transition(ctx, session.ID, f.hostID, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusEstablished)
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusProposed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionTerminalIsFinal(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	for _, target := range []models.SessionStatus{models.StatusEstablished, models.StatusConfirmed, models.StatusCompleted} {
		_, err := f.svc.Transition(ctx, session.ID, f.hostID, target)
		require.NoError(t, err)
	}

	_, err := f.svc.Transition(ctx, session.ID, f.hostID, models.StatusProposed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionCancelFromAnyNonTerminal(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	for _, advance := range []int{0, 1, 2} {
		session := f.propose(t, 2, 4)
		steps := []models.SessionStatus{models.StatusEstablished, models.StatusConfirmed}
		for i := 0; i < advance; i++ {
			_, err := f.svc.Transition(ctx, session.ID, f.hostID, steps[i])
			require.NoError(t, err)
		}

		cancelled, err := f.svc.Transition(ctx, session.ID, f.hostID, models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, cancelled.Status)
	}
}

func TestTransitionHostOnly(t *testing.T) {
	f := newSessionFixture(t)
	session := f.propose(t, 2, 4)

	_, err := f.svc.Transition(context.Background(), session.ID, f.playerID, models.StatusEstablished)
	assert.ErrorIs(t, err, ErrNotHost)
}

func TestTransitionConfirmedNotifiesPlayers(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	second := f.users.Add(models.User{DiscordID: "second", DisplayName: "Second"})
	_, err = f.svc.Join(ctx, session.ID, second)
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusEstablished)
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusConfirmed)
	require.NoError(t, err)

	pending, err := f.notifications.FetchPendingBatch(ctx, DispatchBatchSize)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	recipients := map[uint]bool{}
	for _, n := range pending {
		assert.Equal(t, models.NotificationPending, n.Status)
		recipients[n.RecipientID] = true
	}
	assert.True(t, recipients[f.playerID])
	assert.True(t, recipients[second])
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	joined, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)

	require.Len(t, joined.Players, 1)
	assert.Equal(t, f.playerID, joined.Players[0].ID)
}

func TestJoinRejectsFullSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 1, 1)

	_, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)

	second := f.users.Add(models.User{DiscordID: "second", DisplayName: "Second"})
	_, err = f.svc.Join(ctx, session.ID, second)
	assert.ErrorIs(t, err, ErrSessionFull)
}

func TestJoinOnlyWhileProposedOrEstablished(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Transition(ctx, session.ID, f.hostID, models.StatusEstablished)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, session.ID, f.hostID, models.StatusConfirmed)
	require.NoError(t, err)

	second := f.users.Add(models.User{DiscordID: "second", DisplayName: "Second"})
	_, err = f.svc.Join(ctx, session.ID, second)
	assert.ErrorIs(t, err, ErrSessionLocked)
}

func TestLeaveRemovesPlayer(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	left, err := f.svc.Leave(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	assert.Empty(t, left.Players)

	// Leaving again is a no-op.
	left, err = f.svc.Leave(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	assert.Empty(t, left.Players)
}

func TestLeaveHostRejected(t *testing.T) {
	f := newSessionFixture(t)
	session := f.propose(t, 2, 4)

	_, err := f.svc.Leave(context.Background(), session.ID, f.hostID)
	assert.ErrorIs(t, err, ErrHostCannotLeave)
}

func TestUpdateValidatesPlayerRange(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	session := f.propose(t, 2, 4)

	_, err := f.svc.Join(ctx, session.ID, f.playerID)
	require.NoError(t, err)
	second := f.users.Add(models.User{DiscordID: "second", DisplayName: "Second"})
	_, err = f.svc.Join(ctx, session.ID, second)
	require.NoError(t, err)

	// Cannot drop maxPlayers below the current player count.
	_, err = f.svc.Update(ctx, session.ID, f.hostID, UpdateSessionParams{MinPlayers: 1, MaxPlayers: 1})
	assert.ErrorIs(t, err, ErrPlayerRange)

	// Cannot invert the range.
	_, err = f.svc.Update(ctx, session.ID, f.hostID, UpdateSessionParams{MinPlayers: 5, MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrPlayerRange)

	updated, err := f.svc.Update(ctx, session.ID, f.hostID, UpdateSessionParams{MinPlayers: 2, MaxPlayers: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.MaxPlayers)
}

func TestUpdateHostOnly(t *testing.T) {
	f := newSessionFixture(t)
	session := f.propose(t, 2, 4)

	_, err := f.svc.Update(context.Background(), session.ID, f.playerID, UpdateSessionParams{MinPlayers: 2, MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrNotHost)
}

func TestDiscoverSkipsOwnAndSwipedSessions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	mine := f.propose(t, 2, 4)

	other := f.users.Add(models.User{DiscordID: "other", DisplayName: "Other"})
	fresh, err := f.svc.Create(ctx, other, CreateSessionParams{
		GameBGGID: "822", GameName: "Carcassonne", MinPlayers: 2, MaxPlayers: 5,
	})
	require.NoError(t, err)
	swiped, err := f.svc.Create(ctx, other, CreateSessionParams{
		GameBGGID: "9209", GameName: "Ticket to Ride", MinPlayers: 2, MaxPlayers: 5,
	})
	require.NoError(t, err)

	require.NoError(t, f.swipes.Put(ctx, &models.UserSwipe{
		UserID: f.hostID, SessionID: swiped.ID, Action: models.SwipePass,
	}))

	feed, err := f.svc.Discover(ctx, f.hostID, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, fresh.ID, feed[0].ID)
	assert.NotEqual(t, mine.ID, feed[0].ID)
}
