package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/push"
	"boardmatch/backend/internal/store/storetest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records deliveries and can be primed to fail.
type fakeSender struct {
	err  error
	sent []push.Subscription
}

func (f *fakeSender) Send(_ context.Context, sub push.Subscription, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sub)
	return nil
}

type dispatchFixture struct {
	users         *storetest.Users
	notifications *storetest.Notifications
	sender        *fakeSender
}

func newDispatchFixture() *dispatchFixture {
	return &dispatchFixture{
		users:         storetest.NewUsers(),
		notifications: storetest.NewNotifications(),
		sender:        &fakeSender{},
	}
}

func (f *dispatchFixture) dispatcher(shouldRetry RetryDecision) *Dispatcher {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(f.notifications, f.users, f.sender, shouldRetry, changefeed.Nop{}, 0, log)
}

func (f *dispatchFixture) subscribedUser(discordID string) uint {
	return f.users.Add(models.User{
		DiscordID:    discordID,
		DisplayName:  discordID,
		PushEndpoint: "https://push.example/" + discordID,
		PushP256dh:   "p256",
		PushAuth:     "auth",
	})
}

func TestDispatchSendsPendingBatch(t *testing.T) {
	f := newDispatchFixture()
	ctx := context.Background()

	recipient := f.subscribedUser("alice")
	id := f.notifications.Add(models.Notification{
		RecipientID: recipient, Title: "Session confirmed", Body: "Catan", Status: models.NotificationPending,
	})

	handled, err := f.dispatcher(MaxAttempts(3)).Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, handled)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "https://push.example/alice", f.sender.sent[0].Endpoint)

	n, err := f.notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, n.Status)
	require.NotNil(t, n.SentAt)
	assert.Empty(t, n.ErrorMessage)
}

func TestDispatchBoundedBatchSize(t *testing.T) {
	f := newDispatchFixture()
	ctx := context.Background()

	recipient := f.subscribedUser("alice")
	for i := 0; i < DispatchBatchSize+10; i++ {
		f.notifications.Add(models.Notification{
			RecipientID: recipient, Title: fmt.Sprintf("n%d", i), Status: models.NotificationPending,
		})
	}

	d := f.dispatcher(MaxAttempts(3))

	handled, err := d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, DispatchBatchSize, handled)

	// Sent rows drop out of the queue, so the next pass picks up the rest.
	handled, err = d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, handled)

	handled, err = d.Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, handled)
}

func TestDispatchRetriesUntilAttemptsExhausted(t *testing.T) {
	f := newDispatchFixture()
	ctx := context.Background()

	recipient := f.subscribedUser("alice")
	id := f.notifications.Add(models.Notification{
		RecipientID: recipient, Title: "Session confirmed", Status: models.NotificationPending,
	})

	f.sender.err = errors.New("endpoint gone")
	d := f.dispatcher(MaxAttempts(3))

	_, err := d.Dispatch(ctx)
	require.NoError(t, err)
	n, err := f.notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationPending, n.Status)
	assert.Equal(t, 1, n.RetryCount)

	_, err = d.Dispatch(ctx)
	require.NoError(t, err)
	n, err = f.notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationPending, n.Status)
	assert.Equal(t, 2, n.RetryCount)

	// Third attempt is the last one allowed.
	_, err = d.Dispatch(ctx)
	require.NoError(t, err)
	n, err = f.notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, n.Status)
	assert.Contains(t, n.ErrorMessage, "endpoint gone")
	assert.Nil(t, n.SentAt)
}

func TestDispatchMissingSubscriptionIsDeliveryFailure(t *testing.T) {
	f := newDispatchFixture()
	ctx := context.Background()

	recipient := f.users.Add(models.User{DiscordID: "bob", DisplayName: "Bob"})
	id := f.notifications.Add(models.Notification{
		RecipientID: recipient, Title: "Session confirmed", Status: models.NotificationPending,
	})

	_, err := f.dispatcher(MaxAttempts(1)).Dispatch(ctx)
	require.NoError(t, err)

	n, err := f.notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, n.Status)
	assert.Contains(t, n.ErrorMessage, "no push subscription")
	assert.Empty(t, f.sender.sent)
}

func TestDispatchSkipsTerminalRows(t *testing.T) {
	f := newDispatchFixture()
	ctx := context.Background()

	recipient := f.subscribedUser("alice")
	f.notifications.Add(models.Notification{
		RecipientID: recipient, Title: "old", Status: models.NotificationCancelled,
	})
	f.notifications.Add(models.Notification{
		RecipientID: recipient, Title: "older", Status: models.NotificationFailed,
	})

	handled, err := f.dispatcher(MaxAttempts(3)).Dispatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, handled)
	assert.Empty(t, f.sender.sent)
}

func TestMaxAttempts(t *testing.T) {
	decide := MaxAttempts(3)

	assert.True(t, decide(0))
	assert.True(t, decide(1))
	assert.False(t, decide(2))

	assert.False(t, MaxAttempts(1)(0))
}
