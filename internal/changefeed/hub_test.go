package changefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub()

	client := make(Client, 1)
	hub.Subscribe(TableSessions, client)

	hub.Broadcast(TableSessions, []byte("payload"))

	select {
	case msg := <-client:
		assert.Equal(t, []byte("payload"), msg)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubBroadcastScopedToTable(t *testing.T) {
	hub := NewHub()

	sessions := make(Client, 1)
	users := make(Client, 1)
	hub.Subscribe(TableSessions, sessions)
	hub.Subscribe(TableUsers, users)

	hub.Broadcast(TableSessions, []byte("payload"))

	require.Len(t, sessions, 1)
	assert.Empty(t, users)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()

	client := make(Client, 1)
	hub.Subscribe(TableSessions, client)
	hub.Unsubscribe(TableSessions, client)

	_, open := <-client
	assert.False(t, open)

	// Unsubscribing twice must not panic on the closed channel.
	hub.Unsubscribe(TableSessions, client)

	// Broadcasts after unsubscribe go nowhere.
	hub.Broadcast(TableSessions, []byte("payload"))
}

func TestHubSlowClientDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()

	slow := make(Client) // unbuffered and never read
	fast := make(Client, 1)
	hub.Subscribe(TableSessions, slow)
	hub.Subscribe(TableSessions, fast)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(TableSessions, []byte("payload"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
	assert.Len(t, fast, 1)
}
