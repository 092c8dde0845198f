// Package changefeed carries document-change events from mutating operations
// to subscribed clients. Services publish an event after every write; the
// transport (Redis pub/sub fanned out through the Hub) re-delivers it to
// clients watching the affected table, which then re-run their queries.
package changefeed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Op is the kind of change applied to a document.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)

// Well-known tables clients can subscribe to.
const (
	TableUsers         Table = "users"
	TableSessions      Table = "sessions"
	TableSwipes        Table = "swipes"
	TableFeedback      Table = "feedback"
	TableNotifications Table = "notifications"
)

// Table names a document collection.
type Table string

// Event is one document change.
type Event struct {
	ID    string    `json:"id"`
	Table Table     `json:"table"`
	DocID uint      `json:"doc_id"`
	Op    Op        `json:"op"`
	At    time.Time `json:"at"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(table Table, docID uint, op Op) Event {
	return Event{
		ID:    uuid.NewString(),
		Table: table,
		DocID: docID,
		Op:    op,
		At:    time.Now().UTC(),
	}
}

// Publisher is the mutation-side half of the feed. Implementations must not
// fail the mutation that triggered the event; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards events. Used in tests and when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
