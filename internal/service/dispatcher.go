package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/push"

	"github.com/pkg/errors"
)

// DispatchBatchSize bounds how many pending notifications one dispatch pass
// processes.
const DispatchBatchSize = 50

// RetryDecision is consulted after a failed delivery attempt. Returning true
// leaves the row pending with its retry count incremented; returning false
// marks it failed. The dispatcher itself enforces no policy.
type RetryDecision func(retryCount int) bool

// MaxAttempts returns a RetryDecision allowing up to n delivery attempts.
func MaxAttempts(n int) RetryDecision {
	return func(retryCount int) bool {
		return retryCount+1 < n
	}
}

// Dispatcher polls the pending-notification queue in bounded batches,
// resolves each recipient's push subscription and attempts delivery. It has
// an explicit lifecycle: construct, Run under a context, stop by cancelling
// the context.
type Dispatcher struct {
	notifications NotificationStore
	users         UserStore
	sender        push.Sender
	shouldRetry   RetryDecision
	feed          changefeed.Publisher
	interval      time.Duration
	log           *slog.Logger
}

func NewDispatcher(
	notifications NotificationStore,
	users UserStore,
	sender push.Sender,
	shouldRetry RetryDecision,
	feed changefeed.Publisher,
	interval time.Duration,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		sender:        sender,
		shouldRetry:   shouldRetry,
		feed:          feed,
		interval:      interval,
		log:           log,
	}
}

// Run dispatches on an interval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("dispatcher started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.Dispatch(ctx); err != nil {
				d.log.Error("dispatch pass", "error", err)
			}
		}
	}
}

// Dispatch processes one batch of pending notifications and returns how many
// rows it handled. Each row gets exactly one outcome write: sent with a
// timestamp, failed with the error text, or pending again with retryCount+1
// when the retry decision allows another attempt.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	batch, err := d.notifications.FetchPendingBatch(ctx, DispatchBatchSize)
	if err != nil {
		return 0, err
	}

	for i := range batch {
		n := &batch[i]

		if deliverErr := d.deliver(ctx, n); deliverErr != nil {
			if d.shouldRetry(n.RetryCount) {
				n.RetryCount++
				d.log.Warn("delivery failed, will retry",
					"notification_id", n.ID, "retry_count", n.RetryCount, "error", deliverErr)
			} else {
				n.Status = models.NotificationFailed
				n.ErrorMessage = deliverErr.Error()
				d.log.Warn("delivery failed permanently", "notification_id", n.ID, "error", deliverErr)
			}
		} else {
			now := time.Now().UTC()
			n.Status = models.NotificationSent
			n.SentAt = &now
			n.ErrorMessage = ""
		}

		if err := d.notifications.Update(ctx, n); err != nil {
			d.log.Error("write notification outcome", "notification_id", n.ID, "error", err)
			continue
		}
		d.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableNotifications, n.ID, changefeed.OpUpdated))
	}

	return len(batch), nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *models.Notification) error {
	recipient, err := d.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return errors.Wrap(err, "resolve recipient")
	}
	if !recipient.HasPushSubscription() {
		return errors.New("recipient has no push subscription")
	}

	payload, err := json.Marshal(map[string]string{
		"title": n.Title,
		"body":  n.Body,
	})
	if err != nil {
		return errors.Wrap(err, "encode payload")
	}

	return d.sender.Send(ctx, push.Subscription{
		Endpoint: recipient.PushEndpoint,
		P256dh:   recipient.PushP256dh,
		Auth:     recipient.PushAuth,
	}, payload)
}
