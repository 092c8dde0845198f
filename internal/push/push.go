// Package push wraps the Web Push transport behind a narrow Sender
// interface so the dispatcher can be exercised without network access.
package push

import (
	"context"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
)

// Subscription is a recipient's Web Push subscription record.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) error
}

// WebPushSender sends notifications through the Web Push protocol with
// VAPID authentication.
type WebPushSender struct {
	options webpush.Options
}

func NewWebPushSender(subscriber, vapidPublicKey, vapidPrivateKey string) *WebPushSender {
	return &WebPushSender{
		options: webpush.Options{
			Subscriber:      subscriber,
			VAPIDPublicKey:  vapidPublicKey,
			VAPIDPrivateKey: vapidPrivateKey,
			TTL:             60,
		},
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub Subscription, payload []byte) error {
	opts := s.options
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &opts)
	if err != nil {
		return errors.Wrap(err, "web push")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("web push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
