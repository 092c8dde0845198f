package changefeed

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events to a Redis pub/sub channel so every API
// instance can fan them out to its own SSE clients.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *slog.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *slog.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal changefeed event", "error", err)
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Error("publish changefeed event", "table", event.Table, "error", err)
	}
}

// Bridge consumes the Redis channel and re-broadcasts each event to the
// hub's local subscribers. It blocks until ctx is cancelled.
func Bridge(ctx context.Context, rdb *redis.Client, channel string, hub *Hub, log *slog.Logger) {
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn("drop malformed changefeed message", "error", err)
				continue
			}
			hub.Broadcast(event.Table, []byte(msg.Payload))
		}
	}
}
