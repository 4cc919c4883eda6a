// Package events announces archived plans to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"routing-service/internal/domain"
	"routing-service/internal/platform/obs"
	"routing-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel plan records are published on.
const DefaultChannel = "routing:plans"

// RedisPublisher publishes plan records as JSON over Redis pub/sub.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	timeout time.Duration
}

var _ ports.PlanPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher connects to the Redis server at url (redis://...).
func NewRedisPublisher(url, channel string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: redis.NewClient(opt), channel: channel, timeout: 2 * time.Second}, nil
}

// Ping verifies the connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis publisher: ping: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Publish(ctx context.Context, rec domain.PlanRecord) (err error) {
	defer obs.Time(ctx, "events.Publish")(&err)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("publish plan %s: marshal: %w", rec.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish plan %s: %w", rec.ID, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return p.rdb.Close() }

// NopPublisher drops every record. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.PlanRecord) error { return nil }
