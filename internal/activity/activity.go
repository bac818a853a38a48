// Package activity publishes a best-effort log of lobby activity to a Redis list
// for downstream consumers such as reporting jobs.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list that receives activity records.
const DefaultQueueName = "edugame_activity"

const (
	TypeScoreSubmitted     = "score_submitted"
	TypeReadyChanged       = "ready_changed"
	TypeLobbyStatusChanged = "lobby_status_changed"
)

// Record is one activity entry.
type Record struct {
	Type      string         `json:"type"`
	LobbyID   uint           `json:"lobbyId"`
	UserID    uint           `json:"userId"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// NewRecord stamps a record with the current time in milliseconds.
func NewRecord(typ string, lobbyID, userID uint, payload map[string]any) Record {
	return Record{
		Type:      typ,
		LobbyID:   lobbyID,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Publisher sends activity records somewhere. Failures never affect the request
// that produced the record.
type Publisher interface {
	Publish(ctx context.Context, record Record) error
}

// Nop discards every record. It is used when no Redis address is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Record) error { return nil }

// RedisPublisher pushes records onto a Redis list.
type RedisPublisher struct {
	client *redis.Client
	queue  string
}

// NewRedisPublisher wraps an existing client.
func NewRedisPublisher(client *redis.Client, queue string) *RedisPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisPublisher{client: client, queue: queue}
}

// Connect dials Redis and verifies it with a ping.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// Publish serializes the record to JSON and RPUSHes it.
func (p *RedisPublisher) Publish(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal activity record: %w", err)
	}
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}
