package room

import (
	"context"
	"fmt"
	"time"

	"github.com/omochice/roomtalk/pkg/protocol"
	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "roomtalk:history:"

// RedisConfig selects the Redis server backing RedisHistory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisHistory is a HistoryStore on Redis lists, one list per room. Entries
// are stored as encoded message frames.
type RedisHistory struct {
	rdb   *redis.Client
	limit int
}

// NewRedisHistory connects to Redis and verifies the connection with PING.
func NewRedisHistory(ctx context.Context, cfg RedisConfig, limit int) (*RedisHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return &RedisHistory{rdb: rdb, limit: limit}, nil
}

func historyKey(room string) string { return historyKeyPrefix + room }

// Append implements HistoryStore. RPUSH and LTRIM run in one transaction so
// the list never exceeds the limit.
func (h *RedisHistory) Append(ctx context.Context, room string, e protocol.Entry) error {
	f := protocol.Frame{Event: protocol.EventMessage, Room: room}
	f.SetEntry(e)
	data, err := f.Encode()
	if err != nil {
		return err
	}

	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, historyKey(room), data)
	pipe.LTrim(ctx, historyKey(room), int64(-h.limit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history for %q: %w", room, err)
	}
	return nil
}

// Recent implements HistoryStore. Undecodable list items are skipped.
func (h *RedisHistory) Recent(ctx context.Context, room string) ([]protocol.Entry, error) {
	vals, err := h.rdb.LRange(ctx, historyKey(room), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history for %q: %w", room, err)
	}
	out := make([]protocol.Entry, 0, len(vals))
	for _, v := range vals {
		var f protocol.Frame
		if err := f.Decode([]byte(v)); err != nil {
			continue
		}
		out = append(out, f.Entry())
	}
	return out, nil
}

// Clear removes the stored history of room.
func (h *RedisHistory) Clear(ctx context.Context, room string) error {
	return h.rdb.Del(ctx, historyKey(room)).Err()
}

// Close closes the Redis client.
func (h *RedisHistory) Close() error {
	return h.rdb.Close()
}
