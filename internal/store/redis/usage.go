package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Usage is the persisted launch statistic of one group.
type Usage struct {
	Count        int64
	LastLaunched time.Time
}

// Store persists launch statistics in Redis
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// RecordLaunch increments the counter of a group and stamps the launch time
func (s *Store) RecordLaunch(ctx context.Context, id string, at time.Time) error {
	key := UsageKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldCount, 1)
		pipe.HSet(ctx, key, fieldLastLaunched, at.Unix())
		pipe.SAdd(ctx, AllUsageKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	return nil
}

// GetAllUsage retrieves the statistics of every known group
func (s *Store) GetAllUsage(ctx context.Context) (map[string]Usage, error) {
	ids, err := s.client.SMembers(ctx, AllUsageKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage IDs: %w", err)
	}

	stats := make(map[string]Usage, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(ids))
	for _, id := range ids {
		cmds[id] = pipe.HGetAll(ctx, UsageKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	for id, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			// Skip entries that vanished between SMEMBERS and HGETALL
			continue
		}
		stats[id] = parseUsage(fields)
	}
	return stats, nil
}

// DeleteUsage removes the statistics of a group
func (s *Store) DeleteUsage(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, UsageKey(id))
	pipe.SRem(ctx, AllUsageKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete usage: %w", err)
	}
	return nil
}

func parseUsage(fields map[string]string) Usage {
	var u Usage
	if n, err := strconv.ParseInt(fields[fieldCount], 10, 64); err == nil {
		u.Count = n
	}
	if ts, err := strconv.ParseInt(fields[fieldLastLaunched], 10, 64); err == nil && ts > 0 {
		u.LastLaunched = time.Unix(ts, 0)
	}
	return u
}
