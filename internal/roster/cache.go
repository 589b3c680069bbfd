package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const SnapshotKey = "betlegend:mlb_rosters"

// Snapshot is every active roster fetched at one point in time.
type Snapshot struct {
	FetchedAt time.Time        `json:"timestamp"`
	Rosters   map[int][]Player `json:"full_rosters"`
}

// Cache stores the latest snapshot. Get returns nil, nil when nothing is
// cached.
type Cache interface {
	Get(ctx context.Context) (*Snapshot, error)
	Put(ctx context.Context, s *Snapshot, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context) (*Snapshot, error) {
	raw, err := c.client.Get(ctx, SnapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get roster snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal roster snapshot: %w", err)
	}
	return &s, nil
}

func (c *RedisCache) Put(ctx context.Context, s *Snapshot, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal roster snapshot: %w", err)
	}
	return c.client.Set(ctx, SnapshotKey, string(b), ttl).Err()
}

// FileCache keeps the snapshot in a JSON file next to the site.
type FileCache struct {
	Path string
}

func (c FileCache) Get(ctx context.Context) (*Snapshot, error) {
	b, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roster cache: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal roster cache %s: %w", c.Path, err)
	}
	return &s, nil
}

func (c FileCache) Put(ctx context.Context, s *Snapshot, _ time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal roster cache: %w", err)
	}
	if err := os.WriteFile(c.Path, b, 0o644); err != nil {
		return fmt.Errorf("write roster cache: %w", err)
	}
	return nil
}
