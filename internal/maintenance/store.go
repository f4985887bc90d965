// internal/maintenance/store.go
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Store holds the current window. Save replaces it whole.
type Store interface {
	Load(ctx context.Context) (Window, error)
	Save(ctx context.Context, w Window) error
}

// MemoryStore keeps the window in this process only.
type MemoryStore struct {
	w atomic.Pointer[Window]
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.w.Store(&Window{})
	return s
}

func (s *MemoryStore) Load(context.Context) (Window, error) {
	return *s.w.Load(), nil
}

func (s *MemoryStore) Save(_ context.Context, w Window) error {
	s.w.Store(&w)
	return nil
}

const DefaultRedisKey = "martyrs:maintenance"

// RedisStore shares the window between every process that points at the
// same key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// NewRedisClient builds a client from a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (s *RedisStore) Load(ctx context.Context) (Window, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Inactive, nil
	}
	if err != nil {
		return Inactive, fmt.Errorf("load maintenance window: %w", err)
	}
	var w Window
	if err := json.Unmarshal(raw, &w); err != nil {
		return Inactive, fmt.Errorf("decode maintenance window: %w", err)
	}
	if !w.Active {
		return Inactive, nil
	}
	return w, nil
}

func (s *RedisStore) Save(ctx context.Context, w Window) error {
	if !w.Active {
		if err := s.client.Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("clear maintenance window: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save maintenance window: %w", err)
	}
	return nil
}
