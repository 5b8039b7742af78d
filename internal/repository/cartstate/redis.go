package cartstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"obak-storefront/internal/domain"
)

type redisRepo struct {
	client *redis.Client
}

// NewRedis builds a Redis-backed cart store from an address or a
// "redis://" URL and verifies connectivity with a ping.
func NewRedis(ctx context.Context, addr string) (Repository, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}
	repo := &redisRepo{client: redis.NewClient(opts)}
	if err := repo.ping(ctx); err != nil {
		repo.client.Close()
		return nil, err
	}
	return repo, nil
}

func cartKey(key string) string {
	return "cart:" + key
}

func (r *redisRepo) Load(ctx context.Context, key string) ([]domain.CartLine, error) {
	raw, err := r.client.Get(ctx, cartKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart store: load %q: %w", key, err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("cart store: decode %q: %w", key, err)
	}
	return lines, nil
}

func (r *redisRepo) Save(ctx context.Context, key string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart store: encode %q: %w", key, err)
	}
	if err := r.client.Set(ctx, cartKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("cart store: save %q: %w", key, err)
	}
	return nil
}

func (r *redisRepo) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err()
}
