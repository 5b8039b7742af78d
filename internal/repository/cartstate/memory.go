package cartstate

import (
	"context"
	"encoding/json"
	"sync"

	"obak-storefront/internal/domain"
)

type memoryRepo struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory returns an in-process cart store. It serializes lines the same
// way the Redis store does so round-trip behavior matches.
func NewMemory() Repository {
	return &memoryRepo{m: map[string][]byte{}}
}

func (r *memoryRepo) Load(_ context.Context, key string) ([]domain.CartLine, error) {
	r.mu.RLock()
	raw, ok := r.m[key]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *memoryRepo) Save(_ context.Context, key string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.m[key] = raw
	r.mu.Unlock()
	return nil
}
