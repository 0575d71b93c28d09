package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps items in process memory. It implements the
// same contract as the SQL repository, including monotonic ids that
// are never reused after a remove.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepository) Add(ctx context.Context, text string) (Item, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Item{}, ErrEmptyText
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item := Item{
		ID:        r.nextID,
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.items = append(r.items, item)
	return item, nil
}

func (r *MemoryRepository) Remove(ctx context.Context, id int64) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for n, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:n], r.items[n+1:]...)
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}
