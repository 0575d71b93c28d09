// Package store persists to-do items. The SQL repository speaks both
// SQLite and Postgres through a small dialect table; the memory
// repository backs tests and database-free runs.
package store

import (
	"context"
	"errors"
	"time"
)

// Item is one to-do entry.
type Item struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrNotFound reports an id no stored item matches.
	ErrNotFound = errors.New("item not found")

	// ErrEmptyText reports an add whose text is empty after trimming.
	ErrEmptyText = errors.New("item text must not be empty")
)

// ItemRepository is the persistence contract for to-do items.
type ItemRepository interface {
	// List returns every item in creation order. The slice is never
	// nil, so an empty list serializes as [] rather than null.
	List(ctx context.Context) ([]Item, error)

	// Add stores a new item with the given text, trimmed of
	// surrounding whitespace. Returns ErrEmptyText when nothing
	// remains after trimming.
	Add(ctx context.Context, text string) (Item, error)

	// Remove deletes the item with the given id and returns it.
	// Returns ErrNotFound when no such item exists.
	Remove(ctx context.Context, id int64) (Item, error)
}
