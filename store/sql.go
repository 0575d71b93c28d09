package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/izaqyos/toyMCP/logger"
)

// SQLRepository persists items in a relational database. Add and
// Remove are single statements, so each call is atomic without an
// explicit transaction.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	log     logger.Logger
}

// NewSQLRepository wraps an open handle. The handle is injected, not
// created here: the caller decides pooling, lifetime, and teardown.
func NewSQLRepository(db *sql.DB, dialect Dialect, log logger.Logger) *SQLRepository {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &SQLRepository{db: db, dialect: dialect, log: log}
}

func (r *SQLRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.listItems)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Text, &item.Completed, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *SQLRepository) Add(ctx context.Context, text string) (Item, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Item{}, ErrEmptyText
	}

	var item Item
	err := r.db.QueryRowContext(ctx, r.dialect.insertItem, trimmed, false, time.Now().UTC()).
		Scan(&item.ID, &item.Text, &item.Completed, &item.CreatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("failed to insert item: %w", err)
	}

	r.log.WithFields(map[string]interface{}{"id": item.ID}).Debug("item added")
	return item, nil
}

func (r *SQLRepository) Remove(ctx context.Context, id int64) (Item, error) {
	var item Item
	err := r.db.QueryRowContext(ctx, r.dialect.deleteItem, id).
		Scan(&item.ID, &item.Text, &item.Completed, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to delete item %d: %w", id, err)
	}

	r.log.WithFields(map[string]interface{}{"id": item.ID}).Debug("item removed")
	return item, nil
}
