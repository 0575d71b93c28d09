package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "items_test.db")
	db, err := Open(SQLite, dbPath, Options{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	init := &Initializer{DB: db, Dialect: SQLite, Attempts: 1}
	require.NoError(t, init.EnsureSchema(context.Background()))

	return NewSQLRepository(db, SQLite, nil)
}

func TestSQLRepositoryAddAndList(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Add(ctx, "buy milk")
	require.NoError(t, err)
	second, err := repo.Add(ctx, "walk the dog")
	require.NoError(t, err)

	assert.Equal(t, "buy milk", first.Text)
	assert.False(t, first.Completed)
	assert.WithinDuration(t, time.Now().UTC(), first.CreatedAt, time.Minute)
	assert.Greater(t, second.ID, first.ID)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, "walk the dog", items[1].Text)
}

func TestSQLRepositoryAddTrimsText(t *testing.T) {
	repo := setupSQLiteRepo(t)

	item, err := repo.Add(context.Background(), "  buy milk \t")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", item.Text)
}

func TestSQLRepositoryAddEmptyText(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", " \t\n "} {
		_, err := repo.Add(ctx, text)
		assert.ErrorIs(t, err, ErrEmptyText, "text %q", text)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSQLRepositoryListEmpty(t *testing.T) {
	repo := setupSQLiteRepo(t)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	// Callers serialize the result, so it must be [] and never null.
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSQLRepositoryRemove(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Add(ctx, "one")
	require.NoError(t, err)
	second, err := repo.Add(ctx, "two")
	require.NoError(t, err)
	third, err := repo.Add(ctx, "three")
	require.NoError(t, err)

	removed, err := repo.Remove(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, removed.ID)
	assert.Equal(t, "two", removed.Text)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, third.ID, items[1].ID)
}

func TestSQLRepositoryRemoveMissing(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Remove(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)

	item, err := repo.Add(ctx, "once")
	require.NoError(t, err)
	_, err = repo.Remove(ctx, item.ID)
	require.NoError(t, err)
	_, err = repo.Remove(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound, "second remove of the same id")
}

func TestSQLRepositoryIDsNotReused(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Add(ctx, "short-lived")
	require.NoError(t, err)
	_, err = repo.Remove(ctx, first.ID)
	require.NoError(t, err)

	second, err := repo.Add(ctx, "successor")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestSQLRepositorySchemaIdempotent(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, "survives reruns")
	require.NoError(t, err)

	init := &Initializer{DB: repo.db, Dialect: SQLite, Attempts: 1}
	require.NoError(t, init.EnsureSchema(ctx))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
