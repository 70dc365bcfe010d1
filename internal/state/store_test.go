package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.NoError(t, store.Set(ctx, "k", []string{"a", "b"}, 0))

	var out []string
	assert.NoError(t, store.Get(ctx, "k", &out))
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()

	var out string
	assert.ErrorIs(t, store.Get(context.Background(), "nope", &out), ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.NoError(t, store.Set(ctx, "short", "v", 10*time.Millisecond))

	var out string
	assert.NoError(t, store.Get(ctx, "short", &out))

	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, store.Get(ctx, "short", &out), ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.NoError(t, store.Set(ctx, "a", 1, 0))
	assert.NoError(t, store.Set(ctx, "b", 2, 0))
	assert.NoError(t, store.Delete(ctx, "a", "b"))

	var out int
	assert.ErrorIs(t, store.Get(ctx, "a", &out), ErrNotFound)
	assert.ErrorIs(t, store.Get(ctx, "b", &out), ErrNotFound)
}

func TestMemoryStore_DeletePattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.NoError(t, store.Set(ctx, "posts:all:page=1", 1, 0))
	assert.NoError(t, store.Set(ctx, "posts:all:page=2", 2, 0))
	assert.NoError(t, store.Set(ctx, "posts:category_c1:page=1", 3, 0))

	assert.NoError(t, store.DeletePattern(ctx, "posts:all:*"))

	var out int
	assert.ErrorIs(t, store.Get(ctx, "posts:all:page=1", &out), ErrNotFound)
	assert.ErrorIs(t, store.Get(ctx, "posts:all:page=2", &out), ErrNotFound)
	assert.NoError(t, store.Get(ctx, "posts:category_c1:page=1", &out))
	assert.Equal(t, 3, out)
}
