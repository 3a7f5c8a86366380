package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", map[string]int{"user_id": 3}, time.Minute))

	var got map[string]int
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, 3, got["user_id"])
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", "v", time.Second))

	now = now.Add(2 * time.Second)
	var got string
	assert.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryDel(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))
	require.NoError(t, m.Del(ctx, "a", "b"))

	var n int
	assert.ErrorIs(t, m.Get(ctx, "a", &n), ErrMiss)
	assert.ErrorIs(t, m.Get(ctx, "b", &n), ErrMiss)
}
