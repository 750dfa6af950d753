package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory(ctx, time.Hour)

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`{"price":2300}`)
	require.NoError(t, m.Set(ctx, "oracle:wheat", value, time.Minute))
	value[0] = 'x'

	got, found, err := m.Get(ctx, "oracle:wheat")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"price":2300}`, string(got))
}

func TestMemory_ExpiredEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory(ctx, time.Hour)

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, m.Set(ctx, "long", []byte("b"), time.Hour))

	current = current.Add(2 * time.Minute)

	_, found, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)

	m.evictExpired()
	assert.Equal(t, 1, m.Len())

	_, found, _ = m.Get(ctx, "long")
	assert.True(t, found)
}
