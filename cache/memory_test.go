package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", "v1", 0))
	require.NoError(t, m.Set(ctx, "k", "v2", 0))

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, m.Del(ctx, "k", "missing"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_Expiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_ExpiredGetKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "stale", time.Minute))
	now = now.Add(2 * time.Minute)

	// Overwrite the key between the expiry check and the delete.
	armed := true
	m.now = func() time.Time {
		if armed {
			armed = false
			require.NoError(t, m.Set(ctx, "k", "fresh", time.Hour))
		}
		return now
	}

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}
