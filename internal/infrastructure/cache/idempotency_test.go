package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_ReservaGuardaYExpira(t *testing.T) {
	s := NewInMemoryIdempotencyStore()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "segunda reserva de la misma clave")

	got, err := s.Load(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.InFlight)

	require.NoError(t, s.Save(ctx, "k1", CachedResponse{Status: 201, Body: []byte(`{"ok":true}`)}, time.Minute))
	got, err = s.Load(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, got.InFlight)
	assert.Equal(t, 201, got.Status)

	now = now.Add(time.Minute)
	got, err = s.Load(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got, "expirada")
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	s := NewInMemoryIdempotencyStore()
	ctx := context.Background()
	_, _ = s.Reserve(ctx, "k", time.Hour)
	require.NoError(t, s.Release(ctx, "k"))
	ok, err := s.Reserve(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNoopIdempotencyStore(t *testing.T) {
	var s NoopIdempotencyStore
	ok, err := s.Reserve(context.Background(), "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
