package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/infrastructure/cache"
)

type payload struct {
	UserID string `json:"user_id"`
}

func TestMemoryStore_SetGetExpire(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", payload{UserID: "u1"}, time.Hour))

	var got payload
	found, err := s.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u1", got.UserID)

	now = now.Add(time.Hour)
	found, err = s.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found, "expira exactamente al cumplirse el TTL")
}

func TestMemoryStore_GetDelConsumesOnce(t *testing.T) {
	s := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "reset:abc", payload{UserID: "u1"}, 0))

	var got payload
	found, err := s.GetDel(ctx, "reset:abc", &got)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.GetDel(ctx, "reset:abc", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_SetNXSingleWinner(t *testing.T) {
	s := cache.NewMemoryStore()
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.SetNX(ctx, "idem:c1:key", "in-flight", time.Minute)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	require.NoError(t, s.Delete(ctx, "idem:c1:key"))
	ok, err := s.SetNX(ctx, "idem:c1:key", "again", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetTokens_SingleUse(t *testing.T) {
	tokens := cache.NewResetTokens(cache.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, "abc", auth.ResetRef{UserID: "u1", CompanyID: "c1"}, time.Hour))

	ref, err := tokens.Consume(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "u1", ref.UserID)
	assert.Equal(t, "c1", ref.CompanyID)

	ref, err = tokens.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, ref, "un token consumido no vuelve a servir")
}
