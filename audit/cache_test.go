package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestContactCache_Email(t *testing.T) {
	var calls int32
	cache := NewContactCache(func(_ context.Context, login string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return login + "@example.com", nil
	})

	for i := 0; i < 3; i++ {
		email, err := cache.Email(context.Background(), "jdoe")
		require.NoError(t, err)
		assert.Equal(t, "jdoe@example.com", email)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, cache.Len())
}

func TestContactCache_ConcurrentLookups(t *testing.T) {
	var calls int32
	cache := NewContactCache(func(_ context.Context, login string) (string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return login + "@example.com", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			email, err := cache.Email(context.Background(), "shared")
			assert.NoError(t, err)
			assert.Equal(t, "shared@example.com", email)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestContactCache_ErrorNotCached(t *testing.T) {
	var calls int32
	cache := NewContactCache(func(_ context.Context, login string) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", xerrors.New("temporary failure")
		}
		return "jdoe@example.com", nil
	})

	_, err := cache.Email(context.Background(), "jdoe")
	require.ErrorContains(t, err, "temporary failure")
	assert.Zero(t, cache.Len())

	email, err := cache.Email(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", email)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
