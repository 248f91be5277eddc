package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache_TTL(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	var calls int32
	fetch := func(ctx context.Context) (*Snapshot, error) {
		atomic.AddInt32(&calls, 1)
		return &Snapshot{Provider: ProviderA, Account: "alice"}, nil
	}

	key := CacheKey(ProviderA, "alice")
	_, err := cache.GetOrFetch(context.Background(), key, fetch)
	require.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrFetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	cache.Invalidate(key)
	_, err = cache.GetOrFetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSnapshotCache_ZeroTTL(t *testing.T) {
	cache := NewSnapshotCache(0)

	var calls int32
	fetch := func(ctx context.Context) (*Snapshot, error) {
		atomic.AddInt32(&calls, 1)
		return &Snapshot{}, nil
	}

	for i := 0; i < 3; i++ {
		_, err := cache.GetOrFetch(context.Background(), "k", fetch)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSnapshotCache_ErrorNotCached(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)

	_, err := cache.GetOrFetch(context.Background(), "k", func(ctx context.Context) (*Snapshot, error) {
		return nil, errors.New("upstream down")
	})
	assert.ErrorContains(t, err, "upstream down")

	snap, err := cache.GetOrFetch(context.Background(), "k", func(ctx context.Context) (*Snapshot, error) {
		return &Snapshot{Account: "bob"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", snap.Account)
}

func TestSnapshotCache_Stampede(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (*Snapshot, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Snapshot{}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.GetOrFetch(context.Background(), "k", fetch)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
