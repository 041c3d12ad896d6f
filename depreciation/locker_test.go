package depreciation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/depreciation"
)

func TestKeyedLocker_SerializesSameKey(t *testing.T) {
	// GIVEN: Many goroutines locking the same key
	// WHEN: Each increments a counter inside the critical section
	// THEN: At most one is ever inside at a time

	l := depreciation.NewKeyedLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, depreciation.AssetKey("a-1"))
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestKeyedLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := depreciation.NewKeyedLocker()
	ctx := context.Background()

	unlockA, err := l.Lock(ctx, depreciation.AssetKey("a-1"))
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, depreciation.AssetKey("a-2"))
	require.NoError(t, err)
	unlockB()
}

func TestKeyedLocker_WaiterGivesUpOnCancel(t *testing.T) {
	l := depreciation.NewKeyedLocker()

	unlock, err := l.Lock(context.Background(), depreciation.CategoryKey("c-1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, depreciation.CategoryKey("c-1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Releasing twice is harmless; the key is free afterwards.
	unlock()
	unlock()
	again, err := l.Lock(context.Background(), depreciation.CategoryKey("c-1"))
	require.NoError(t, err)
	again()
}

func TestLockKeys_AreNamespaced(t *testing.T) {
	assert.Equal(t, "activo:42", depreciation.AssetKey("42"))
	assert.Equal(t, "categoria:42", depreciation.CategoryKey("42"))
	assert.NotEqual(t, depreciation.AssetKey("42"), depreciation.CategoryKey("42"))
}
