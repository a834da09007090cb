package query

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

func counter(calls *atomic.Int32, value string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "products:2::0", Key("products", 2, "", 0))
	assert.Equal(t, "cart", Key("cart"))
}

func TestFetch_CachesWithinStaleTime(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32

	v1, err := Fetch(context.Background(), c, "cart", counter(&calls, "a"))
	require.NoError(t, err)
	v2, err := Fetch(context.Background(), c, "cart", counter(&calls, "b"))
	require.NoError(t, err)

	assert.Equal(t, "a", v1)
	assert.Equal(t, "a", v2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RefetchesAfterStaleTime(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	var calls atomic.Int32

	_, _ = Fetch(context.Background(), c, "cart", counter(&calls, "a"))
	now = now.Add(2 * time.Minute)
	v, _ := Fetch(context.Background(), c, "cart", counter(&calls, "b"))

	assert.Equal(t, "b", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ErrorsNotCached(t *testing.T) {
	c := NewCache(time.Minute)
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.IsStale("cart"))

	v, err := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, "products:1", fn)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestInvalidate_Prefix(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32
	for _, k := range []string{"orders", Key("orders", 1), Key("orders", 2), "ordersx", "cart"} {
		_, _ = Fetch(context.Background(), c, k, counter(&calls, k))
	}

	c.Invalidate("orders")

	assert.True(t, c.IsStale("orders"))
	assert.True(t, c.IsStale(Key("orders", 1)))
	assert.True(t, c.IsStale(Key("orders", 2)))
	assert.False(t, c.IsStale("ordersx"))
	assert.False(t, c.IsStale("cart"))

	// stale value stays readable as a placeholder
	v, ok := Peek[string](c, Key("orders", 1))
	assert.True(t, ok)
	assert.Equal(t, "orders:1", v)
}

func TestInvalidate_DuringFetchStoresStale(t *testing.T) {
	c := NewCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "before-mutation", nil
		})
	}()

	<-started
	c.Invalidate("cart")
	close(release)
	<-done

	assert.True(t, c.IsStale("cart"))
	v, err := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) { return "after", nil })
	require.NoError(t, err)
	assert.Equal(t, "after", v)
}

func TestReset_DiscardsEverything(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32
	_, _ = Fetch(context.Background(), c, "cart", counter(&calls, "a"))

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, "orders", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "old-user", nil
		})
	}()
	<-started
	c.Reset()
	close(release)
	<-done

	_, ok := Peek[string](c, "cart")
	assert.False(t, ok)
	_, ok = Peek[string](c, "orders")
	assert.False(t, ok)
}

func TestFetch_AfterInvalidateDoesNotJoinEarlierCall(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "before-mutation", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("cart")

	v, err := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "after-mutation", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after-mutation", v)

	close(release)
	assert.Equal(t, "before-mutation", <-done)
	assert.Equal(t, int32(2), calls.Load())

	// the late result of the earlier call must not replace the newer one
	v, ok := Peek[string](c, "cart")
	assert.True(t, ok)
	assert.Equal(t, "after-mutation", v)
	assert.False(t, c.IsStale("cart"))
}

func TestFetch_AfterResetDoesNotJoinPreviousUser(t *testing.T) {
	c := NewCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "user-A-cart", nil
		})
	}()

	<-started
	c.Reset()

	v, err := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
		return "user-B-cart", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user-B-cart", v)

	close(release)
	<-done

	v, ok := Peek[string](c, "cart")
	assert.True(t, ok)
	assert.Equal(t, "user-B-cart", v)
}

func TestFetch_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	c := NewCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error)
	go func() {
		_, err := Fetch(ctx, c, "cart", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "cart", nil
		})
		first <- err
	}()
	<-started

	second := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), c, "cart", func(ctx context.Context) (string, error) {
			return "unexpected second call", nil
		})
		second <- v
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	assert.Equal(t, "cart", <-second)
}
