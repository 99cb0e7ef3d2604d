package cache_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"geckoland/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func testOpts() cache.Options {
	return cache.Options{FreshFor: 5 * time.Minute, RetainFor: 10 * time.Minute}
}

func TestReadDoesNotFetch(t *testing.T) {
	qc := cache.New()

	_, ok := qc.Read("feeds/list")
	assert.False(t, ok)

	qc.Write("feeds/list", "value", testOpts())
	v, ok := qc.Read("feeds/list")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestReadThroughServesFreshValueWithoutRefetch(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var calls int32
	fetch := func() (interface{}, error) {
		return fmt.Sprintf("value-%d", atomic.AddInt32(&calls, 1)), nil
	}

	v, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	// A second read inside the freshness window serves the cached value
	// with no fetch at all.
	clock.Advance(1 * time.Minute)
	v, err = qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReadThroughStaleServesOldValueAndRefetchesOnce(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var calls int32
	release := make(chan struct{})
	fetch := func() (interface{}, error) {
		n := atomic.AddInt32(&calls, 1)
		if n > 1 {
			<-release
		}
		return fmt.Sprintf("value-%d", n), nil
	}

	v, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	clock.Advance(6 * time.Minute)

	// Both stale reads serve the previous value synchronously; only one
	// background refetch is started between them.
	v, err = qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	v, err = qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	close(release)
	assert.Eventually(t, func() bool {
		v, _ := qc.Read("feeds/list")
		return v == "value-2"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestReadThroughFailedRefetchKeepsStaleValue(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var calls int32
	fetch := func() (interface{}, error) {
		if atomic.AddInt32(&calls, 1) > 1 {
			return nil, fmt.Errorf("backend down")
		}
		return "value-1", nil
	}

	_, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	v, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)

	// The stale value survives the failed refetch.
	v, ok := qc.Read("feeds/list")
	assert.True(t, ok)
	assert.Equal(t, "value-1", v)
}

func TestWriteNotifiesSubscribersSynchronously(t *testing.T) {
	qc := cache.New()

	var got interface{}
	cancel := qc.Subscribe("feeds/list", func(value interface{}) {
		got = value
	})
	defer cancel()

	qc.Write("feeds/list", "value", testOpts())
	assert.Equal(t, "value", got)
}

func TestInvalidateRefetchesSubscribedQueries(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var calls int32
	fetch := func() (interface{}, error) {
		return fmt.Sprintf("value-%d", atomic.AddInt32(&calls, 1)), nil
	}

	_, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)

	notified := make(chan interface{}, 4)
	cancel := qc.Subscribe("feeds/list", func(value interface{}) {
		notified <- value
	})
	defer cancel()

	qc.Invalidate("feeds/")

	select {
	case v := <-notified:
		assert.Equal(t, "value-2", v)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified after invalidation")
	}
}

func TestInvalidateMarksUnsubscribedQueriesStale(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var calls int32
	fetch := func() (interface{}, error) {
		return fmt.Sprintf("value-%d", atomic.AddInt32(&calls, 1)), nil
	}

	_, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)

	qc.Invalidate("feeds/list")

	// Still served, but the next read revalidates in the background.
	v, err := qc.ReadThrough("feeds/list", testOpts(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "value-1", v)

	assert.Eventually(t, func() bool {
		v, _ := qc.Read("feeds/list")
		return v == "value-2"
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidateByPrefixOnlyTouchesMatchingKeys(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	var feedCalls, commentCalls int32
	_, err := qc.ReadThrough("feeds/list", testOpts(), func() (interface{}, error) {
		return atomic.AddInt32(&feedCalls, 1), nil
	})
	require.NoError(t, err)
	_, err = qc.ReadThrough("comments/list/f1", testOpts(), func() (interface{}, error) {
		return atomic.AddInt32(&commentCalls, 1), nil
	})
	require.NoError(t, err)

	qc.Invalidate("feeds/")

	_, err = qc.ReadThrough("comments/list/f1", testOpts(), func() (interface{}, error) {
		return atomic.AddInt32(&commentCalls, 1), nil
	})
	require.NoError(t, err)

	// The comment entry stayed fresh: no second fetch.
	assert.Equal(t, int32(1), atomic.LoadInt32(&commentCalls))
}

func TestSweepEvictsUnsubscribedEntriesPastRetention(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	qc.Write("feeds/list", "value", testOpts())
	assert.Equal(t, 1, qc.Len())

	clock.Advance(11 * time.Minute)
	qc.Sweep()
	assert.Equal(t, 0, qc.Len())
}

func TestSweepKeepsSubscribedEntries(t *testing.T) {
	clock := newFakeClock()
	qc := cache.NewWithClock(clock.Now)

	qc.Write("feeds/list", "value", testOpts())
	cancel := qc.Subscribe("feeds/list", func(interface{}) {})

	clock.Advance(11 * time.Minute)
	qc.Sweep()
	assert.Equal(t, 1, qc.Len())

	// The retention countdown starts at unsubscribe.
	cancel()
	qc.Sweep()
	assert.Equal(t, 1, qc.Len())

	clock.Advance(11 * time.Minute)
	qc.Sweep()
	assert.Equal(t, 0, qc.Len())
}

func TestRemoveDropsEntry(t *testing.T) {
	qc := cache.New()
	qc.Write("feeds/detail/f1", "value", testOpts())

	qc.Remove("feeds/detail/f1")
	_, ok := qc.Read("feeds/detail/f1")
	assert.False(t, ok)
}
