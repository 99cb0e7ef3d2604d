// Package cache implements a query-keyed store of last-known-good results
// with time-based staleness (stale-while-revalidate), subscriber
// notification and garbage collection of unsubscribed entries. It is a pure
// in-memory structure with no persistence.
package cache

import (
	"log"
	"strings"
	"sync"
	"time"
)

// Key addresses one cached query result. Keys are composite paths built
// from entity, operation and parameters, e.g. "feeds/list" or
// "comments/list/<feedID>", so a whole family can be invalidated by prefix.
type Key string

// HasPrefix reports whether the key falls under the given prefix.
func (k Key) HasPrefix(prefix Key) bool {
	return strings.HasPrefix(string(k), string(prefix))
}

// Fetcher loads a fresh value for a key.
type Fetcher func() (interface{}, error)

// Subscriber is notified whenever its key is written.
type Subscriber func(value interface{})

// Options control one entry's staleness and retention windows.
type Options struct {
	// FreshFor is how long a written value is served without refetching.
	FreshFor time.Duration
	// RetainFor is how long an unsubscribed entry survives before the
	// garbage collector evicts it.
	RetainFor time.Duration
}

type entry struct {
	value      interface{}
	loaded     bool
	freshUntil time.Time
	opts       Options
	lastUsed   time.Time
	fetch      Fetcher
	fetching   bool
	subs       map[int]Subscriber
}

// QueryCache holds the last-known-good result of each distinct query.
// It is safe for concurrent use; all mutation happens under one mutex.
type QueryCache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	nextSub int
	now     func() time.Time
}

// New creates an empty QueryCache on the wall clock.
func New() *QueryCache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a QueryCache reading time from now. Tests use this
// to drive staleness and garbage collection deterministically.
func NewWithClock(now func() time.Time) *QueryCache {
	return &QueryCache{
		entries: make(map[Key]*entry),
		now:     now,
	}
}

func (c *QueryCache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[int]Subscriber)}
		c.entries[key] = e
	}
	return e
}

// Read returns the cached value for key, if any. It never triggers a fetch.
func (c *QueryCache) Read(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.loaded {
		return nil, false
	}
	e.lastUsed = c.now()
	return e.value, true
}

// Write replaces the cached entry for key and notifies its subscribers
// before returning.
func (c *QueryCache) Write(key Key, value interface{}, opts Options) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.value = value
	e.loaded = true
	e.freshUntil = c.now().Add(opts.FreshFor)
	e.opts = opts
	e.lastUsed = c.now()
	subs := make([]Subscriber, 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// ReadThrough returns the value for key, fetching when needed. A fresh
// cached value is returned as-is. A stale cached value is returned
// immediately while exactly one background refetch runs. A missing value is
// fetched synchronously.
func (c *QueryCache) ReadThrough(key Key, opts Options, fetch Fetcher) (interface{}, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.fetch = fetch
	e.opts = opts
	e.lastUsed = c.now()

	if e.loaded {
		value := e.value
		if c.now().Before(e.freshUntil) {
			c.mu.Unlock()
			return value, nil
		}
		// Stale: serve the cached value and revalidate in the background.
		if !e.fetching {
			e.fetching = true
			go c.refetch(key, fetch, opts)
		}
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := fetch()
	if err != nil {
		return nil, err
	}
	c.Write(key, value, opts)
	return value, nil
}

func (c *QueryCache) refetch(key Key, fetch Fetcher, opts Options) {
	value, err := fetch()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.fetching = false
	}
	c.mu.Unlock()

	if err != nil {
		// The stale value stays in place; the next read retries.
		log.Printf("Background refetch for %s failed: %v", key, err)
		return
	}
	c.Write(key, value, opts)
}

// Invalidate marks every entry under the prefix stale. Entries with at
// least one subscriber are refetched in the background; the rest refetch
// lazily on their next read.
func (c *QueryCache) Invalidate(prefix Key) {
	c.mu.Lock()
	type refetchJob struct {
		key   Key
		fetch Fetcher
		opts  Options
	}
	var jobs []refetchJob
	for key, e := range c.entries {
		if !key.HasPrefix(prefix) {
			continue
		}
		e.freshUntil = time.Time{}
		if len(e.subs) > 0 && e.fetch != nil && !e.fetching {
			e.fetching = true
			jobs = append(jobs, refetchJob{key: key, fetch: e.fetch, opts: e.opts})
		}
	}
	c.mu.Unlock()

	for _, job := range jobs {
		go c.refetch(job.key, job.fetch, job.opts)
	}
}

// Remove drops the entry for key entirely.
func (c *QueryCache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Subscribe registers fn to be called on every write to key. The returned
// function cancels the subscription; the entry's retention countdown starts
// once its last subscriber is gone.
func (c *QueryCache) Subscribe(key Key, fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	id := c.nextSub
	c.nextSub++
	e.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[key]; ok {
			delete(e.subs, id)
			e.lastUsed = c.now()
		}
	}
}

// Sweep evicts entries that have been unsubscribed for longer than their
// retention window.
func (c *QueryCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if len(e.subs) > 0 {
			continue
		}
		if now.Sub(e.lastUsed) > e.opts.RetainFor {
			delete(c.entries, key)
		}
	}
}

// StartGC runs Sweep on the given interval until the returned stop function
// is called.
func (c *QueryCache) StartGC(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// Len returns the number of live entries. Used by the garbage collection
// tests and the health endpoint.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
