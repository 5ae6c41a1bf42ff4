package nomads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// CachedFetcher wraps a BulletinFetcher with an in-memory LRU cache keyed by
// product and issuance. Bulletins are immutable once published, so cached
// text never goes stale; misses (ErrBulletinMissing) are also cached because
// NOMADS never backfills an issuance it skipped.
type CachedFetcher struct {
	inner domain.BulletinFetcher
	cache *lruCache
}

// NewCachedFetcher creates a cache decorator around a bulletin fetcher.
func NewCachedFetcher(inner domain.BulletinFetcher, maxEntries int) *CachedFetcher {
	return &CachedFetcher{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedFetcher) FetchBulletin(ctx context.Context, product domain.Product, issuance time.Time) (string, error) {
	key := fmt.Sprintf("%s|%s", product, issuance.UTC().Format("2006010215"))
	if cached, ok := c.cache.get(key); ok {
		if cached.missing {
			return "", fmt.Errorf("%s at %s: %w", product, issuance.UTC().Format(time.RFC3339), domain.ErrBulletinMissing)
		}
		return cached.text, nil
	}

	text, err := c.inner.FetchBulletin(ctx, product, issuance)
	if err != nil {
		if errors.Is(err, domain.ErrBulletinMissing) {
			c.cache.put(key, cached{missing: true})
		}
		return "", err
	}
	c.cache.put(key, cached{text: text})
	return text, nil
}

type cached struct {
	text    string
	missing bool
}

// lruCache is a simple thread-safe LRU cache for bulletin text.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value cached
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (cached, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cached{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value cached) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
