package quote

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/sterling/refresh"
	"github.com/shopspring/decimal"
)

var _ refresh.PriceSource = (*Cache)(nil)

// Cache remembers prices returned by a source for a while. Failures are not
// cached.
type Cache struct {
	source refresh.PriceSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	price decimal.Decimal
	at    time.Time
}

// NewCache wraps source. A zero ttl disables caching.
func NewCache(source refresh.PriceSource, ttl time.Duration) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// LastClosePrice implements refresh.PriceSource.
func (c *Cache) LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p, ok := c.get(symbol); ok {
		return p, nil
	}
	p, err := c.source.LastClosePrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	c.mu.Lock()
	c.entries[symbol] = cacheEntry{price: p, at: c.now()}
	c.mu.Unlock()
	return p, nil
}

func (c *Cache) get(symbol string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[symbol]
	if !ok || c.now().Sub(e.at) >= c.ttl {
		return decimal.Zero, false
	}
	return e.price, true
}

// Purge forgets every cached price.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
