package mem

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// sweepInterval is how often Set drops expired entries nobody reads anymore.
const sweepInterval = time.Minute

type St struct {
	data map[string]itemSt
	mu   sync.Mutex

	now       func() time.Time
	lastSweep time.Time
}

type itemSt struct {
	value     []byte
	expiresAt time.Time
}

func (i itemSt) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

func New() *St {
	return &St{
		data: map[string]itemSt{},
		now:  time.Now,
	}
}

// SetClock replaces the time source, tests use it to expire entries.
func (c *St) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

func (c *St) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}

	if item.expired(c.now()) {
		delete(c.data, key)
		return nil, false, nil
	}

	return item.value, true, nil
}

func (c *St) GetJsonObj(ctx context.Context, key string, dst any) (bool, error) {
	dataRaw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}

	err = json.Unmarshal(dataRaw, dst)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *St) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweep(now)
	}

	item := itemSt{value: value}
	if expiration > 0 {
		item.expiresAt = now.Add(expiration)
	}

	c.data[key] = item

	return nil
}

// sweep must be called with mu held.
func (c *St) sweep(now time.Time) {
	for k, item := range c.data {
		if item.expired(now) {
			delete(c.data, k)
		}
	}

	c.lastSweep = now
}

func (c *St) SetJsonObj(ctx context.Context, key string, value any, expiration time.Duration) error {
	dataRaw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, dataRaw, expiration)
}

func (c *St) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)

	return nil
}

func (c *St) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = map[string]itemSt{}
}
