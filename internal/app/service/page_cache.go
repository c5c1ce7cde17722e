package service

import (
	"context"
	"sync"
	"time"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

type cachedPage[T any] struct {
	value      T
	renderedAt time.Time
}

// PageCache is an output cache with a revalidation window: fresh entries are served as-is,
// stale entries are served while a single background render replaces them,
// and misses render in the request.
type PageCache[T any] struct {
	store           *cache.Cache
	group           singleflight.Group
	revalidateAfter time.Duration
	renderTimeout   time.Duration
	logger          port.Logger
	now             func() time.Time

	mu           sync.Mutex
	regenerating map[string]struct{}
	wg           sync.WaitGroup
}

// NewPageCache creates a PageCache. An expiration of zero keeps entries until restart.
func NewPageCache[T any](revalidateAfter, renderTimeout, expiration, cleanupInterval time.Duration, l port.Logger) *PageCache[T] {
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	return &PageCache[T]{
		store:           cache.New(expiration, cleanupInterval),
		revalidateAfter: revalidateAfter,
		renderTimeout:   renderTimeout,
		logger:          l,
		now:             time.Now,
		regenerating:    make(map[string]struct{}),
	}
}

// Get returns the page stored under key, rendering it with render when absent.
// Render errors are returned to the caller and never cached.
func (c *PageCache[T]) Get(ctx context.Context, key string, render func(context.Context) (T, error)) (T, error) {
	if item, ok := c.store.Get(key); ok {
		page := item.(cachedPage[T])
		if c.now().Sub(page.renderedAt) < c.revalidateAfter {
			metrics.PageCacheLookups.WithLabelValues("fresh").Inc()
			return page.value, nil
		}
		metrics.PageCacheLookups.WithLabelValues("stale").Inc()
		c.regenerate(key, render)
		return page.value, nil
	}

	metrics.PageCacheLookups.WithLabelValues("miss").Inc()
	// Joined callers share one render, so it must outlive any single request.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.renderTimeout)
		defer cancel()

		value, err := render(renderCtx)
		if err != nil {
			return nil, err
		}
		c.Put(key, value)
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Put stores a rendered page under key.
func (c *PageCache[T]) Put(key string, value T) {
	c.store.Set(key, cachedPage[T]{value: value, renderedAt: c.now()}, cache.DefaultExpiration)
}

// Len returns the number of cached pages.
func (c *PageCache[T]) Len() int {
	return c.store.ItemCount()
}

// WaitIdle blocks until background renders have finished.
func (c *PageCache[T]) WaitIdle() {
	c.wg.Wait()
}

func (c *PageCache[T]) regenerate(key string, render func(context.Context) (T, error)) {
	c.mu.Lock()
	if _, running := c.regenerating[key]; running {
		c.mu.Unlock()
		return
	}
	c.regenerating[key] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.regenerating, key)
			c.mu.Unlock()
			c.wg.Done()
		}()

		// The request that noticed the stale entry does not wait for the render.
		ctx, cancel := context.WithTimeout(context.Background(), c.renderTimeout)
		defer cancel()

		_, err, _ := c.group.Do(key, func() (interface{}, error) {
			value, err := render(ctx)
			if err != nil {
				return nil, err
			}
			c.Put(key, value)
			return value, nil
		})
		metrics.PageRegenerations.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			c.logger.Warn("Page regeneration failed, keeping stale page", "key", key, "error", err)
			return
		}
		c.logger.Debug("Page regenerated", "key", key)
	}()
}
