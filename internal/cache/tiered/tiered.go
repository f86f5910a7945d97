// Package tiered is a read-through cache over an ordered list of stores,
// fastest first. Backend failures degrade to a miss; they never fail a read.
package tiered

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/digipin/internal/cache"
	"github.com/mohammed-shakir/digipin/internal/core/observability"
)

type Tier struct {
	Name  string
	Store cache.Interface
}

type Cache struct {
	tiers     []Tier
	ttl       time.Duration
	opTimeout time.Duration
	logger    *slog.Logger
}

func New(logger *slog.Logger, ttl, opTimeout time.Duration, tiers ...Tier) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{tiers: tiers, ttl: ttl, opTimeout: opTimeout, logger: logger}
}

// FillFunc computes a value on a full miss.
type FillFunc func(ctx context.Context) ([]byte, error)

// GetOrFill returns the cached value for key, filling every tier in front
// of the one that hit. On a full miss fill runs and its result is stored in
// all tiers. hit names the tier that served the value, or "" after a fill.
func (c *Cache) GetOrFill(ctx context.Context, key string, fill FillFunc) (val []byte, hit string, err error) {
	for i, t := range c.tiers {
		v, ok := c.get(ctx, t, key)
		if !ok {
			observability.IncOverlayCache(t.Name, "miss")
			continue
		}
		observability.IncOverlayCache(t.Name, "hit")
		c.store(ctx, c.tiers[:i], key, v)
		return v, t.Name, nil
	}

	v, err := fill(ctx)
	if err != nil {
		return nil, "", err
	}
	c.store(ctx, c.tiers, key, v)
	return v, "", nil
}

// Ping reports the first backend that is not reachable.
func (c *Cache) Ping(ctx context.Context) error {
	for _, t := range c.tiers {
		p, ok := t.Store.(cache.Pinger)
		if !ok {
			continue
		}
		opCtx, cancel := c.opCtx(ctx)
		err := p.Ping(opCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s tier: %w", t.Name, err)
		}
	}
	return nil
}

func (c *Cache) get(ctx context.Context, t Tier, key string) ([]byte, bool) {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	got, err := t.Store.MGet(opCtx, []string{key})
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed; bypassing tier", "tier", t.Name, "err", err)
		observability.IncOverlayCache(t.Name, "error")
		return nil, false
	}
	v, ok := got[key]
	return v, ok
}

func (c *Cache) store(ctx context.Context, tiers []Tier, key string, val []byte) {
	for _, t := range tiers {
		opCtx, cancel := c.opCtx(ctx)
		err := t.Store.Set(opCtx, key, val, c.ttl)
		cancel()
		if err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "tier", t.Name, "err", err)
		}
	}
}

func (c *Cache) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opTimeout)
}
