// Package memstore is the in-process overlay cache tier, an expiring LRU.
package memstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mohammed-shakir/digipin/internal/cache"
)

const defaultSize = 1024

type entry struct {
	val     []byte
	expires time.Time
}

// Store bounds both entry count and age. The LRU evicts after maxTTL; a Set
// with a shorter ttl is honoured per entry on read.
type Store struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

var _ cache.Interface = (*Store)(nil)

func New(size int, maxTTL time.Duration) *Store {
	if size <= 0 {
		size = defaultSize
	}
	return &Store{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (s *Store) MGet(_ context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	now := s.now()
	for _, k := range keys {
		e, ok := s.lru.Get(k)
		if !ok {
			continue
		}
		if !e.expires.IsZero() && !now.Before(e.expires) {
			s.lru.Remove(k)
			continue
		}
		out[k] = e.val
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: val}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.lru.Add(key, e)
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}

func (s *Store) Len() int { return s.lru.Len() }
