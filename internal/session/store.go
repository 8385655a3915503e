package session

import (
	"context"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default lifetime of session entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired entries are removed
const DefaultCleanupInterval = 1 * time.Hour

// Session key prefixes. One namespace per kind of transient value.
const (
	PrefixActiveInvoice = "active_invoice:v1:"
	PrefixDraft         = "draft:v1:"
	PrefixDocument      = "document:v1:"
)

// Store is the transient session-scoped key-value slot. It holds the
// currently active invoice, entered drafts and produced documents awaiting
// delivery retry. The pipeline treats it purely as an injected initial
// value and an output sink; lifecycle management lives with the caller.
type Store interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any, expiration time.Duration)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
}

// InMemoryStore implements Store using github.com/patrickmn/go-cache
type InMemoryStore struct {
	cache *goCache.Cache
}

func NewInMemoryStore() Store {
	return &InMemoryStore{
		cache: goCache.New(DefaultExpiration, DefaultCleanupInterval),
	}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (any, bool) {
	return s.cache.Get(key)
}

func (s *InMemoryStore) Set(_ context.Context, key string, value any, expiration time.Duration) {
	s.cache.Set(key, value, expiration)
}

func (s *InMemoryStore) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}

func (s *InMemoryStore) Flush(_ context.Context) {
	s.cache.Flush()
}
