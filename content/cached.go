package content

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CachedRepository serves Repository queries from a snapshot of a remote
// Source, refreshed at most once per TTL. Queries behave exactly like a
// static Catalog built from the snapshot.
type CachedRepository struct {
	mu      sync.RWMutex
	source  Source
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger

	snapshot *Catalog
	fetched  time.Time
	now      func() time.Time
}

var _ Repository = (*CachedRepository)(nil)

// NewCachedRepository creates a CachedRepository backed by source.
func NewCachedRepository(source Source, ttl time.Duration, log zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		source:  source,
		ttl:     ttl,
		timeout: 10 * time.Second,
		log:     log,
		now:     time.Now,
	}
}

func (r *CachedRepository) valid() bool {
	return r.snapshot != nil && r.now().Sub(r.fetched) < r.ttl
}

// Invalidate clears the freshness stamp so the next read triggers a reload.
// The previous snapshot keeps serving if the reload fails.
func (r *CachedRepository) Invalidate() {
	r.mu.Lock()
	r.fetched = time.Time{}
	r.mu.Unlock()
}

func (r *CachedRepository) load() {
	if r.valid() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	posts, err := r.source.AllPosts(ctx)
	if err == nil {
		var c *Catalog
		c, err = NewCatalog(posts)
		if err == nil {
			r.snapshot = c
			r.fetched = r.now()
			r.log.Debug().Int("posts", c.Len()).Msg("content snapshot refreshed")
			return
		}
	}
	r.log.Error().Err(err).Msg("content refresh failed")
	if r.snapshot == nil {
		r.snapshot, _ = NewCatalog(nil)
	}
	// Back off for a full TTL rather than hammering a failing source.
	r.fetched = r.now()
}

// current returns a fresh snapshot. It tries a read lock first and only takes
// the write lock if a reload is needed.
func (r *CachedRepository) current() *Catalog {
	r.mu.RLock()
	if r.valid() {
		c := r.snapshot
		r.mu.RUnlock()
		return c
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()
	return r.snapshot
}

// GetBySlug looks the slug up in the snapshot and, on a miss, asks the
// source directly when it supports single-post lookups.
func (r *CachedRepository) GetBySlug(slug string) (Post, bool) {
	if p, ok := r.current().GetBySlug(slug); ok {
		return p, true
	}
	ss, ok := r.source.(SlugSource)
	if !ok {
		return Post{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	p, found, err := ss.PostBySlug(ctx, slug)
	if err != nil {
		r.log.Warn().Err(err).Str("slug", slug).Msg("slug lookup failed")
		return Post{}, false
	}
	return p, found
}

func (r *CachedRepository) Latest(n int) []Post                { return r.current().Latest(n) }
func (r *CachedRepository) Featured() []Post                   { return r.current().Featured() }
func (r *CachedRepository) ByCategory(c Category) []Post       { return r.current().ByCategory(c) }
func (r *CachedRepository) Categories() []Category             { return r.current().Categories() }
func (r *CachedRepository) Tags() []string                     { return r.current().Tags() }
func (r *CachedRepository) Related(p Post, n int) []Post       { return r.current().Related(p, n) }
func (r *CachedRepository) Search(q string, c Category) []Post { return r.current().Search(q, c) }

// All returns the snapshot's posts in source order.
func (r *CachedRepository) All() []Post {
	return r.current().All()
}
