package duckdb

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/gene-annot/internal/mygene"
)

// Remote is the upstream lookup a CachedLookup falls back to.
type Remote interface {
	QueryMany(ctx context.Context, terms []string, opts mygene.Options) ([]mygene.Hit, error)
}

// CachedLookup answers queries from the store and sends only the misses
// to the remote service, storing what it returns.
type CachedLookup struct {
	store  *Store
	remote Remote
	maxAge time.Duration
	logger *zap.Logger
}

// NewCachedLookup creates a read-through lookup over store and remote.
func NewCachedLookup(store *Store, remote Remote) *CachedLookup {
	return &CachedLookup{
		store:  store,
		remote: remote,
		logger: zap.NewNop(),
	}
}

// SetMaxAge sets how old a cached hit may be before it is re-fetched.
// Zero means cached hits never expire.
func (c *CachedLookup) SetMaxAge(d time.Duration) {
	c.maxAge = d
}

// SetLogger sets the logger for warning and debug messages.
func (c *CachedLookup) SetLogger(l *zap.Logger) {
	c.logger = l
}

// QueryMany returns one hit per term, in term order.
func (c *CachedLookup) QueryMany(ctx context.Context, terms []string, opts mygene.Options) ([]mygene.Hit, error) {
	cached, err := c.store.LookupHits(opts, terms, c.maxAge)
	if err != nil {
		c.logger.Warn("hit cache lookup failed, querying remote", zap.Error(err))
		cached = nil
	}

	hits := make(map[string]mygene.Hit, len(terms))
	for q, ch := range cached {
		hits[q] = ch.Hit
	}

	var misses []string
	for _, t := range terms {
		if _, ok := hits[t]; ok {
			continue
		}
		misses = append(misses, t)
	}
	c.logger.Debug("hit cache",
		zap.Int("cached", len(terms)-len(misses)),
		zap.Int("misses", len(misses)))

	if len(misses) > 0 {
		fetched, err := c.remote.QueryMany(ctx, misses, opts)
		if err != nil {
			return nil, err
		}
		if err := c.store.WriteHits(opts, fetched); err != nil {
			c.logger.Warn("could not write hit cache", zap.Error(err))
		}
		for _, h := range fetched {
			if _, ok := hits[h.Query]; !ok {
				hits[h.Query] = h
			}
		}
	}

	out := make([]mygene.Hit, len(terms))
	for i, t := range terms {
		h, ok := hits[t]
		if !ok {
			h = mygene.Hit{Query: t, NotFound: true}
		}
		out[i] = h
	}
	return out, nil
}
