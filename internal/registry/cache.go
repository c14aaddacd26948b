package registry

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pders01/packpick/internal/loadstate"
	"github.com/pders01/packpick/internal/models"
)

// DefaultPrefetchWorkers bounds concurrent manifest fetches in Prefetch
const DefaultPrefetchWorkers = 4

// ManifestFetcher loads a single pack manifest
type ManifestFetcher interface {
	Manifest(ctx context.Context, pack models.Pack) (*models.Manifest, error)
}

// ManifestState is the load state of one pack's manifest
type ManifestState = loadstate.State[*models.Manifest]

// ManifestCache loads each pack manifest at most once. Concurrent requests
// for the same pack share a fetch, and a failed fetch is remembered rather
// than retried.
type ManifestCache struct {
	fetcher ManifestFetcher
	logger  *zap.Logger

	mu      sync.Mutex
	states  map[string]ManifestState
	onFetch func(pack string, err error)

	group singleflight.Group
}

// NewManifestCache creates an empty cache backed by fetcher
func NewManifestCache(fetcher ManifestFetcher, logger *zap.Logger) *ManifestCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestCache{
		fetcher: fetcher,
		logger:  logger,
		states:  make(map[string]ManifestState),
	}
}

// OnFetch registers a hook called after every network fetch
func (c *ManifestCache) OnFetch(fn func(pack string, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFetch = fn
}

// State returns the current state for a pack without loading it
func (c *ManifestCache) State(name string) ManifestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[name]
}

// Load returns the settled manifest state for pack, fetching on first use
func (c *ManifestCache) Load(ctx context.Context, pack models.Pack) ManifestState {
	c.mu.Lock()
	if st, ok := c.states[pack.Name]; ok && st.Settled() {
		c.mu.Unlock()
		return st
	}
	c.states[pack.Name] = loadstate.Loading[*models.Manifest]()
	c.mu.Unlock()

	// The fetch is shared between callers, so one caller going away must not cancel it.
	fetchCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(pack.Name, func() (any, error) {
		c.mu.Lock()
		if st := c.states[pack.Name]; st.Settled() {
			c.mu.Unlock()
			return st, nil
		}
		c.mu.Unlock()

		manifest, err := c.fetcher.Manifest(fetchCtx, pack)

		var st ManifestState
		if err != nil {
			c.logger.Debug("manifest fetch failed", zap.String("pack", pack.Name), zap.Error(err))
			st = loadstate.Failed[*models.Manifest](err)
		} else {
			c.logger.Debug("manifest loaded",
				zap.String("pack", pack.Name),
				zap.Int("categories", len(manifest.Categories)))
			st = loadstate.Loaded(manifest)
		}

		c.mu.Lock()
		c.states[pack.Name] = st
		hook := c.onFetch
		c.mu.Unlock()

		if hook != nil {
			hook(pack.Name, err)
		}
		return st, nil
	})

	return v.(ManifestState)
}

// Prefetch loads the manifests of packs concurrently with at most workers
// fetches in flight. Individual failures are recorded in the cache; only
// context cancellation is returned.
func (c *ManifestCache) Prefetch(ctx context.Context, packs []models.Pack, workers int) error {
	if workers <= 0 {
		workers = DefaultPrefetchWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range packs {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.Load(gctx, p)
			return nil
		})
	}

	return g.Wait()
}
