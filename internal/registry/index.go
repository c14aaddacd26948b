package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pders01/packpick/internal/loadstate"
	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/selection"
)

// ErrAlreadyLoaded is returned by a second Index.Load
var ErrAlreadyLoaded = errors.New("registry already loaded")

// Loader fetches the registry pack list
type Loader interface {
	Load(ctx context.Context) ([]models.Pack, error)
}

// Index holds the result of the single registry load made by a session or
// server. The zero value is Idle and ready to use.
type Index struct {
	mu    sync.RWMutex
	state loadstate.State[[]models.Pack]
	ids   selection.Set
}

// Load runs loader the first time it is called and records the outcome.
// Every later call returns ErrAlreadyLoaded without fetching, even after a
// failure.
func (x *Index) Load(ctx context.Context, loader Loader) ([]models.Pack, error) {
	x.mu.Lock()
	if x.state.Status() != loadstate.StatusIdle {
		x.mu.Unlock()
		return nil, ErrAlreadyLoaded
	}
	x.state = loadstate.Loading[[]models.Pack]()
	x.mu.Unlock()

	packs, err := loader.Load(ctx)

	x.mu.Lock()
	defer x.mu.Unlock()
	if err != nil {
		x.state = loadstate.Failed[[]models.Pack](err)
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	x.state = loadstate.Loaded(packs)
	x.ids = selection.NewSet(models.Names(packs)...)
	return packs, nil
}

// State returns the load state
func (x *Index) State() loadstate.State[[]models.Pack] {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.state
}

// Snapshot returns the packs and their identifier set, and whether the
// registry is loaded
func (x *Index) Snapshot() ([]models.Pack, selection.Set, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	packs, ok := x.state.Value()
	return packs, x.ids, ok
}
