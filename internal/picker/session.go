// Package picker keeps the pack selection, the shareable URL and the
// install command consistent with each other.
package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pders01/packpick/internal/audio"
	"github.com/pders01/packpick/internal/command"
	"github.com/pders01/packpick/internal/filter"
	"github.com/pders01/packpick/internal/fragment"
	"github.com/pders01/packpick/internal/loadstate"
	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/registry"
	"github.com/pders01/packpick/internal/selection"
)

var (
	// ErrAlreadyLoaded is returned by a second LoadRegistry call
	ErrAlreadyLoaded = registry.ErrAlreadyLoaded
	// ErrRegistryNotLoaded is returned by operations that need the registry
	ErrRegistryNotLoaded = errors.New("registry not loaded")
	// ErrUnknownPack is returned for identifiers missing from the registry
	ErrUnknownPack = errors.New("unknown pack")
)

// RegistryLoader fetches the registry pack list
type RegistryLoader = registry.Loader

// Options configures a Session. Manifests and Player are optional.
type Options struct {
	Registry  RegistryLoader
	Manifests *registry.ManifestCache
	Player    *audio.Player
	Location  *fragment.Location
	Mode      command.Mode
	Logger    *zap.Logger
}

// Session is one picker: a registry view, a selection and the URL that
// mirrors it.
type Session struct {
	loader    RegistryLoader
	manifests *registry.ManifestCache
	player    *audio.Player
	location  *fragment.Location
	logger    *zap.Logger

	store *selection.Store

	index registry.Index

	// mu also orders Restore against the end of LoadRegistry so a pending
	// fragment is never dropped
	mu       sync.Mutex
	pending  fragment.Decoded
	filter   filter.State
	mode     command.Mode
	expanded string
}

// New creates a session whose selection starts at the defaults
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := opts.Mode
	if mode == "" {
		mode = command.ModeCurl
	}

	s := &Session{
		loader:    opts.Registry,
		manifests: opts.Manifests,
		player:    opts.Player,
		location:  opts.Location,
		logger:    logger,
		store:     selection.NewStore(),
		filter:    filter.NewState(),
		mode:      mode,
	}
	s.store.Subscribe(s.publish)
	return s
}

// Restore decodes a shared fragment or URL. The result is applied when the
// registry arrives, since identifiers can only be validated against it.
func (s *Session) Restore(hash string) fragment.Decoded {
	d := fragment.Decode(hash)

	s.mu.Lock()
	_, ids, loaded := s.index.Snapshot()
	if !loaded {
		s.pending = d
	}
	s.mu.Unlock()

	if loaded {
		if sel, ok := d.Resolve(ids); ok {
			s.store.Replace(sel)
		}
	}
	return d
}

// LoadRegistry performs the session's single registry load and then
// resolves any pending fragment. On failure the selection stays at the
// defaults and the fallback command remains available.
func (s *Session) LoadRegistry(ctx context.Context) error {
	packs, err := s.index.Load(ctx, s.loader)
	if errors.Is(err, registry.ErrAlreadyLoaded) {
		return err
	}

	s.mu.Lock()
	pending := s.pending
	s.pending = fragment.Decoded{}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("registry load failed", zap.Error(err))
		return err
	}

	s.logger.Debug("registry loaded", zap.Int("packs", len(packs)), zap.Stringer("fragment", pending.Kind))

	_, ids, _ := s.index.Snapshot()
	if sel, ok := pending.Resolve(ids); ok {
		s.store.Replace(sel)
	} else {
		s.publish(s.store.Current())
	}
	return nil
}

// Registry returns the registry load state
func (s *Session) Registry() loadstate.State[[]models.Pack] {
	return s.index.State()
}

// Packs returns the loaded registry packs, or nil before a successful load
func (s *Session) Packs() []models.Pack {
	packs, _ := s.Registry().Value()
	return packs
}

// Pack looks up a registry pack by identifier
func (s *Session) Pack(name string) (models.Pack, error) {
	st := s.Registry()
	packs, ok := st.Value()
	if !ok {
		return models.Pack{}, ErrRegistryNotLoaded
	}
	p, ok := models.Find(packs, name)
	if !ok {
		return models.Pack{}, fmt.Errorf("%w: %s", ErrUnknownPack, name)
	}
	return p, nil
}

// Selection returns the current selection
func (s *Session) Selection() selection.Set {
	return s.store.Current()
}

// Toggle flips a registry pack in or out of the selection
func (s *Session) Toggle(name string) (selection.Set, error) {
	if _, err := s.Pack(name); err != nil {
		return s.Selection(), err
	}
	return s.store.Toggle(name), nil
}

// SelectAll selects every registry pack
func (s *Session) SelectAll() (selection.Set, error) {
	packs, ok := s.Registry().Value()
	if !ok {
		return s.Selection(), ErrRegistryNotLoaded
	}
	return s.store.SelectAll(models.Names(packs)), nil
}

// SelectNone clears the selection
func (s *Session) SelectNone() selection.Set {
	return s.store.SelectNone()
}

// SelectDefaults restores the default selection, registry or not
func (s *Session) SelectDefaults() selection.Set {
	return s.store.SelectDefaults()
}

// Mode returns the install mode used by Command
func (s *Session) Mode() command.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the install mode
func (s *Session) SetMode(m command.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// Command returns the install command for the current selection, or the
// plain command while the registry is unavailable
func (s *Session) Command() string {
	mode := s.Mode()
	_, ids, loaded := s.index.Snapshot()

	if !loaded {
		return command.Fallback(mode)
	}
	return command.Build(s.store.Current(), ids, selection.Defaults(), mode)
}

// Fragment returns the encoding of the current selection, or a cleared
// encoding while the registry is unavailable
func (s *Session) Fragment() fragment.Encoding {
	_, ids, loaded := s.index.Snapshot()

	if !loaded {
		return fragment.Encoding{Clear: true}
	}
	return fragment.Encode(s.store.Current(), ids)
}

// URL returns the shareable page address, or "" without a Location
func (s *Session) URL() string {
	if s.location == nil {
		return ""
	}
	return s.location.String()
}

// publish mirrors sel into the URL once the registry is known
func (s *Session) publish(sel selection.Set) {
	_, ids, loaded := s.index.Snapshot()

	if !loaded || s.location == nil {
		return
	}
	enc := fragment.Encode(sel, ids)
	s.location.Replace(enc)
	s.logger.Debug("fragment updated", zap.String("fragment", enc.Fragment()))
}
