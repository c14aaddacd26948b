package picker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pders01/packpick/internal/audio"
	"github.com/pders01/packpick/internal/filter"
	"github.com/pders01/packpick/internal/loadstate"
	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/registry"
	"github.com/pders01/packpick/internal/selection"
)

const (
	previewScope = "preview"
	expandScope  = "expand"

	// LoadingSoundsText is shown while an expanded pack has no manifest
	LoadingSoundsText = "Loading sounds..."
)

// Card is a registry pack as shown in the picker grid
type Card struct {
	models.Pack
	Selected bool `json:"selected"`
	Default  bool `json:"default"`
	Expanded bool `json:"expanded"`
}

// Expansion is the expanded pack and its manifest load state
type Expansion struct {
	Pack     models.Pack
	Manifest registry.ManifestState
}

// Placeholder returns the text to show instead of sounds, or "" when the
// manifest is available. A failed load keeps the loading placeholder.
func (e Expansion) Placeholder() string {
	if e.Manifest.IsLoaded() {
		return ""
	}
	return LoadingSoundsText
}

// Filter returns the current filter state
func (s *Session) Filter() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter updates the language and query. The expanded pack collapses
// when it is no longer visible.
func (s *Session) SetFilter(lang, query string) error {
	if lang == "" {
		lang = filter.LanguageAll
	}
	if !filter.IsValidLanguage(lang) {
		return fmt.Errorf("invalid language filter %q", lang)
	}

	s.mu.Lock()
	s.filter = filter.State{Language: lang, Query: query}
	s.mu.Unlock()

	s.collapseIfHidden()
	return nil
}

// ResetFilter shows every pack again
func (s *Session) ResetFilter() {
	s.mu.Lock()
	s.filter.Reset()
	s.mu.Unlock()
}

// Visible returns the registry packs passing the current filter, in registry order
func (s *Session) Visible() []models.Pack {
	f := s.Filter()
	return f.Apply(s.Packs())
}

// Cards returns the visible packs annotated with selection state
func (s *Session) Cards() []Card {
	sel := s.Selection()

	s.mu.Lock()
	expanded := s.expanded
	s.mu.Unlock()

	visible := s.Visible()
	cards := make([]Card, len(visible))
	for i, p := range visible {
		cards[i] = Card{
			Pack:     p,
			Selected: sel.Has(p.Name),
			Default:  selection.IsDefault(p.Name),
			Expanded: p.Name == expanded,
		}
	}
	return cards
}

// Expand toggles expansion of a pack. Expanding loads its manifest once;
// collapsing returns false.
func (s *Session) Expand(ctx context.Context, name string) (Expansion, bool, error) {
	pack, err := s.Pack(name)
	if err != nil {
		return Expansion{}, false, err
	}

	s.stopExpandAudio()

	s.mu.Lock()
	if s.expanded == name {
		s.expanded = ""
		s.mu.Unlock()
		return Expansion{}, false, nil
	}
	s.expanded = name
	s.mu.Unlock()

	st := loadstate.Idle[*models.Manifest]()
	if s.manifests != nil {
		st = s.manifests.Load(ctx, pack)
	}
	return Expansion{Pack: pack, Manifest: st}, true, nil
}

// Expanded returns the currently expanded pack, if any
func (s *Session) Expanded() (Expansion, bool) {
	s.mu.Lock()
	name := s.expanded
	s.mu.Unlock()

	if name == "" {
		return Expansion{}, false
	}
	pack, err := s.Pack(name)
	if err != nil {
		return Expansion{}, false
	}

	var st registry.ManifestState
	if s.manifests != nil {
		st = s.manifests.State(name)
	}
	return Expansion{Pack: pack, Manifest: st}, true
}

// Collapse closes the expanded pack and stops its sounds
func (s *Session) Collapse() {
	s.stopExpandAudio()
	s.mu.Lock()
	s.expanded = ""
	s.mu.Unlock()
}

// Preview plays the first preview sound of a pack. It reports false when
// nothing started, including packs without previews.
func (s *Session) Preview(ctx context.Context, name string) (bool, error) {
	pack, err := s.Pack(name)
	if err != nil {
		return false, err
	}
	src := pack.PreviewURL()
	if src == "" || s.player == nil {
		return false, nil
	}
	return s.player.Play(ctx, audio.Key(previewScope, name), src), nil
}

// PlaySound plays sound index of a manifest category of an expanded pack
func (s *Session) PlaySound(ctx context.Context, name, category string, index int) (bool, error) {
	pack, err := s.Pack(name)
	if err != nil {
		return false, err
	}
	if s.manifests == nil {
		return false, fmt.Errorf("no manifest for %s", name)
	}

	m, ok := s.manifests.State(name).Value()
	if !ok {
		return false, fmt.Errorf("manifest for %s not loaded", name)
	}
	cat, ok := m.Category(category)
	if !ok {
		return false, fmt.Errorf("pack %s has no category %q", name, category)
	}
	if index < 0 || index >= len(cat.Sounds) {
		return false, fmt.Errorf("category %q has no sound %d", category, index)
	}

	if s.player == nil {
		return false, nil
	}
	key := audio.Key(expandScope, name, category, strconv.Itoa(index))
	return s.player.Play(ctx, key, pack.SoundURL(cat.Sounds[index].File)), nil
}

// StopAudio stops whatever the session is playing
func (s *Session) StopAudio() {
	if s.player != nil {
		s.player.Stop()
	}
}

func (s *Session) stopExpandAudio() {
	if s.player != nil {
		s.player.StopScope(expandScope)
	}
}

func (s *Session) collapseIfHidden() {
	s.mu.Lock()
	name := s.expanded
	s.mu.Unlock()
	if name == "" {
		return
	}

	for _, p := range s.Visible() {
		if p.Name == name {
			return
		}
	}
	s.Collapse()
}
