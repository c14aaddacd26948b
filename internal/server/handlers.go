package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pders01/packpick/internal/command"
	"github.com/pders01/packpick/internal/filter"
	"github.com/pders01/packpick/internal/fragment"
	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/picker"
	"github.com/pders01/packpick/internal/registry"
	"github.com/pders01/packpick/internal/selection"
)

type packsResponse struct {
	Packs    []picker.Card `json:"packs"`
	Total    int           `json:"total"`
	Language string        `json:"language"`
	Query    string        `json:"query"`
}

type commandResponse struct {
	Command  string   `json:"command"`
	Mode     string   `json:"mode"`
	Fragment string   `json:"fragment"`
	Selected []string `json:"selected"`
	Fallback bool     `json:"fallback,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.loaded() {
		status = "degraded"
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handlePacks(w http.ResponseWriter, r *http.Request) {
	if !s.loaded() {
		s.writeError(w, r, http.StatusServiceUnavailable, "registry unavailable")
		return
	}
	packs, ids := s.snapshot()

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = filter.LanguageAll
	}
	if !filter.IsValidLanguage(lang) {
		s.writeError(w, r, http.StatusBadRequest, "invalid language filter")
		return
	}
	query := r.URL.Query().Get("q")

	sel := selectionParam(r, ids)
	visible := filter.Filter(packs, lang, query)

	cards := make([]picker.Card, len(visible))
	for i, p := range visible {
		cards[i] = picker.Card{
			Pack:     p,
			Selected: sel.Has(p.Name),
			Default:  selection.IsDefault(p.Name),
		}
	}

	s.writeJSON(w, r, http.StatusOK, packsResponse{
		Packs:    cards,
		Total:    len(packs),
		Language: lang,
		Query:    query,
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	mode := s.mode
	if m := r.URL.Query().Get("mode"); m != "" {
		parsed, err := command.ParseMode(m)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		mode = parsed
	}

	if !s.loaded() {
		s.writeJSON(w, r, http.StatusOK, commandResponse{
			Command:  command.Fallback(mode),
			Mode:     string(mode),
			Selected: []string{},
			Fallback: true,
		})
		return
	}

	_, ids := s.snapshot()
	sel := selectionParam(r, ids)

	s.writeJSON(w, r, http.StatusOK, commandResponse{
		Command:  command.Build(sel, ids, selection.Defaults(), mode),
		Mode:     string(mode),
		Fragment: fragment.Encode(sel, ids).Fragment(),
		Selected: sel.Sorted(),
	})
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	if !s.loaded() {
		s.writeError(w, r, http.StatusServiceUnavailable, "registry unavailable")
		return
	}
	packs, _ := s.snapshot()

	pack, ok := models.Find(packs, chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "unknown pack")
		return
	}

	if s.manifests == nil {
		s.writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "loading"})
		return
	}

	st := s.manifests.Load(r.Context(), pack)
	m, ok := st.Value()
	if !ok {
		s.writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "loading"})
		return
	}
	s.writeJSON(w, r, http.StatusOK, m)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if !s.loaded() {
		s.writeError(w, r, http.StatusServiceUnavailable, "registry unavailable")
		return
	}
	packs, _ := s.snapshot()
	s.writeJSON(w, r, http.StatusOK, map[string]string{"count": registry.FormatCount(len(packs))})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, filter.Options())
}
