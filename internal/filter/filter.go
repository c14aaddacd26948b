// Package filter narrows the registry view by language and free-text search.
package filter

import (
	"strings"

	"github.com/pders01/packpick/internal/models"
)

const (
	// LanguageAll disables language filtering
	LanguageAll = "all"
	// LanguageOther matches packs whose language is not a known one
	LanguageOther = "other"
)

// Language is a filterable language tag and its display label
type Language struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// KnownLanguages are the languages offered as individual filters
var KnownLanguages = []Language{
	{Tag: "en", Label: "English"},
	{Tag: "ru", Label: "Russian"},
	{Tag: "es", Label: "Spanish"},
	{Tag: "fr", Label: "French"},
	{Tag: "cs", Label: "Czech"},
	{Tag: "pt-BR", Label: "Portuguese (BR)"},
}

// Options returns every language filter in display order: all, the known
// languages, then other
func Options() []Language {
	opts := make([]Language, 0, len(KnownLanguages)+2)
	opts = append(opts, Language{Tag: LanguageAll, Label: "All"})
	opts = append(opts, KnownLanguages...)
	return append(opts, Language{Tag: LanguageOther, Label: "Other"})
}

// IsKnownLanguage reports whether tag is one of KnownLanguages
func IsKnownLanguage(tag string) bool {
	for _, l := range KnownLanguages {
		if l.Tag == tag {
			return true
		}
	}
	return false
}

// IsValidLanguage reports whether lang is accepted by Filter
func IsValidLanguage(lang string) bool {
	return lang == LanguageAll || lang == LanguageOther || IsKnownLanguage(lang)
}

// State is the volatile filter selection of a picker view
type State struct {
	Language string
	Query    string
}

// NewState returns a state that matches every pack
func NewState() State {
	return State{Language: LanguageAll}
}

// Reset clears the language and query
func (s *State) Reset() {
	*s = NewState()
}

// Apply filters packs with the state's language and query
func (s State) Apply(packs []models.Pack) []models.Pack {
	return Filter(packs, s.Language, s.Query)
}

// Filter returns the packs matching lang and query, in registry order.
// An empty lang behaves like LanguageAll.
func Filter(packs []models.Pack, lang, query string) []models.Pack {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Pack, 0, len(packs))
	for _, p := range packs {
		if !matchLanguage(p, lang) {
			continue
		}
		if query != "" && !strings.Contains(haystack(p), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchLanguage(p models.Pack, lang string) bool {
	switch lang {
	case "", LanguageAll:
		return true
	case LanguageOther:
		return !IsKnownLanguage(p.Language)
	default:
		return p.Language == lang
	}
}

func haystack(p models.Pack) string {
	fields := []string{p.DisplayName, p.Name, p.Description, p.AuthorName(), strings.Join(p.Tags, " ")}
	return strings.ToLower(strings.Join(fields, " "))
}
