package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pders01/packpick/internal/models"
)

func testPacks() []models.Pack {
	return []models.Pack{
		{Name: "peon", DisplayName: "Orc Peon", Language: "en", Tags: []string{"warcraft", "orc"}},
		{Name: "pl_peon", DisplayName: "Peon (Polish)", Language: "pl"},
		{Name: "ru_peon", DisplayName: "Peon (Russian)", Language: "ru"},
		{Name: "glados", DisplayName: "GLaDOS", Description: "Portal's AI", Author: &models.Author{Name: "Aperture"}},
		{Name: "de_peasant", DisplayName: "Bauer", Language: "de", Tags: []string{"Warcraft"}},
	}
}

func names(packs []models.Pack) []string {
	return models.Names(packs)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		lang  string
		query string
		want  []string
	}{
		{name: "everything", lang: LanguageAll, query: "", want: []string{"peon", "pl_peon", "ru_peon", "glados", "de_peasant"}},
		{name: "empty language is all", lang: "", query: "", want: []string{"peon", "pl_peon", "ru_peon", "glados", "de_peasant"}},
		{name: "exact language", lang: "ru", query: "", want: []string{"ru_peon"}},
		{name: "other keeps order", lang: LanguageOther, query: "", want: []string{"pl_peon", "glados", "de_peasant"}},
		{name: "query on display name", lang: LanguageAll, query: "peon", want: []string{"peon", "pl_peon", "ru_peon"}},
		{name: "query is case insensitive", lang: LanguageAll, query: "WARCRAFT", want: []string{"peon", "de_peasant"}},
		{name: "query on description", lang: LanguageAll, query: "portal", want: []string{"glados"}},
		{name: "query on author", lang: LanguageAll, query: "aperture", want: []string{"glados"}},
		{name: "query trimmed", lang: LanguageAll, query: "  bauer ", want: []string{"de_peasant"}},
		{name: "language and query combine", lang: LanguageOther, query: "peon", want: []string{"pl_peon"}},
		{name: "no match", lang: "fr", query: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(testPacks(), tt.lang, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStateReset(t *testing.T) {
	s := State{Language: "ru", Query: "peon"}
	if got := names(s.Apply(testPacks())); len(got) != 1 {
		t.Errorf("expected 1 pack, got %v", got)
	}

	s.Reset()
	if s.Language != LanguageAll || s.Query != "" {
		t.Errorf("reset left state %+v", s)
	}
	if got := s.Apply(testPacks()); len(got) != 5 {
		t.Errorf("expected all packs after reset, got %d", len(got))
	}
}

func TestIsValidLanguage(t *testing.T) {
	for _, lang := range []string{"all", "other", "en", "pt-BR"} {
		if !IsValidLanguage(lang) {
			t.Errorf("expected %s to be valid", lang)
		}
	}
	if IsValidLanguage("pl") {
		t.Error("pl is not an offered filter")
	}
}

func TestOptions(t *testing.T) {
	var tags []string
	for _, l := range Options() {
		tags = append(tags, l.Tag)
	}

	want := []string{"all", "en", "ru", "es", "fr", "cs", "pt-BR", "other"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}
