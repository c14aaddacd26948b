package models

import (
	"strings"
)

// RawContentHost serves pack files straight from their source repositories
const RawContentHost = "https://raw.githubusercontent.com/"

// Author identifies who published a pack
type Author struct {
	Name string `json:"name,omitempty"`
}

// Pack represents a single entry of the registry index
type Pack struct {
	Name          string   `json:"name"`
	DisplayName   string   `json:"display_name"`
	Description   string   `json:"description,omitempty"`
	Language      string   `json:"language,omitempty"`
	SoundCount    int      `json:"sound_count"`
	SourceRepo    string   `json:"source_repo"`
	SourceRef     string   `json:"source_ref"`
	SourcePath    string   `json:"source_path,omitempty"`
	PreviewSounds []string `json:"preview_sounds,omitempty"`
	Author        *Author  `json:"author,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Registry is the index.json document served by the registry
type Registry struct {
	Packs []Pack `json:"packs"`
}

// BaseURL returns the raw content root of the pack, with a trailing slash
// Format: https://raw.githubusercontent.com/<repo>/<ref>/<path>/
func (p Pack) BaseURL() string {
	var b strings.Builder
	b.WriteString(RawContentHost)
	b.WriteString(p.SourceRepo)
	b.WriteString("/")
	b.WriteString(p.SourceRef)
	b.WriteString("/")
	if p.SourcePath != "" {
		b.WriteString(p.SourcePath)
		b.WriteString("/")
	}
	return b.String()
}

// ManifestURL returns the location of the pack's openpeon.json
func (p Pack) ManifestURL() string {
	return p.BaseURL() + "openpeon.json"
}

// SoundURL resolves a manifest file entry against the pack root
func (p Pack) SoundURL(file string) string {
	if strings.HasPrefix(file, "sounds/") {
		return p.BaseURL() + file
	}
	return p.BaseURL() + "sounds/" + file
}

// PreviewURL returns the URL of the first preview sound, or "" when the pack has none
func (p Pack) PreviewURL() string {
	if len(p.PreviewSounds) == 0 {
		return ""
	}
	return p.BaseURL() + "sounds/" + p.PreviewSounds[0]
}

// AuthorName returns the author's name or "" when unknown
func (p Pack) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.Name
}

// LanguageLabel returns the upper-cased language tag, EN when absent
func (p Pack) LanguageLabel() string {
	if p.Language == "" {
		return "EN"
	}
	return strings.ToUpper(p.Language)
}

// Names returns the identifiers of packs in registry order
func Names(packs []Pack) []string {
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// Find returns the pack with the given identifier
func Find(packs []Pack, name string) (Pack, bool) {
	for _, p := range packs {
		if p.Name == name {
			return p, true
		}
	}
	return Pack{}, false
}
