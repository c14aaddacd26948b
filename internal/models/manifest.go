package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Sound is a single playable file listed in a pack manifest
type Sound struct {
	File  string `json:"file"`
	Label string `json:"label,omitempty"`
}

// DisplayLabel returns the label, falling back to the file path
func (s Sound) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.File
}

// Category groups manifest sounds under a name such as "session.start"
type Category struct {
	Name   string
	Sounds []Sound
}

// Manifest represents a pack's openpeon.json.
//
// Categories keep the order of the source document. A category value may be
// either a bare list of sounds or an object with a "sounds" list; anything
// else, and any category without sounds, is skipped.
type Manifest struct {
	Categories []Category
}

// Category returns the named category
func (m *Manifest) Category(name string) (Category, bool) {
	for _, c := range m.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// SoundCount returns the number of sounds across all categories
func (m *Manifest) SoundCount() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Sounds)
	}
	return n
}

// UnmarshalJSON decodes the categories object in document order
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Categories = nil
	if len(raw.Categories) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Categories))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// null, or not an object at all
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read category name: %w", err)
		}
		name, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to read category %q: %w", name, err)
		}

		sounds := decodeCategorySounds(value)
		if len(sounds) == 0 {
			continue
		}
		m.Categories = append(m.Categories, Category{Name: name, Sounds: sounds})
	}

	return nil
}

// MarshalJSON writes categories back as an ordered object of sound lists
func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"categories":{`)
	for i, c := range m.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		sounds, err := json.Marshal(c.Sounds)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(sounds)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func decodeCategorySounds(raw json.RawMessage) []Sound {
	var list []Sound
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapped struct {
		Sounds []Sound `json:"sounds"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Sounds
	}

	return nil
}
