package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestUnmarshal(t *testing.T) {
	data := `{
		"cesp_version": "1.0",
		"categories": {
			"session.start": {"sounds": [{"file": "sounds/ready.ogg", "label": "Ready to work?"}]},
			"task.complete": [{"file": "done.ogg"}],
			"empty": {"sounds": []},
			"bogus": "not a category",
			"input.required": [{"file": "what.ogg", "label": "What you want?"}]
		}
	}`

	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(data), &m))

	require.Len(t, m.Categories, 3)
	assert.Equal(t, "session.start", m.Categories[0].Name)
	assert.Equal(t, "task.complete", m.Categories[1].Name)
	assert.Equal(t, "input.required", m.Categories[2].Name)
	assert.Equal(t, "Ready to work?", m.Categories[0].Sounds[0].DisplayLabel())
	assert.Equal(t, "done.ogg", m.Categories[1].Sounds[0].DisplayLabel())
	assert.Equal(t, 3, m.SoundCount())
}

func TestManifestWithoutCategories(t *testing.T) {
	for _, data := range []string{`{}`, `{"categories": null}`, `{"categories": []}`} {
		var m Manifest
		require.NoError(t, json.Unmarshal([]byte(data), &m), data)
		assert.Empty(t, m.Categories, data)
	}
}

func TestManifestMarshalKeepsOrder(t *testing.T) {
	m := Manifest{Categories: []Category{
		{Name: "z", Sounds: []Sound{{File: "z.ogg"}}},
		{Name: "a", Sounds: []Sound{{File: "a.ogg", Label: "A"}}},
	}}

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories":{"z":[{"file":"z.ogg"}],"a":[{"file":"a.ogg","label":"A"}]}}`, string(out))

	var back Manifest
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, m, back)

	c, ok := back.Category("a")
	require.True(t, ok)
	assert.Equal(t, "A", c.Sounds[0].Label)
}
