package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"

	"github.com/pders01/packpick/internal/config"
	"github.com/pders01/packpick/internal/models"
)

// RegistryServer serves a registry index over HTTP for testing
type RegistryServer struct {
	URL string
	T   *testing.T

	server *httptest.Server
	hits   atomic.Int64
}

// NewRegistryServer starts a server answering every request with the
// registry document for packs
func NewRegistryServer(t *testing.T, packs []models.Pack) *RegistryServer {
	t.Helper()

	body, err := json.Marshal(models.Registry{Packs: packs})
	if err != nil {
		t.Fatalf("failed to encode registry: %v", err)
	}

	r := &RegistryServer{T: t}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	r.URL = r.server.URL
	return r
}

// NewFailingRegistryServer starts a server that answers every request with status
func NewFailingRegistryServer(t *testing.T, status int) *RegistryServer {
	t.Helper()

	r := &RegistryServer{T: t}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		http.Error(w, http.StatusText(status), status)
	}))
	r.URL = r.server.URL
	return r
}

// Hits returns how many requests the server received
func (r *RegistryServer) Hits() int {
	return int(r.hits.Load())
}

// Cleanup stops the server
func (r *RegistryServer) Cleanup() {
	r.T.Helper()
	r.server.Close()
}

// UseConfig resets viper to the defaults with the registry pointed at url.
// The previous settings are restored when the test ends.
func UseConfig(t *testing.T, url string) {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	viper.Set("registry.url", url)
	viper.Set("registry.timeout", "2s")

	t.Cleanup(viper.Reset)
}

// Packs returns a small registry covering the default packs and a few
// languages
func Packs() []models.Pack {
	return []models.Pack{
		{Name: "peon", DisplayName: "Orc Peon", Language: "en", SoundCount: 12, SourceRepo: "PeonPing/og-packs", SourceRef: "v1", SourcePath: "peon", PreviewSounds: []string{"ready.wav"}, Author: &models.Author{Name: "Blizzard"}, Tags: []string{"warcraft"}},
		{Name: "glados", DisplayName: "GLaDOS", Language: "en", SoundCount: 20, SourceRepo: "PeonPing/og-packs", SourceRef: "v1", SourcePath: "glados", Tags: []string{"portal"}},
		{Name: "sc_kerrigan", DisplayName: "Kerrigan", Language: "en", SoundCount: 9, SourceRepo: "PeonPing/og-packs", SourceRef: "v1", SourcePath: "sc_kerrigan"},
		{Name: "ru_peon", DisplayName: "Peon (Russian)", Language: "ru", SoundCount: 11, SourceRepo: "someone/ru-peon", SourceRef: "main"},
		{Name: "de_peon", DisplayName: "Peon (German)", Language: "de", SoundCount: 10, SourceRepo: "someone/de-peon", SourceRef: "main"},
	}
}
