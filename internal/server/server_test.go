package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/picker"
	"github.com/pders01/packpick/internal/registry"
)

const curlBase = "curl -fsSL https://raw.githubusercontent.com/PeonPing/peon-ping/main/install.sh | bash"

type stubLoader struct {
	packs []models.Pack
	err   error
}

func (l stubLoader) Load(ctx context.Context) ([]models.Pack, error) {
	return l.packs, l.err
}

type stubManifests struct{}

func (stubManifests) Manifest(ctx context.Context, pack models.Pack) (*models.Manifest, error) {
	if pack.Name == "broken" {
		return nil, errors.New("404")
	}
	return &models.Manifest{Categories: []models.Category{
		{Name: "session.start", Sounds: []models.Sound{{File: "ready.ogg", Label: "Ready"}}},
	}}, nil
}

func testPacks() []models.Pack {
	return []models.Pack{
		{Name: "peon", DisplayName: "Orc Peon", Language: "en"},
		{Name: "glados", DisplayName: "GLaDOS", Language: "en"},
		{Name: "ru_peon", DisplayName: "Peon (Russian)", Language: "ru"},
		{Name: "broken", DisplayName: "Broken", Language: "xx"},
	}
}

func newTestServer(t *testing.T, loader picker.RegistryLoader) *Server {
	t.Helper()
	s := New(Config{
		Registry:  loader,
		Manifests: registry.NewManifestCache(stubManifests{}, nil),
	})
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLoadRegistryOnce(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))
	assert.ErrorIs(t, s.LoadRegistry(context.Background()), picker.ErrAlreadyLoaded)
}

func TestHandlePacks(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))

	rec := get(t, s.Handler(), "/api/packs?lang=other")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[packsResponse](t, rec)
	require.Len(t, resp.Packs, 1)
	assert.Equal(t, "broken", resp.Packs[0].Name)
	assert.Equal(t, 4, resp.Total)

	rec = get(t, s.Handler(), "/api/packs?q=peon&packs=ru_peon")
	resp = decode[packsResponse](t, rec)
	require.Len(t, resp.Packs, 2)
	assert.False(t, resp.Packs[0].Selected)
	assert.True(t, resp.Packs[0].Default)
	assert.True(t, resp.Packs[1].Selected)

	rec = get(t, s.Handler(), "/api/packs?lang=klingon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCommand(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))

	tests := []struct {
		name         string
		target       string
		wantCommand  string
		wantFragment string
	}{
		{name: "defaults", target: "/api/command", wantCommand: curlBase, wantFragment: ""},
		{name: "none", target: "/api/command?packs=none", wantCommand: curlBase, wantFragment: "#packs=none"},
		{name: "all", target: "/api/command?packs=all&mode=brew", wantCommand: "brew install PeonPing/tap/peon-ping && peon-ping-setup --all", wantFragment: "#packs=all"},
		{name: "partial drops unknown", target: "/api/command?packs=peon,gibberish,glados", wantCommand: curlBase + " -s -- --packs=glados,peon", wantFragment: "#packs=glados,peon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s.Handler(), tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[commandResponse](t, rec)
			assert.Equal(t, tt.wantCommand, resp.Command)
			assert.Equal(t, tt.wantFragment, resp.Fragment)
			assert.False(t, resp.Fallback)
		})
	}

	rec := get(t, s.Handler(), "/api/command?mode=npm")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFallbackWhenRegistryFails(t *testing.T) {
	s := newTestServer(t, stubLoader{err: errors.New("offline")})
	require.Error(t, s.LoadRegistry(context.Background()))

	rec := get(t, s.Handler(), "/api/command?packs=peon")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[commandResponse](t, rec)
	assert.Equal(t, curlBase, resp.Command)
	assert.True(t, resp.Fallback)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s.Handler(), "/api/packs").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s.Handler(), "/api/count").Code)

	health := decode[map[string]string](t, get(t, s.Handler(), "/healthz"))
	assert.Equal(t, "degraded", health["status"])
}

func TestHandleManifest(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))

	rec := get(t, s.Handler(), "/api/packs/peon/manifest")
	require.Equal(t, http.StatusOK, rec.Code)
	var m models.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Len(t, m.Categories, 1)
	assert.Equal(t, "Ready", m.Categories[0].Sounds[0].Label)

	rec = get(t, s.Handler(), "/api/packs/broken/manifest")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = get(t, s.Handler(), "/api/packs/nope/manifest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCountAndLanguages(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))

	count := decode[map[string]string](t, get(t, s.Handler(), "/api/count"))
	assert.Equal(t, "4+", count["count"])

	langs := decode[[]map[string]string](t, get(t, s.Handler(), "/api/languages"))
	require.Len(t, langs, 8)
	assert.Equal(t, "all", langs[0]["tag"])
	assert.Equal(t, "pt-BR", langs[6]["tag"])
	assert.Equal(t, "other", langs[7]["tag"])
}

func TestPrefetchDefaults(t *testing.T) {
	cache := registry.NewManifestCache(stubManifests{}, nil)
	s := New(Config{Registry: stubLoader{packs: testPacks()}, Manifests: cache})
	require.NoError(t, s.LoadRegistry(context.Background()))

	require.NoError(t, s.PrefetchDefaults(context.Background()))
	assert.True(t, cache.State("peon").IsLoaded())
	assert.True(t, cache.State("glados").IsLoaded())
	assert.False(t, cache.State("ru_peon").Settled(), "non-default packs are not prefetched")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	require.NoError(t, s.LoadRegistry(context.Background()))

	get(t, s.Handler(), "/api/command")
	get(t, s.Handler(), "/api/packs/peon/manifest")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `packpick_http_requests_total{route="/api/command",status="200"} 1`), text)
	assert.True(t, strings.Contains(text, `packpick_manifest_fetches_total{result="ok"} 1`), text)
	assert.True(t, strings.Contains(text, "packpick_registry_packs 4"), text)
}

func TestRecoveredPanicIsCounted(t *testing.T) {
	s := newTestServer(t, stubLoader{packs: testPacks()})
	s.router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := get(t, s.Handler(), "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	text := get(t, s.Handler(), "/metrics").Body.String()
	assert.Contains(t, text, `packpick_http_requests_total{route="/boom",status="500"} 1`)
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(Config{Registry: stubLoader{}, Logger: zap.New(core)})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	s.writeJSON(rec, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	entries := logs.FilterMessage("failed to write response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/packs", entries[0].ContextMap()["path"])
}
