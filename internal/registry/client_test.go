package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pders01/packpick/internal/models"
)

const registryJSON = `{
	"packs": [
		{"name": "peon", "display_name": "Orc Peon", "language": "en", "sound_count": 12,
		 "source_repo": "PeonPing/og-packs", "source_ref": "v1.0.0", "source_path": "peon",
		 "preview_sounds": ["ready.ogg"]},
		{"name": "glados", "display_name": "GLaDOS", "sound_count": 30,
		 "source_repo": "someone/glados", "source_ref": "main"}
	]
}`

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		timeout time.Duration
		wantURL string
	}{
		{name: "with custom url", url: "http://example.test/index.json", timeout: time.Second, wantURL: "http://example.test/index.json"},
		{name: "with default url", url: "", timeout: 0, wantURL: DefaultURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.url, tt.timeout)
			if client.URL() != tt.wantURL {
				t.Errorf("expected url %s, got %s", tt.wantURL, client.URL())
			}
			if client.client.Timeout <= 0 {
				t.Error("expected a positive timeout")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(registryJSON))
	}))
	defer server.Close()

	packs, err := NewClient(server.URL, time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}

	if len(packs) != 2 {
		t.Fatalf("expected 2 packs, got %d", len(packs))
	}
	if packs[0].Name != "peon" || packs[0].SourcePath != "peon" || packs[1].Name != "glados" {
		t.Errorf("unexpected packs: %+v", packs)
	}
}

func TestLoadWithoutPacksField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version": 2}`))
	}))
	defer server.Close()

	packs, err := NewClient(server.URL, time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if packs == nil || len(packs) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", packs)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"packs": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			packs, err := NewClient(server.URL, time.Second).Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if packs != nil {
				t.Errorf("expected no partial data, got %v", packs)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if _, err := NewClient(url, time.Second).Load(context.Background()); err == nil {
		t.Error("expected error for unreachable registry")
	}
}

func TestCountPacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "packs object", body: registryJSON, want: 2},
		{name: "bare array", body: `[{"name":"a"},{"name":"b"},{"name":"c"}]`, want: 3},
		{name: "keyed object", body: `{"a":{},"b":{}}`, want: 2},
		{name: "empty packs", body: `{"packs":[]}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountPacks([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	if _, err := CountPacks([]byte("nope")); err == nil {
		t.Error("expected error for invalid document")
	}
}

func TestCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(registryJSON))
	}))
	defer server.Close()

	n, err := NewClient(server.URL, time.Second).Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatCount(n) != "2+" {
		t.Errorf("expected 2+, got %s", FormatCount(n))
	}
}

func TestManifest(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"categories": {"session.start": [{"file": "ready.ogg", "label": "Ready"}]}}`))
	}))
	defer server.Close()

	pack := models.Pack{Name: "peon", SourceRepo: "PeonPing/og-packs", SourceRef: "v1", SourcePath: "peon"}

	client := NewClient(server.URL, time.Second)
	client.client.Transport = rewriteTransport(server.URL)

	m, err := client.Manifest(context.Background(), pack)
	if err != nil {
		t.Fatalf("failed to fetch manifest: %v", err)
	}

	if gotPath != "/PeonPing/og-packs/v1/peon/openpeon.json" {
		t.Errorf("unexpected manifest path %s", gotPath)
	}
	if len(m.Categories) != 1 || m.Categories[0].Sounds[0].Label != "Ready" {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

// rewriteTransport sends every request to target, keeping the path
func rewriteTransport(target string) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		r2 := r.Clone(r.Context())
		r2.URL.Scheme = "http"
		r2.URL.Host = strings.TrimPrefix(target, "http://")
		return http.DefaultTransport.RoundTrip(r2)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
