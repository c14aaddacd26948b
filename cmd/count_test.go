package cmd

import (
	"net/http"
	"testing"

	"github.com/pders01/packpick/internal/testutil"
)

func TestCount(t *testing.T) {
	srv := testutil.NewRegistryServer(t, testutil.Packs())
	defer srv.Cleanup()
	testutil.UseConfig(t, srv.URL)

	c, out := newTestCommand(t)
	if err := runCount(c, nil); err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if got := out.String(); got != "5+ packs\n" {
		t.Errorf("expected %q, got %q", "5+ packs\n", got)
	}
}

func TestCountRegistryFailure(t *testing.T) {
	srv := testutil.NewFailingRegistryServer(t, http.StatusServiceUnavailable)
	defer srv.Cleanup()
	testutil.UseConfig(t, srv.URL)

	c, out := newTestCommand(t)
	if err := runCount(c, nil); err == nil {
		t.Error("expected error when the registry is down")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
