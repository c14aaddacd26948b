// Package registry reads the pack registry index and per-pack manifests.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pders01/packpick/internal/models"
)

const (
	// DefaultURL is the published registry index
	DefaultURL = "https://peonping.github.io/registry/index.json"
	// DefaultTimeout bounds a single registry or manifest request
	DefaultTimeout = 15 * time.Second

	userAgent = "packpick"
	// maxBodySize caps registry and manifest documents
	maxBodySize = 8 << 20
)

// ErrUnexpectedStatus is returned for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client fetches the registry index and pack manifests
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a registry client. Empty url and zero timeout use the defaults.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the registry index location
func (c *Client) URL() string {
	return c.url
}

// Load fetches and decodes the registry. A document without "packs" yields
// an empty list.
func (c *Client) Load(ctx context.Context) ([]models.Pack, error) {
	body, err := c.get(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry: %w", err)
	}

	var reg models.Registry
	if err := json.Unmarshal(body, &reg); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	if reg.Packs == nil {
		return []models.Pack{}, nil
	}
	return reg.Packs, nil
}

// Count fetches the registry and counts its packs. It accepts a bare array,
// an object with "packs", or any other object (its keys are counted).
func (c *Client) Count(ctx context.Context) (int, error) {
	body, err := c.get(ctx, c.url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch registry: %w", err)
	}
	return CountPacks(body)
}

// CountPacks counts the packs in a registry document of any supported shape
func CountPacks(body []byte) (int, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return len(list), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, fmt.Errorf("failed to decode registry: %w", err)
	}

	if raw, ok := obj["packs"]; ok {
		var packs []json.RawMessage
		if err := json.Unmarshal(raw, &packs); err == nil && packs != nil {
			return len(packs), nil
		}
	}
	return len(obj), nil
}

// FormatCount renders a pack count for display, e.g. "42+"
func FormatCount(n int) string {
	return strconv.Itoa(n) + "+"
}

// Manifest fetches and decodes the openpeon.json of pack
func (c *Client) Manifest(ctx context.Context, pack models.Pack) (*models.Manifest, error) {
	body, err := c.get(ctx, pack.ManifestURL())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest for %s: %w", pack.Name, err)
	}

	var m models.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest for %s: %w", pack.Name, err)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
