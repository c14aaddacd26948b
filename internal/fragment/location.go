package fragment

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Location is the page address whose fragment mirrors the selection.
// Updates replace the current URL in place; no history is kept.
type Location struct {
	mu  sync.Mutex
	url *url.URL
}

// NewLocation parses rawURL into a Location
func NewLocation(rawURL string) (*Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse location %q: %w", rawURL, err)
	}
	return &Location{url: u}, nil
}

// Hash returns the current fragment including '#', or "" when there is none
func (l *Location) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.url.Fragment == "" {
		return ""
	}
	return "#" + l.url.Fragment
}

// Replace applies enc to the fragment. Clearing only removes a fragment
// that holds a pack selection.
func (l *Location) Replace(enc Encoding) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if enc.Clear {
		if strings.HasPrefix(l.url.Fragment, Prefix) {
			l.url.Fragment = ""
			l.url.RawFragment = ""
		}
		return
	}
	l.url.Fragment = enc.Value
	l.url.RawFragment = ""
}

// String renders the full URL
func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.String()
}
