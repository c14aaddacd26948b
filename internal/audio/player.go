// Package audio plays pack sounds one at a time.
package audio

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handle is a sound that is currently playing
type Handle interface {
	// Stop halts playback; it is safe to call more than once
	Stop()
	// Done is closed once playback has ended for any reason
	Done() <-chan struct{}
}

// Backend starts playback of a sound source (URL or file path)
type Backend interface {
	Start(ctx context.Context, src string) (Handle, error)
}

// Player owns the single "currently playing" sound. Starting a sound always
// releases the previous holder first, so sounds never overlap or queue.
type Player struct {
	backend Backend
	logger  *zap.Logger

	mu     sync.Mutex
	holder string
	handle Handle
	// gen changes on every release; a start that finishes under a newer
	// gen is stopped instead of installed
	gen uint64
}

// NewPlayer creates a player on top of backend
func NewPlayer(backend Backend, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{backend: backend, logger: logger}
}

// Key builds a holder key from a scope and its parts, e.g. Key("expand", "peon", "0")
func Key(scope string, parts ...string) string {
	return strings.Join(append([]string{scope}, parts...), ":")
}

// Play starts src on behalf of key and reports whether it is now sounding.
// Playing the key that is already sounding stops it instead. Backend errors
// are logged and swallowed. The lock is not held while the backend starts,
// so a Play, Stop or StopScope issued meanwhile supersedes this one.
func (p *Player) Play(ctx context.Context, key, src string) bool {
	p.mu.Lock()
	if p.handle != nil && p.holder == key && !ended(p.handle) {
		p.releaseLocked()
		p.mu.Unlock()
		return false
	}
	p.releaseLocked()
	gen := p.gen
	// holder is set before the handle exists so StopScope can cancel the start
	p.holder = key
	p.mu.Unlock()

	h, err := p.backend.Start(ctx, src)
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.logger.Debug("playback rejected", zap.String("key", key), zap.String("src", src), zap.Error(err))
		if p.gen == gen {
			p.holder = ""
		}
		return false
	}
	if p.gen != gen {
		h.Stop()
		p.logger.Debug("playback superseded", zap.String("key", key))
		return false
	}

	p.holder = key
	p.handle = h
	go p.watch(h)

	return true
}

// Stop releases whatever is playing
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

// StopScope releases the current sound, or the one still starting, only if
// its key belongs to scope
func (p *Player) StopScope(scope string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if strings.HasPrefix(p.holder, scope+":") {
		p.releaseLocked()
	}
}

// Playing returns the key of the sound that is currently playing
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil {
		return "", false
	}
	return p.holder, true
}

// Wait blocks until the current sound ends or ctx is done
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	h := p.handle
	p.mu.Unlock()

	if h == nil {
		return nil
	}

	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// releaseLocked stops the holder and invalidates any start in flight
func (p *Player) releaseLocked() {
	p.gen++
	if p.handle != nil {
		p.handle.Stop()
	}
	p.handle = nil
	p.holder = ""
}

// watch clears the holder when a sound ends on its own
func (p *Player) watch(h Handle) {
	<-h.Done()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == h {
		p.handle = nil
		p.holder = ""
	}
}

func ended(h Handle) bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}
