package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrNoPlayer is returned when no audio player command is available
var ErrNoPlayer = errors.New("no audio player found")

// candidates are tried in order by DefaultCommand
var candidates = [][]string{
	{"paplay"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpv", "--no-video", "--really-quiet"},
	{"aplay", "-q"},
}

// DefaultCommand picks a player command available on this system
func DefaultCommand() ([]string, error) {
	if runtime.GOOS == "darwin" {
		return []string{"afplay"}, nil
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoPlayer
}

// ParseCommand splits a configured player command line on whitespace
func ParseCommand(s string) []string {
	return strings.Fields(s)
}

// ExecBackend plays sounds by running an external player. Remote sources
// are downloaded to a temporary file first.
type ExecBackend struct {
	Command []string
	Client  *http.Client
}

// NewExecBackend creates a backend running command with the sound path appended
func NewExecBackend(command []string) *ExecBackend {
	return &ExecBackend{
		Command: command,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Start downloads src if needed and launches the player
func (b *ExecBackend) Start(ctx context.Context, src string) (Handle, error) {
	if len(b.Command) == 0 {
		return nil, ErrNoPlayer
	}

	file := src
	cleanup := func() {}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		tmp, err := b.download(ctx, src)
		if err != nil {
			return nil, err
		}
		file = tmp
		cleanup = func() { os.Remove(tmp) }
	}

	args := append(append([]string{}, b.Command[1:]...), file)
	cmd := exec.Command(b.Command[0], args...)
	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to start %s: %w", b.Command[0], err)
	}

	h := &processHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		cleanup()
		close(h.done)
	}()

	return h, nil
}

func (b *ExecBackend) download(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download sound: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download sound: %s", resp.Status)
	}

	f, err := os.CreateTemp("", "packpick-*"+path.Ext(req.URL.Path))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write sound: %w", err)
	}

	return f.Name(), nil
}

type processHandle struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (h *processHandle) Stop() {
	h.once.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}
		if h.cmd.Process != nil {
			h.cmd.Process.Kill()
		}
		<-h.done
	})
}

func (h *processHandle) Done() <-chan struct{} {
	return h.done
}
