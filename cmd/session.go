package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pders01/packpick/internal/audio"
	"github.com/pders01/packpick/internal/config"
	"github.com/pders01/packpick/internal/fragment"
	"github.com/pders01/packpick/internal/picker"
	"github.com/pders01/packpick/internal/registry"
)

// Selection edits shared by the commands that derive output from a selection
var (
	selToggle   []string
	selAll      bool
	selNone     bool
	selDefaults bool
)

func addSelectionFlags(c *cobra.Command) {
	c.Flags().StringSliceVar(&selToggle, "toggle", nil, "toggle packs in or out of the selection (comma separated)")
	c.Flags().BoolVar(&selAll, "all", false, "select every pack in the registry")
	c.Flags().BoolVar(&selNone, "none", false, "clear the selection")
	c.Flags().BoolVar(&selDefaults, "defaults", false, "reset to the default packs")
}

func resetSelectionFlags() {
	selToggle = nil
	selAll = false
	selNone = false
	selDefaults = false
}

type sessionOptions struct {
	// player is nil for commands that never play sounds
	player *audio.Player
}

// openSession builds a picker session from config, restores --link and
// loads the registry. A registry failure is reported but not returned:
// the session then serves the fallback install command.
func openSession(ctx context.Context, opts sessionOptions) (*picker.Session, error) {
	client := registry.NewClient(config.GetRegistryURL(), config.GetRegistryTimeout())

	loc, err := fragment.NewLocation(config.GetSiteURL())
	if err != nil {
		return nil, err
	}

	s := picker.New(picker.Options{
		Registry:  client,
		Manifests: registry.NewManifestCache(client, logger),
		Player:    opts.player,
		Location:  loc,
		Mode:      config.GetInstallMode(),
		Logger:    logger,
	})

	if link != "" {
		d := s.Restore(link)
		logger.Debug("restoring selection", zap.Stringer("kind", d.Kind), zap.Strings("ids", d.IDs))
	}

	if err := s.LoadRegistry(ctx); err != nil {
		logger.Debug("registry unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Warning: could not load registry, only the default install command is available")
	}

	return s, nil
}

// applySelectionFlags applies --defaults/--none/--all, then --toggle
func applySelectionFlags(s *picker.Session) error {
	n := 0
	for _, set := range []bool{selAll, selNone, selDefaults} {
		if set {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("--all, --none and --defaults are mutually exclusive")
	}

	switch {
	case selDefaults:
		s.SelectDefaults()
	case selNone:
		s.SelectNone()
	case selAll:
		if _, err := s.SelectAll(); err != nil {
			return fmt.Errorf("failed to select all packs: %w", err)
		}
	}

	for _, name := range selToggle {
		if _, err := s.Toggle(name); err != nil {
			return fmt.Errorf("failed to toggle %s: %w", name, err)
		}
	}
	return nil
}

func newPlayer() (*audio.Player, error) {
	command := audio.ParseCommand(config.GetAudioCommand())
	if len(command) == 0 {
		var err error
		command, err = audio.DefaultCommand()
		if err != nil {
			return nil, fmt.Errorf("failed to find an audio player (set audio.command): %w", err)
		}
	}
	return audio.NewPlayer(audio.NewExecBackend(command), logger), nil
}
