package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pders01/packpick/internal/picker"
)

var (
	previewCategory string
	previewIndex    int
)

var previewCmd = &cobra.Command{
	Use:   "preview <pack>",
	Short: "Play a pack's preview sound, or one sound from its manifest",
	Long: `Play a sound through the configured audio player and wait for it to end.

Without --category the pack's preview sound is played. With --category the
sound at --index in that manifest category is played (see show).

Examples:
  packpick preview peon
  packpick preview glados --category task.complete --index 2`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewCategory, "category", "c", "", "Manifest category to play from")
	previewCmd.Flags().IntVarP(&previewIndex, "index", "i", 0, "Sound index within the category")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()
	out := stdout(cmd)
	name := args[0]

	player, err := newPlayer()
	if err != nil {
		return err
	}

	s, err := openSession(ctx, sessionOptions{player: player})
	if err != nil {
		return err
	}
	defer s.StopAudio()

	if !s.Registry().IsLoaded() {
		return fmt.Errorf("cannot preview %s without the registry", name)
	}

	var started bool
	if previewCategory == "" {
		started, err = s.Preview(ctx, name)
	} else {
		started, err = playManifestSound(ctx, s, name)
	}
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("nothing to play for %s", name)
	}

	fmt.Fprintf(out, "Playing %s... (Ctrl+C to stop)\n", name)
	if err := player.Wait(ctx); err != nil {
		fmt.Fprintln(out, "Stopped.")
	}
	return nil
}

// playManifestSound expands the pack so its manifest is loaded, then
// plays the requested sound
func playManifestSound(ctx context.Context, s *picker.Session, name string) (bool, error) {
	exp, _, err := s.Expand(ctx, name)
	if err != nil {
		return false, err
	}
	if err := exp.Manifest.Err(); err != nil {
		return false, fmt.Errorf("failed to load sounds for %s: %w", name, err)
	}
	if !exp.Manifest.IsLoaded() {
		return false, fmt.Errorf("sounds for %s are unavailable", name)
	}
	return s.PlaySound(ctx, name, previewCategory, previewIndex)
}
