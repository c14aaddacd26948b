package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/packpick/internal/command"
)

var commandMode string

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Print the install command for the selected packs",
	Long: `Print the install command for the current selection.

The default selection (and an empty one) installs the default packs,
selecting every registry pack adds --all, anything else lists the packs.

Examples:
  packpick command
  packpick command --mode brew --toggle glados
  packpick command --link '#packs=peon,sc_kerrigan'`,
	RunE: runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)

	commandCmd.Flags().StringVarP(&commandMode, "mode", "m", "", "Install mode: curl or brew (default from config)")
	addSelectionFlags(commandCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	s, err := openSession(contextOf(cmd), sessionOptions{})
	if err != nil {
		return err
	}

	if commandMode != "" {
		mode, err := command.ParseMode(commandMode)
		if err != nil {
			return err
		}
		s.SetMode(mode)
	}

	if s.Registry().IsLoaded() {
		if err := applySelectionFlags(s); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout(cmd), s.Command())
	return nil
}
