package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print a shareable link for the selected packs",
	Long: `Print the picker URL whose fragment encodes the current selection.

The default selection produces the bare site URL.

Examples:
  packpick link --none --toggle peon --toggle glados
  packpick link --all`,
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	addSelectionFlags(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	s, err := openSession(contextOf(cmd), sessionOptions{})
	if err != nil {
		return err
	}

	if !s.Registry().IsLoaded() {
		return fmt.Errorf("cannot build a link without the registry")
	}
	if err := applySelectionFlags(s); err != nil {
		return err
	}

	fmt.Fprintln(stdout(cmd), s.URL())
	return nil
}
