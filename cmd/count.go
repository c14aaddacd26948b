package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/packpick/internal/config"
	"github.com/pders01/packpick/internal/registry"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print how many packs the registry lists",
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	client := registry.NewClient(config.GetRegistryURL(), config.GetRegistryTimeout())

	n, err := client.Count(contextOf(cmd))
	if err != nil {
		return fmt.Errorf("failed to count packs: %w", err)
	}

	fmt.Fprintf(stdout(cmd), "%s packs\n", registry.FormatCount(n))
	return nil
}
