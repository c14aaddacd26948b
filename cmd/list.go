package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/packpick/internal/filter"
	"github.com/pders01/packpick/internal/picker"
)

var (
	listLang  string
	listQuery string
	listJSON  bool
	listToon  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry packs with optional language and search filters",
	Long: `List the packs in the registry. Selected packs are marked with [x].

Language filters: all, other, en, ru, es, fr, cs, pt-BR.
"other" shows packs in any language not listed above.

Examples:
  packpick list
  packpick list --lang ru
  packpick list --query warcraft
  packpick list --link 'https://peonping.com/#packs=peon,glados' --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listLang, "lang", filter.LanguageAll, "Filter by language tag (all, other, or a known tag)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search name, description, author and tags")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
	addSelectionFlags(listCmd)
}

type listOutput struct {
	Language string        `json:"language"`
	Query    string        `json:"query"`
	Total    int           `json:"total"`
	Packs    []picker.Card `json:"packs"`
	Command  string        `json:"command"`
	Link     string        `json:"link"`
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)
	out := stdout(cmd)

	s, err := openSession(ctx, sessionOptions{})
	if err != nil {
		return err
	}

	if !s.Registry().IsLoaded() {
		fmt.Fprintln(out, "Could not load registry. Use the default install command:")
		fmt.Fprintf(out, "  %s\n", s.Command())
		return nil
	}

	if err := applySelectionFlags(s); err != nil {
		return err
	}
	if err := s.SetFilter(listLang, listQuery); err != nil {
		return err
	}

	cards := s.Cards()
	result := listOutput{
		Language: s.Filter().Language,
		Query:    listQuery,
		Total:    len(s.Packs()),
		Packs:    cards,
		Command:  s.Command(),
		Link:     s.URL(),
	}

	if listJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if listToon {
		output, err := gotoon.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(out, output)
		return nil
	}

	if len(cards) == 0 {
		fmt.Fprintln(out, "No packs match your search.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d of %d pack(s):\n\n", len(cards), result.Total)
	for _, c := range cards {
		mark := " "
		if c.Selected {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %-24s %s\n", mark, c.Name, c.DisplayName)

		meta := fmt.Sprintf("%s · %d sounds", c.LanguageLabel(), c.SoundCount)
		if c.Default {
			meta += " · default"
		}
		fmt.Fprintf(out, "        %s\n", meta)
	}

	fmt.Fprintf(out, "\nSelected: %d pack(s)\n", s.Selection().Len())
	fmt.Fprintf(out, "Install:  %s\n", result.Command)
	return nil
}
