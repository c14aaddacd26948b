package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/picker"
)

var (
	showJSON bool
	showToon bool
)

var showCmd = &cobra.Command{
	Use:   "show <pack>",
	Short: "Show a pack's description and its sounds by category",
	Long: `Expand a pack and list the sounds from its manifest.

Sound numbers are the --index values accepted by preview.

Examples:
  packpick show peon
  packpick show glados --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showToon, "toon", false, "Output in LLM-friendly toon format")
}

type showSound struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	File  string `json:"file"`
	URL   string `json:"url"`
}

type showCategory struct {
	Name   string      `json:"name"`
	Sounds []showSound `json:"sounds"`
}

type showOutput struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language"`
	Author      string         `json:"author,omitempty"`
	Selected    bool           `json:"selected"`
	Status      string         `json:"status"`
	Categories  []showCategory `json:"categories,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)
	out := stdout(cmd)

	s, err := openSession(ctx, sessionOptions{})
	if err != nil {
		return err
	}
	if !s.Registry().IsLoaded() {
		return fmt.Errorf("cannot show %s without the registry", args[0])
	}

	exp, _, err := s.Expand(ctx, args[0])
	if err != nil {
		return err
	}

	result := newShowOutput(exp, s.Selection().Has(exp.Pack.Name))

	if showJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if showToon {
		output, err := gotoon.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(out, output)
		return nil
	}

	fmt.Fprintf(out, "%s (%s)\n", result.DisplayName, result.Name)
	fmt.Fprintf(out, "Language: %s\n", result.Language)
	if result.Author != "" {
		fmt.Fprintf(out, "Author:   %s\n", result.Author)
	}
	if result.Description != "" {
		fmt.Fprintf(out, "\n%s\n", result.Description)
	}

	if text := exp.Placeholder(); text != "" {
		fmt.Fprintf(out, "\n%s\n", text)
		return nil
	}

	for _, c := range result.Categories {
		fmt.Fprintf(out, "\n%s\n", c.Name)
		for _, snd := range c.Sounds {
			fmt.Fprintf(out, "  %2d. %s\n", snd.Index, snd.Label)
		}
	}
	return nil
}

func newShowOutput(exp picker.Expansion, selected bool) showOutput {
	p := exp.Pack
	result := showOutput{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Description: p.Description,
		Language:    p.LanguageLabel(),
		Author:      p.AuthorName(),
		Selected:    selected,
		Status:      exp.Manifest.Status().String(),
	}

	m, ok := exp.Manifest.Value()
	if !ok {
		return result
	}
	for _, c := range m.Categories {
		result.Categories = append(result.Categories, showCategory{
			Name:   c.Name,
			Sounds: showSounds(p, c),
		})
	}
	return result
}

func showSounds(p models.Pack, c models.Category) []showSound {
	sounds := make([]showSound, len(c.Sounds))
	for i, snd := range c.Sounds {
		sounds[i] = showSound{
			Index: i,
			Label: snd.DisplayLabel(),
			File:  snd.File,
			URL:   p.SoundURL(snd.File),
		}
	}
	return sounds
}
