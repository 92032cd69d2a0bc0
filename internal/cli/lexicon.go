package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/agent"
	"github.com/matzehuels/trazo/pkg/lexicon"
)

// lexiconCommand lists the emoji color table.
func (c *CLI) lexiconCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "List the emoji color table",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := lexicon.Entries()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			var current lexicon.Register
			for _, e := range entries {
				if e.Register != current {
					if current != "" {
						fmt.Println()
					}
					current = e.Register
					fmt.Println(StyleTitle.Render(agent.RegisterName(current)))
				}
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("██")
				fmt.Printf("  %s  %s  %s\n", e.Symbol, swatch, StyleDim.Render(e.Color))
			}
			fmt.Println()
			printDetail("Other symbols use %s", lexicon.DefaultColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
