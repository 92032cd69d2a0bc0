package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/phase"
	"github.com/matzehuels/trazo/pkg/pipeline"
)

// inspectCommand prints what a text turns into before anything is drawn.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect [text...]",
		Short: "Print the descriptors and phase plan of a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			bag := pipeline.ParseText(text)
			plan := phase.Build(bag)
			ni, nc := phase.Normalize(bag)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"descriptores": bag, "fases": plan})
			}

			fmt.Println(StyleTitle.Render("Descriptores"))
			printKeyValue("longitud", fmt.Sprint(bag.Length))
			printKeyValue("vocales", fmt.Sprint(bag.Vowels))
			printKeyValue("consonantes", fmt.Sprint(bag.Consonants))
			printKeyValue("espacios", fmt.Sprint(bag.Spaces))
			printKeyValue("palabras", fmt.Sprint(bag.Words))
			printKeyValue("exclamación", fmt.Sprint(bag.Exclamations))
			printKeyValue("pregunta", fmt.Sprint(bag.Questions))
			printKeyValue("puntos", fmt.Sprint(bag.Periods))
			printKeyValue("intensidad", fmt.Sprintf("%.1f (%.2f)", bag.Intensity, ni))
			printKeyValue("calma", fmt.Sprintf("%.1f (%.2f)", bag.Calm, nc))
			printKeyValue("frecuencia", fmt.Sprintf("%.2f", bag.WaveFrequency))
			printKeyValue("amplitud", fmt.Sprintf("%.2f", bag.WaveAmplitude))
			printKeyValue("puntos traza", fmt.Sprint(bag.PointCount))
			printKeyValue("semilla", fmt.Sprint(bag.Seed))
			fmt.Println()

			fmt.Println(StyleTitle.Render("Fases"))
			for _, p := range plan {
				printKeyValue(string(p.Kind), fmt.Sprintf("%d points, advance (%.2f, %.2f), amplitude %.2f, frequency %.3f, noise %.2f",
					p.Points, p.Advance.DX, p.Advance.DY, p.Amplitude, p.Frequency, p.Noise))
			}
			fmt.Println()
			printNextStep("Draw it", fmt.Sprintf("trazo trace %q", text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
