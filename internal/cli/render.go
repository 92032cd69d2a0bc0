package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/pipeline"
)

// drawOpts holds the flags of the river and trace commands.
type drawOpts struct {
	renderFlags
	output string // file path, "-" for stdout, empty to save to the gallery
	file   string // trace only: read text from a file, "-" for stdin
}

// riverCommand renders an emoji sequence.
func (c *CLI) riverCommand() *cobra.Command {
	var opts drawOpts
	cmd := &cobra.Command{
		Use:   "river [emoji...]",
		Short: "Render an emoji sequence as an emotional river",
		Long: `Render a whitespace-separated emoji sequence as a river with one stop per
emoji. Without -o the image is saved to the gallery as rio_<timestamp>.png.`,
		Example: `  trazo river 😊 🌊 💚 🌟
  trazo river "😢 🌧️ 🌱 🌳" -o rio.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd.Context(), opts, strings.Join(args, " "), true)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: save to gallery)")
	return cmd
}

// traceCommand renders a text.
func (c *CLI) traceCommand() *cobra.Command {
	var opts drawOpts
	cmd := &cobra.Command{
		Use:   "trace [text...]",
		Short: "Render a text as the trace of a thought",
		Long: `Interpret a text and draw it as a ribboned trace. Punctuation sets the
intensity and calm of the line, vowels and consonants its waves. Without -o
the image is saved to the gallery as trazo_<timestamp>.png.`,
		Example: `  trazo trace "¡Hola! ¿Cómo estás?"
  trazo trace --file diario.txt -o trazo.png
  echo "Un día tranquilo." | trazo trace --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if opts.file != "" {
				data, err := readInput(cmd.InOrStdin(), opts.file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			return c.runDraw(cmd.Context(), opts, text, false)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: save to gallery)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the text from a file, - for stdin")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func (c *CLI) runDraw(ctx context.Context, opts drawOpts, input string, river bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, opts.renderFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var res *pipeline.Result
	switch {
	case river && opts.output == "":
		res, err = runner.SaveEmojiRiver(ctx, input)
	case river:
		res, err = runner.EmojiRiver(ctx, input)
	case opts.output == "":
		res, err = runner.SaveTextTrace(ctx, input)
	default:
		res, err = runner.TextTrace(ctx, input)
	}
	if err != nil {
		return err
	}
	prog.done("rendered "+string(res.Kind), "canvas", canvasSummary(runner.Options.Canvas))

	if opts.output == "-" {
		return c.writeOutput("-", res.PNG)
	}

	location := opts.output
	if res.Image != nil {
		location = res.Image.Location
	} else if err := c.writeOutput(opts.output, res.PNG); err != nil {
		return err
	}

	printSuccess("%s", res.Describe())
	printStats(res)
	printFile(location)
	return nil
}
