package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/diary"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/session"
)

// diaryCommand opens a conversation with the diary in the terminal.
func (c *CLI) diaryCommand() *cobra.Command {
	var (
		flags     renderFlags
		sessionID string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Chat with the intuitive diary",
		Long: `Chat with the intuitive diary. Send emojis to grow your emotional river,
"/imagen" to draw the trace of its interpretation or "/rio" to draw the river.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, cleanup, err := c.newDiary(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if sessionID == "" {
				sessionID = session.DefaultID
			}
			if plain || !isTerminal(os.Stdin) {
				return c.plainChat(cmd, d, sessionID, cmd.InOrStdin())
			}

			// Logs would tear through the chat view.
			if !c.verbose {
				c.SetLogLevel(log.ErrorLevel)
			}
			_, err = tea.NewProgram(NewChatModel(ctx, d, sessionID), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default \"default\")")
	cmd.Flags().BoolVar(&plain, "plain", false, "read lines from stdin without the interactive view")
	return cmd
}

// plainChat handles one message per input line.
func (c *CLI) plainChat(cmd *cobra.Command, d *diary.Diary, sessionID string, in io.Reader) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, err := d.Handle(ctx, sessionID, line)
		if err != nil {
			if terrors.Temporary(err) || terrors.Is(err, terrors.ErrCodeAgent) {
				fmt.Fprintln(out, StyleError.Render(terrors.UserMessage(err)))
				continue
			}
			return err
		}
		fmt.Fprintln(out, reply.Text)
		if reply.Image != nil {
			fmt.Fprintln(out, StyleSuccess.Render(reply.Image.Location))
		}
	}
	return scanner.Err()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
