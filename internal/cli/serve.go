package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/server"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags renderFlags
		addr  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diary and render HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, cleanup, err := c.newDiary(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			printInfo("Diario Intuitivo en %s", StyleHighlight.Render("http://"+displayAddr(addr)))
			printDetail("agent %s · sessions %s · gallery %s", d.Agent.Name(), c.Config.Session.Backend, c.Config.Gallery.Backend)
			return server.New(d, d.Runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	return cmd
}

// displayAddr turns ":8000" into "localhost:8000".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
