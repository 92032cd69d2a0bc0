// Package cli implements the trazo command-line interface.
//
// Commands:
//   - river: render an emoji sequence as an emotional river
//   - trace: render a text as the trace of a thought
//   - inspect: print the descriptors and phase plan of a text
//   - lexicon: list the emoji color table
//   - diary: chat with the intuitive diary in the terminal
//   - serve: run the HTTP API
//   - gallery: list saved images
//   - cache: manage the render cache
//
// Every command reads the TOML configuration named by --config (or the
// default path) and logs through a charmbracelet logger attached to the
// command context; --verbose switches it to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/agent"
	"github.com/matzehuels/trazo/pkg/buildinfo"
	"github.com/matzehuels/trazo/pkg/cache"
	"github.com/matzehuels/trazo/pkg/config"
	"github.com/matzehuels/trazo/pkg/diary"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/observability"
	"github.com/matzehuels/trazo/pkg/pipeline"
	"github.com/matzehuels/trazo/pkg/render"
	"github.com/matzehuels/trazo/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "trazo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	out        io.Writer
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Trazo draws the trace of a thought",
		Long: `Trazo turns text into a generative line drawing and emoji sequences into an
emotional river, and hosts the intuitive diary that interprets them.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			observability.NewLogHooks(c.Logger).Install()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/trazo/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.riverCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.lexiconCommand())
	root.AddCommand(c.diaryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.galleryCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runtime Factories
// =============================================================================

// renderFlags are shared by the commands that draw.
type renderFlags struct {
	width   float64
	height  float64
	dpi     float64
	font    string
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "figure width in inches (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "figure height in inches (default from config)")
	cmd.Flags().Float64Var(&f.dpi, "dpi", 0, "raster density (default from config)")
	cmd.Flags().StringVar(&f.font, "font", "", "TrueType font file (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached renders")
}

// options merges flags over the configuration.
func (f renderFlags) options(cfg config.Config) pipeline.Options {
	canvas := cfg.Canvas
	if f.width > 0 {
		canvas.WidthIn = f.width
	}
	if f.height > 0 {
		canvas.HeightIn = f.height
	}
	if f.dpi > 0 {
		canvas.DPI = f.dpi
	}
	font := cfg.Fonts.Path
	if f.font != "" {
		font = f.font
	}
	return pipeline.Options{
		Canvas:         canvas,
		FontPath:       font,
		SymbolFontPath: cfg.Fonts.EmojiPath,
		Refresh:        f.refresh,
	}
}

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context, f renderFlags) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	g, err := c.newGallery(ctx, "")
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(ch, g, c.Logger)
	r.Keyer = c.keyer()
	r.Options = f.options(c.Config)
	return r, nil
}

// keyer scopes cache keys when the cache lives on a shared redis.
func (c *CLI) keyer() cache.Keyer {
	cc := c.Config.Cache
	if cc.Backend != config.BackendRedis {
		return cache.NewDefaultKeyer()
	}
	prefix := cc.Prefix
	if prefix == "" {
		prefix = config.DefaultCachePrefix
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
}

func (c *CLI) newCache(ctx context.Context, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendMemory:
		return cache.NewMemoryCache(0), nil
	case config.BackendFile:
		dir := c.Config.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		rc := c.Config.Redis
		client, err := cache.DialRedis(ctx, rc.Addr, rc.Password, rc.DB)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client, ""), nil
	default:
		return cache.NewNullCache(), nil
	}
}

// newGallery opens the configured image store. A non-empty dir overrides the
// directory backend's location.
func (c *CLI) newGallery(ctx context.Context, dir string) (gallery.Store, error) {
	gc := c.Config.Gallery
	if gc.Backend == config.BackendMongo && dir == "" {
		return gallery.NewMongoStore(ctx, gallery.MongoConfig{
			URI:        gc.MongoURI,
			Database:   gc.MongoDatabase,
			Collection: gc.MongoCollection,
		})
	}
	if dir == "" {
		dir = gc.Dir
	}
	return gallery.NewDirStore(dir), nil
}

func (c *CLI) newSessions(ctx context.Context) (session.Store, error) {
	sc := c.Config.Session
	switch sc.Backend {
	case config.BackendFile:
		return session.NewFileStore(sc.Dir)
	case config.BackendRedis:
		rc := c.Config.Redis
		client, err := cache.DialRedis(ctx, rc.Addr, rc.Password, rc.DB)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, ""), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// newDiary wires sessions, the agent and a runner into a diary.
func (c *CLI) newDiary(ctx context.Context, f renderFlags) (*diary.Diary, func(), error) {
	runner, err := c.newRunner(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := c.newSessions(ctx)
	if err != nil {
		_ = runner.Close()
		return nil, nil, err
	}
	a, err := agent.New(c.Config.Agent, runner.Cache, runner.Keyer, c.Logger)
	if err != nil {
		_ = runner.Close()
		_ = sessions.Close()
		return nil, nil, err
	}

	d := diary.New(sessions, a, runner, c.Logger)
	if c.Config.Session.TTL > 0 {
		d.TTL = c.Config.Session.TTL
	}
	cleanup := func() {
		_ = sessions.Close()
		_ = runner.Close()
	}
	c.Logger.Debug("diary ready", "agent", a.Name(), "sessions", c.Config.Session.Backend)
	return d, cleanup, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/trazo/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// writeOutput writes data to path, or to the CLI's stdout for "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// canvasSummary formats a canvas for status lines.
func canvasSummary(cv render.Canvas) string {
	return fmt.Sprintf("%dx%d px", cv.Width(), cv.Height())
}
