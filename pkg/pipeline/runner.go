package pipeline

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trazo/pkg/cache"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/observability"
	"github.com/matzehuels/trazo/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the diary all render through a Runner.
//
// The Runner is stateless except for its cache, gallery and logger. Multiple
// goroutines can safely share one.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Gallery gallery.Store
	Logger  *log.Logger
	Options Options

	// Now is the clock drawn on images and used for gallery names.
	Now func() time.Time
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If g is nil, saving goes to a DirStore in gallery.DefaultDir.
// If logger is nil, log.Default() is used.
func NewRunner(c cache.Cache, g gallery.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if g == nil {
		g = gallery.NewDirStore("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		Gallery: g,
		Logger:  logger,
		Now:     time.Now,
	}
}

// Close releases the cache and the gallery.
func (r *Runner) Close() error {
	cerr := r.Cache.Close()
	if err := r.Gallery.Close(); err != nil {
		return err
	}
	return cerr
}

func (r *Runner) options() (Options, error) {
	opts := r.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// =============================================================================
// Text → trace
// =============================================================================

// TextTrace runs parse → layout → render for a text.
func (r *Runner) TextTrace(ctx context.Context, text string) (*Result, error) {
	opts, err := r.options()
	if err != nil {
		return nil, err
	}
	at := r.now()
	res := &Result{Kind: gallery.KindTrace, Input: text, RenderedAt: at}

	start := time.Now()
	bag := ParseText(text)
	res.Bag = &bag
	res.Stats.ParseTime = time.Since(start)
	observability.Pipeline().OnInterpret(ctx, utf8.RuneCountInString(text), bag.PointCount)

	start = time.Now()
	l := LayoutTraceIn(bag, bounds(opts.Canvas))
	res.Plan = &l.Plan
	res.Trace = l.Trace
	res.Ribbons = l.Ribbons
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Points = len(l.Trace)
	res.Stats.Ribbons = len(l.Ribbons)

	r.Logger.Debug("laid out trace",
		"points", res.Stats.Points,
		"ribbons", res.Stats.Ribbons,
		"seed", bag.Seed,
		"duration", res.Stats.LayoutTime)

	err = r.render(ctx, res, opts, func(ro render.Options) ([]byte, error) {
		return RenderTrace(l, ro)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RenderTextTrace renders text as a trace PNG.
func (r *Runner) RenderTextTrace(ctx context.Context, text string) ([]byte, error) {
	res, err := r.TextTrace(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.PNG, nil
}

// SaveTextTrace renders text and saves it to the gallery as
// trazo_<YYYYMMDD_HHMMSS>.png.
func (r *Runner) SaveTextTrace(ctx context.Context, text string) (*Result, error) {
	res, err := r.TextTrace(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, res, gallery.TraceName(res.RenderedAt)); err != nil {
		return nil, err
	}
	return res, nil
}

// =============================================================================
// Emoji → river
// =============================================================================

// EmojiRiver runs parse → layout → render for a whitespace-separated emoji
// sequence.
func (r *Runner) EmojiRiver(ctx context.Context, seq string) (*Result, error) {
	opts, err := r.options()
	if err != nil {
		return nil, err
	}
	at := r.now()
	res := &Result{Kind: gallery.KindRiver, Input: seq, RenderedAt: at}

	start := time.Now()
	symbols := ParseEmojis(seq)
	res.Stats.ParseTime = time.Since(start)

	start = time.Now()
	rv := LayoutRiver(symbols)
	res.River = &rv
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Stops = len(rv.Stops)

	r.Logger.Debug("laid out river",
		"stops", res.Stats.Stops,
		"segments", len(rv.Segments))

	err = r.render(ctx, res, opts, func(ro render.Options) ([]byte, error) {
		return RenderRiver(rv, ro)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RenderEmojiRiver renders an emoji sequence as a river PNG.
func (r *Runner) RenderEmojiRiver(ctx context.Context, seq string) ([]byte, error) {
	res, err := r.EmojiRiver(ctx, seq)
	if err != nil {
		return nil, err
	}
	return res.PNG, nil
}

// SaveEmojiRiver renders an emoji sequence and saves it to the gallery as
// rio_<YYYYMMDD_HHMMSS>.png.
func (r *Runner) SaveEmojiRiver(ctx context.Context, seq string) (*Result, error) {
	res, err := r.EmojiRiver(ctx, seq)
	if err != nil {
		return nil, err
	}
	if err := r.save(ctx, res, gallery.RiverName(res.RenderedAt)); err != nil {
		return nil, err
	}
	return res, nil
}

// =============================================================================
// Shared stages
// =============================================================================

// render fills res.PNG from the cache or by calling draw. Cached images carry
// no timestamp; every result is stamped with its own RenderedAt.
func (r *Runner) render(ctx context.Context, res *Result, opts Options, draw func(render.Options) ([]byte, error)) error {
	kind := string(res.Kind)
	key := r.Keyer.RenderKey(kind, res.Input, opts.keyOpts())

	at := res.RenderedAt
	ro := render.Options{
		Canvas:         opts.Canvas,
		FontPath:       opts.FontPath,
		SymbolFontPath: opts.SymbolFontPath,
		Now:            func() time.Time { return at },
		OmitStamp:      true,
	}

	if !opts.Refresh {
		if data, ok, _ := r.Cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "render")
			if err := r.stamp(res, data, ro); err != nil {
				return err
			}
			res.CacheHit = true
			r.Logger.Debug("render cache hit", "kind", kind)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, kind)
	start := time.Now()
	data, err := draw(ro)
	res.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, kind, len(data), res.Stats.RenderTime, err)
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeRender, err, "render %s", kind)
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	if err := r.stamp(res, data, ro); err != nil {
		return err
	}

	r.Logger.Info("rendered",
		"kind", kind,
		"bytes", res.Stats.Bytes,
		"duration", res.Stats.RenderTime)
	return nil
}

func (r *Runner) stamp(res *Result, data []byte, ro render.Options) error {
	stamped, err := render.Stamp(data, ro)
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeRender, err, "stamp %s", res.Kind)
	}
	res.PNG = stamped
	res.Stats.Bytes = len(stamped)
	return nil
}

// save writes res.PNG to the gallery, retrying transient backend failures.
func (r *Runner) save(ctx context.Context, res *Result, name string) error {
	entry := gallery.Entry{Name: name, Kind: res.Kind, Input: res.Input}

	var img gallery.Image
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		img, err = r.Gallery.Save(ctx, entry, res.PNG)
		return err
	})
	observability.Pipeline().OnSave(ctx, name, len(res.PNG), err)
	if err != nil {
		if terrors.GetCode(err) != "" {
			return err
		}
		return terrors.Wrap(terrors.ErrCodeStorage, err, "save %s", name)
	}

	res.Image = &img
	r.Logger.Info("saved image", "name", img.Name, "location", img.Location)
	return nil
}

// Describe is a one-line summary of a result for logs and the CLI.
func (res *Result) Describe() string {
	switch res.Kind {
	case gallery.KindRiver:
		return fmt.Sprintf("river with %d stops, %d bytes", res.Stats.Stops, res.Stats.Bytes)
	default:
		return fmt.Sprintf("trace with %d points and %d ribbons, %d bytes", res.Stats.Points, res.Stats.Ribbons, res.Stats.Bytes)
	}
}
