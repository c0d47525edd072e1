package render

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stepwise/pkg/cache"
	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/observability"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

// View selects how the values are laid out.
type View string

// Supported views.
const (
	ViewArray View = "array"
	ViewTree  View = "tree"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatText, FormatJSON}
}

// Views lists the supported views.
func Views() []View { return []View{ViewArray, ViewTree} }

// ContentType returns the MIME type of a format.
func ContentType(f Format) string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Options configure Render.
type Options struct {
	Format Format
	View   View
	// Scale applies to PNG output of the array view.
	Scale float64
}

// Validate fills defaults and checks the format and view.
func (o Options) Validate() (Options, error) {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.View == "" {
		o.View = ViewArray
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if !slices.Contains(Formats(), o.Format) {
		return o, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", o.Format)
	}
	if !slices.Contains(Views(), o.View) {
		return o, errors.New(errors.ErrCodeInvalidView, "unsupported view %q", o.View)
	}
	return o, nil
}

// Render produces the scene in the requested format and view.
func Render(ctx context.Context, s Scene, opts Options) ([]byte, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := render(ctx, s, opts)
	observability.Render().OnRender(ctx, string(opts.Format), string(opts.View), len(out), time.Since(start), err)
	return out, err
}

func render(ctx context.Context, s Scene, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatText:
		return []byte(Text(s, opts.View)), nil
	case FormatDOT:
		return []byte(dotFor(s, opts.View)), nil
	}

	if opts.View == ViewTree {
		format := graphviz.SVG
		if opts.Format == FormatPNG {
			format = graphviz.PNG
		}
		out, err := RenderDOT(ctx, TreeDOT(s), format)
		if err != nil || opts.Format != FormatPDF {
			return out, err
		}
		return convertSVG(ctx, out, FormatPDF, 1)
	}

	svg := RenderArraySVG(s)
	if opts.Format == FormatSVG {
		return svg, nil
	}
	return convertSVG(ctx, svg, opts.Format, opts.Scale)
}

func dotFor(s Scene, v View) string {
	if v == ViewTree {
		return TreeDOT(s)
	}
	return ArrayDOT(s)
}

// Renderer renders scenes through a cache.
type Renderer struct {
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) RendererOption { return func(r *Renderer) { r.keyer = k } }

// WithTTL sets how long rendered output stays cached.
func WithTTL(ttl time.Duration) RendererOption { return func(r *Renderer) { r.ttl = ttl } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RendererOption { return func(r *Renderer) { r.logger = l } }

// NewRenderer creates a Renderer. A nil cache disables caching.
func NewRenderer(c cache.Cache, opts ...RendererOption) *Renderer {
	r := &Renderer{cache: c, keyer: cache.NewDefaultKeyer(), ttl: 24 * time.Hour}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.NewNullCache()
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Render renders s, serving repeated requests from the cache. It reports
// whether the output came from the cache.
func (r *Renderer) Render(ctx context.Context, s Scene, opts Options) ([]byte, bool, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, false, err
	}
	key := r.keyer.RenderKey(s.Hash(), cache.RenderKeyOpts{
		Format: string(opts.Format),
		View:   string(opts.View),
		Scale:  opts.Scale,
	})
	out, cached, err := cache.Fetch(ctx, r.cache, key, r.ttl, func() ([]byte, error) {
		return Render(ctx, s, opts)
	})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s %s", opts.View, opts.Format)
	}
	r.logger.Debug("rendered frame", "algorithm", s.Algorithm, "format", opts.Format, "view", opts.View, "bytes", len(out), "cached", cached)
	return out, cached, nil
}
