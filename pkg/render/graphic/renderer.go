// Package graphic renders event graphics.
//
// A render resolves the requested format, scales its layout table, and draws
// the layers in a fixed order onto a white canvas: illustration, divider
// lines, logo, title, then the detail rows with their icons. Missing
// illustration and logo assets are skipped with a warning; the graphic is
// still produced. Unknown formats, invalid icons and invalid scales abort the
// call before any file is written.
//
// Renderers hold no per-call state and may be used from several goroutines.
package graphic

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/observability"
	"github.com/matzehuels/eventcards/pkg/palette"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
	"github.com/matzehuels/eventcards/pkg/render/layout"
)

// Layer names used in Skip records.
const (
	LayerIllustration = "illustration"
	LayerLogo         = "logo"
)

// Request describes one render.
type Request struct {
	Event            Event
	Format           string // format id or alias
	IllustrationPath string // optional
	Scale            int    // output multiplier; 0 means DefaultScale
}

// Skip records a decorative layer left out of a render.
type Skip struct {
	Layer  string
	Path   string
	Reason error
}

// Rendered is the result of a render.
type Rendered struct {
	Image        *image.RGBA
	Width        int
	Height       int
	Format       layout.FormatID
	Plan         *Plan
	Skipped      []Skip
	FontFallback bool // a fallback face replaced a brand font
}

// LayerSkipped reports whether layer was left out.
func (r *Rendered) LayerSkipped(layer string) bool {
	for _, s := range r.Skipped {
		if s.Layer == layer {
			return true
		}
	}
	return false
}

// Renderer draws event graphics.
type Renderer struct {
	Fonts    *fonts.Provider
	LogoPath string
	Logger   *log.Logger
}

// New creates a renderer. A nil provider uses bundled and system fonts only;
// a nil logger discards output.
func New(fp *fonts.Provider, logoPath string, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = discard
	}
	if fp == nil {
		fp = fonts.NewProvider("", fonts.WithLogger(logger))
	}
	return &Renderer{Fonts: fp, LogoPath: logoPath, Logger: logger}
}

var discard = log.NewWithOptions(io.Discard, log.Options{})

func (r *Renderer) logger() *log.Logger {
	if r.Logger == nil {
		return discard
	}
	return r.Logger
}

// prepare validates req and resolves its format.
func prepare(req *Request) (layout.Format, error) {
	if req.Scale == 0 {
		req.Scale = DefaultScale
	}
	f, err := layout.Resolve(req.Format)
	if err != nil {
		return layout.Format{}, err
	}
	if err := errors.ValidateScale(req.Scale); err != nil {
		return layout.Format{}, err
	}
	if err := req.Event.Validate(); err != nil {
		return layout.Format{}, err
	}
	return f, nil
}

// Plan resolves every placement for req without drawing.
func (r *Renderer) Plan(req Request) (*Plan, error) {
	f, err := prepare(&req)
	if err != nil {
		return nil, err
	}
	fc := r.openFaces(f.Layout, layout.Scale(req.Scale))
	defer fc.Close()
	return buildPlan(f, req.Event, req.Scale, fc), nil
}

// Render draws the graphic for req.
func (r *Renderer) Render(ctx context.Context, req Request) (out *Rendered, err error) {
	f, err := prepare(&req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, string(f.ID), req.Scale)
	defer func() { hooks.OnRenderComplete(ctx, string(f.ID), time.Since(start), err) }()

	fc := r.openFaces(f.Layout, layout.Scale(req.Scale))
	defer fc.Close()
	plan := buildPlan(f, req.Event, req.Scale, fc)

	dc := gg.NewContext(plan.Width, plan.Height)
	dc.SetColor(palette.Background)
	dc.Clear()

	out = &Rendered{
		Width:        plan.Width,
		Height:       plan.Height,
		Format:       f.ID,
		Plan:         plan,
		FontFallback: fc.fallback(),
	}

	if plan.Illustration != nil {
		outcome, err := illustration.Composite(dc, req.IllustrationPath, plan.Illustration.Slot, float64(req.Scale))
		if err != nil {
			return nil, err
		}
		if outcome.Status == illustration.StatusSkipped {
			r.skip(ctx, out, LayerIllustration, req.IllustrationPath, outcome.Reason)
		}
	}

	for _, d := range plan.Dividers {
		dc.SetColor(d.Color)
		dc.SetLineWidth(d.Width)
		dc.SetLineCap(gg.LineCapButt)
		dc.DrawLine(float64(d.From.X), float64(d.From.Y), float64(d.To.X), float64(d.To.Y))
		dc.Stroke()
	}

	if plan.Logo != nil {
		if err := r.drawLogo(dc, *plan.Logo); err != nil {
			r.skip(ctx, out, LayerLogo, r.LogoPath, err)
		}
	}

	drawText(dc, fc.title, plan.Title)
	for _, row := range plan.Rows {
		if err := icons.Draw(dc, row.Icon, row.Box, row.Text.Color); err != nil {
			return nil, fmt.Errorf("%s row: %w", row.Field, err)
		}
		drawText(dc, fc.detail, row.Text)
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "unexpected canvas type %T", dc.Image())
	}
	out.Image = img
	return out, nil
}

func (r *Renderer) skip(ctx context.Context, out *Rendered, layer, path string, reason error) {
	out.Skipped = append(out.Skipped, Skip{Layer: layer, Path: path, Reason: reason})
	observability.Render().OnLayerSkipped(ctx, string(out.Format), layer, reason)
	if path == "" && layer == LayerIllustration {
		r.logger().Debug("no illustration, layer skipped", "format", out.Format)
		return
	}
	r.logger().Warn("asset unavailable, layer skipped", "layer", layer, "path", path, "err", reason)
}

func (r *Renderer) drawLogo(dc *gg.Context, rect image.Rectangle) error {
	logo, err := illustration.Load(r.LogoPath)
	if err != nil {
		return err
	}
	resized := imaging.Resize(logo, rect.Dx(), rect.Dy(), imaging.Lanczos)
	illustration.Paste(dc, resized, rect.Min)
	return nil
}

// drawText draws each line with its top at line.Y, matching the
// top-anchored coordinates of the layout tables.
func drawText(dc *gg.Context, h fonts.Handle, block TextBlock) {
	if len(block.Lines) == 0 {
		return
	}
	dc.SetFontFace(h.Face)
	dc.SetColor(block.Color)
	ascent := float64(h.Face.Metrics().Ascent) / 64
	for _, line := range block.Lines {
		dc.DrawString(line.Text, float64(line.X), float64(line.Y)+ascent)
	}
}
