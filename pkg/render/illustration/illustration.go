// Package illustration loads decorative raster assets and composites them
// onto a canvas as a faint background layer.
//
// A Slot describes how an asset is sized and where it goes. Fixed slots
// stretch the asset to an exact target size and paste it at an explicit
// origin; fit slots preserve the asset's aspect ratio inside a box expressed
// as a fraction of the canvas and pick the origin with an anchor policy.
// Several policies deliberately push part of the asset past the canvas edge.
//
// Compositing never fails the caller: a missing or undecodable asset yields
// an Outcome with StatusSkipped and an ASSET_MISSING reason.
package illustration

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/eventcards/pkg/errors"
)

// Anchor names the rule that positions a resized asset.
type Anchor string

// Anchor policies.
const (
	AnchorFixed          Anchor = "fixed"           // explicit origin, scaled
	AnchorEdge           Anchor = "edge"            // flush to Side, inset by the margin
	AnchorRightEdge      Anchor = "right_edge"      // 20% exits the right edge, centred vertically
	AnchorBottomEdge     Anchor = "bottom_edge"     // 10% exits the bottom edge, centred horizontally
	AnchorBottomFull     Anchor = "bottom_full"     // 20% exits the bottom edge, centred horizontally
	AnchorCornerBleed    Anchor = "corner_bleed"    // 15% exits both the right and bottom edges
	AnchorCenter         Anchor = "center"          // centred on the canvas
	AnchorMarginRelative Anchor = "margin_relative" // top-left inset by the margin
)

// Side selects the canvas edge for AnchorEdge.
type Side string

// Sides.
const (
	SideRight  Side = "right"
	SideLeft   Side = "left"
	SideBottom Side = "bottom"
)

// MarginRatio is the edge margin as a fraction of the smaller canvas dimension.
const MarginRatio = 0.05

// Slot describes the illustration layer of a layout. Sizes and origins are
// base-resolution values; they are multiplied by the scale factor at
// composite time.
type Slot struct {
	Anchor Anchor
	Side   Side // AnchorEdge only

	// Fixed mode: the asset is stretched to exactly Width x Height.
	Width, Height float64
	X, Y          float64 // AnchorFixed origin

	// Fit mode, used when MaxWidthPct > 0: the asset keeps its aspect ratio
	// and fits within this fraction of the canvas.
	MaxWidthPct, MaxHeightPct float64

	Opacity float64
}

// Validate checks that the slot can be composited.
func (s Slot) Validate() error {
	if s.Opacity < 0 || s.Opacity > 1 || math.IsNaN(s.Opacity) {
		return errors.New(errors.ErrCodeInvalidInput, "illustration opacity %v outside [0,1]", s.Opacity)
	}
	if s.fit() {
		if s.MaxHeightPct <= 0 {
			return errors.New(errors.ErrCodeInvalidDimensions, "illustration fit box needs a positive height")
		}
	} else if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "illustration size %vx%v must be positive", s.Width, s.Height)
	}
	switch s.Anchor {
	case AnchorFixed, AnchorRightEdge, AnchorBottomEdge, AnchorBottomFull,
		AnchorCornerBleed, AnchorCenter, AnchorMarginRelative:
	case AnchorEdge:
		switch s.Side {
		case SideRight, SideLeft, SideBottom:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "edge anchor needs a side, got %q", s.Side)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown anchor policy %q", s.Anchor)
	}
	return nil
}

func (s Slot) fit() bool { return s.MaxWidthPct > 0 }

// Status tells whether a layer made it onto the canvas.
type Status int

const (
	StatusDrawn Status = iota
	StatusSkipped
)

func (s Status) String() string {
	if s == StatusDrawn {
		return "drawn"
	}
	return "skipped"
}

// Outcome is the typed result of a composite call.
type Outcome struct {
	Status Status
	Path   string
	Rect   image.Rectangle // paste rectangle in canvas pixels, may exceed the canvas
	Reason error           // set when skipped
}

// Skipped builds a skipped Outcome.
func Skipped(path string, reason error) Outcome {
	return Outcome{Status: StatusSkipped, Path: path, Reason: reason}
}

// Load decodes the asset at path into a fresh NRGBA image. Any failure is
// reported as ASSET_MISSING.
func Load(path string) (*image.NRGBA, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeAssetMissing, "no asset path given")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "asset %s", path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "decode %s", path)
	}
	return imaging.Clone(img), nil
}

// Fade returns a copy of img with every alpha value multiplied by opacity
// and truncated. Colour channels are left alone, since NRGBA stores them
// unpremultiplied.
func Fade(img *image.NRGBA, opacity float64) *image.NRGBA {
	out := imaging.Clone(img)
	if opacity >= 1 {
		return out
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * opacity)
	}
	return out
}

// FitSize returns the largest size with the aspect ratio of srcW x srcH that
// fits in maxW x maxH. Dimensions are truncated and never below one pixel.
func FitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	ratio := float64(srcW) / float64(srcH)
	var w, h int
	if ratio > float64(maxW)/float64(maxH) {
		w, h = maxW, int(float64(maxW)/ratio)
	} else {
		w, h = int(float64(maxH)*ratio), maxH
	}
	return max(w, 1), max(h, 1)
}

// Origin returns the top-left paste position of a w x h asset on a canvas
// of canvasW x canvasH. For AnchorFixed the slot origin is scaled by scale.
func Origin(s Slot, canvasW, canvasH, w, h int, scale float64) image.Point {
	margin := int(float64(min(canvasW, canvasH)) * MarginRatio)
	centreX := (canvasW - w) / 2
	centreY := (canvasH - h) / 2

	switch s.Anchor {
	case AnchorFixed:
		return image.Pt(round(s.X*scale), round(s.Y*scale))
	case AnchorRightEdge:
		return image.Pt(canvasW-w+int(float64(w)*0.2), centreY)
	case AnchorCornerBleed:
		return image.Pt(canvasW-w+int(float64(w)*0.15), canvasH-h+int(float64(h)*0.15))
	case AnchorBottomFull:
		return image.Pt(centreX, canvasH-h+int(float64(h)*0.2))
	case AnchorBottomEdge:
		return image.Pt(centreX, canvasH-h+int(float64(h)*0.1))
	case AnchorCenter:
		return image.Pt(centreX, centreY)
	case AnchorEdge:
		switch s.Side {
		case SideRight:
			return image.Pt(canvasW-margin-w, centreY)
		case SideLeft:
			return image.Pt(margin, centreY)
		case SideBottom:
			return image.Pt(centreX, canvasH-h-margin)
		}
	}
	return image.Pt(margin, margin)
}

// Prepare loads, resizes and fades the asset for slot on a canvas of
// canvasW x canvasH. It returns the image ready to paste and its origin.
func Prepare(path string, s Slot, canvasW, canvasH int, scale float64) (*image.NRGBA, image.Point, error) {
	if err := s.Validate(); err != nil {
		return nil, image.Point{}, err
	}
	src, err := Load(path)
	if err != nil {
		return nil, image.Point{}, err
	}

	var w, h int
	if s.fit() {
		b := src.Bounds()
		w, h = FitSize(b.Dx(), b.Dy(), int(float64(canvasW)*s.MaxWidthPct), int(float64(canvasH)*s.MaxHeightPct))
	} else {
		w, h = round(s.Width*scale), round(s.Height*scale)
	}
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, errors.New(errors.ErrCodeInvalidDimensions, "illustration resized to %dx%d", w, h)
	}

	resized := imaging.Resize(src, w, h, imaging.Lanczos)
	return Fade(resized, s.Opacity), Origin(s, canvasW, canvasH, w, h, scale), nil
}

// Composite draws the asset at path into dc according to slot. Fatal slot
// misconfiguration is returned as an error; asset problems only produce a
// skipped Outcome.
func Composite(dc *gg.Context, path string, s Slot, scale float64) (Outcome, error) {
	img, at, err := Prepare(path, s, dc.Width(), dc.Height(), scale)
	if err != nil {
		if errors.Is(err, errors.ErrCodeAssetMissing) {
			return Skipped(path, err), nil
		}
		return Outcome{}, fmt.Errorf("illustration: %w", err)
	}
	return Outcome{Status: StatusDrawn, Path: path, Rect: Paste(dc, img, at)}, nil
}

// Paste blends img over the canvas at pt using its alpha channel as the mask.
// Parts outside the canvas are clipped. It returns the paste rectangle.
func Paste(dc *gg.Context, img image.Image, pt image.Point) image.Rectangle {
	r := image.Rectangle{Min: pt, Max: pt.Add(img.Bounds().Size())}
	if dst, ok := dc.Image().(draw.Image); ok {
		draw.Draw(dst, r, img, img.Bounds().Min, draw.Over)
	} else {
		dc.DrawImage(img, pt.X, pt.Y)
	}
	return r
}

func round(v float64) int { return int(math.Round(v)) }
