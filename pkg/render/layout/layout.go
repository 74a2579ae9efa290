// Package layout holds the declarative placement tables for every output
// format and the registry that maps format identifiers to them.
//
// A Definition is an ordered list of Elements. Each element is one of five
// concrete kinds (IllustrationSlot, DividerLine, LogoSlot, TitleBlock,
// DetailRow) and carries only base-resolution values; the renderer multiplies
// them by the scale factor when drawing. Definitions are built once at
// package initialisation and must not be mutated.
//
// Drawing order is fixed by element kind, not by position in the list:
// illustration, dividers, logo, title, detail rows.
package layout

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
)

// Layer is the z-order position of an element kind.
type Layer int

// Layers in drawing order.
const (
	LayerIllustration Layer = iota
	LayerDivider
	LayerLogo
	LayerTitle
	LayerDetail
)

func (l Layer) String() string {
	switch l {
	case LayerIllustration:
		return "illustration"
	case LayerDivider:
		return "divider"
	case LayerLogo:
		return "logo"
	case LayerTitle:
		return "title"
	case LayerDetail:
		return "detail"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Point is a base-resolution coordinate.
type Point struct{ X, Y float64 }

// Font selects a face for a text element. Size is in base pixels.
type Font struct {
	Family fonts.Family
	Style  fonts.Style
	Size   float64
}

// Request returns the font request for this font at the given scale.
func (f Font) Request(scale float64) fonts.Request {
	return fonts.Request{Family: f.Family, Style: f.Style, SizePx: f.Size * scale}
}

// Align is the horizontal alignment of title lines.
type Align int

const (
	AlignLeft Align = iota
	// AlignCenter centres each line on Origin.X.
	AlignCenter
)

// Field names the event field shown in a detail row.
type Field string

// Detail fields.
const (
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldLocation Field = "location"
)

// Element is one entry of a layout table.
type Element interface {
	Layer() Layer
	validate() error
}

// IllustrationSlot places the decorative illustration.
type IllustrationSlot struct {
	illustration.Slot
}

// DividerLine is a straight stroke between two points.
type DividerLine struct {
	Start, End Point
	Color      color.NRGBA
	Width      float64
}

// LogoSlot places the square brand mark with its top-left corner at Origin.
type LogoSlot struct {
	Origin Point
	Size   float64
}

// TitleBlock draws the event title one explicit line at a time, starting
// with the top of the first line at Origin and advancing LineSpacing per line.
type TitleBlock struct {
	Origin      Point
	Font        Font
	LineSpacing float64
	Color       color.NRGBA
	Align       Align
}

// DetailRow pairs an icon with a wrapped line of event detail text.
type DetailRow struct {
	Field        Field
	Icon         icons.Type
	IconOrigin   Point
	IconSize     float64
	TextOrigin   Point
	Font         Font
	Color        color.NRGBA
	MaxWrapWidth float64
	LineHeight   float64
}

func (IllustrationSlot) Layer() Layer { return LayerIllustration }
func (DividerLine) Layer() Layer      { return LayerDivider }
func (LogoSlot) Layer() Layer         { return LayerLogo }
func (TitleBlock) Layer() Layer       { return LayerTitle }
func (DetailRow) Layer() Layer        { return LayerDetail }

func (e IllustrationSlot) validate() error { return e.Slot.Validate() }

func (e DividerLine) validate() error {
	if e.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "divider width must be positive")
	}
	return nil
}

func (e LogoSlot) validate() error {
	if e.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "logo size must be positive")
	}
	return nil
}

func (e TitleBlock) validate() error {
	if e.Font.Size <= 0 || e.LineSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "title font size and spacing must be positive")
	}
	return nil
}

func (e DetailRow) validate() error {
	if err := e.Icon.Validate(); err != nil {
		return fmt.Errorf("%s row: %w", e.Field, err)
	}
	if e.IconSize <= 0 || e.Font.Size <= 0 || e.MaxWrapWidth <= 0 || e.LineHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "%s row has a non-positive size", e.Field)
	}
	switch e.Field {
	case FieldDate, FieldTime, FieldLocation:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown detail field %q", e.Field)
}

// Definition is the element table of one format.
type Definition struct {
	Format   FormatID
	Elements []Element
}

// Validate checks every element. A layout referencing an unknown icon fails
// with INVALID_ICON_TYPE.
func (d Definition) Validate() error {
	logos, titles, illustrations := 0, 0, 0
	for _, el := range d.Elements {
		if err := el.validate(); err != nil {
			return fmt.Errorf("layout %s: %w", d.Format, err)
		}
		switch el.(type) {
		case LogoSlot:
			logos++
		case TitleBlock:
			titles++
		case IllustrationSlot:
			illustrations++
		}
	}
	if titles != 1 || logos > 1 || illustrations > 1 {
		return errors.New(errors.ErrCodeInternal, "layout %s: need one title and at most one logo and illustration", d.Format)
	}
	return nil
}

// Ordered returns the elements sorted into drawing order. Elements of the
// same layer keep their table order.
func (d Definition) Ordered() []Element {
	out := make([]Element, len(d.Elements))
	copy(out, d.Elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Layer() < out[j].Layer() })
	return out
}

// Illustration returns the illustration slot, if the layout has one.
func (d Definition) Illustration() (IllustrationSlot, bool) {
	for _, el := range d.Elements {
		if s, ok := el.(IllustrationSlot); ok {
			return s, true
		}
	}
	return IllustrationSlot{}, false
}

// Logo returns the logo slot, if the layout has one.
func (d Definition) Logo() (LogoSlot, bool) {
	for _, el := range d.Elements {
		if s, ok := el.(LogoSlot); ok {
			return s, true
		}
	}
	return LogoSlot{}, false
}

// Title returns the title block.
func (d Definition) Title() TitleBlock {
	for _, el := range d.Elements {
		if t, ok := el.(TitleBlock); ok {
			return t
		}
	}
	return TitleBlock{}
}

// Dividers returns the divider lines in table order.
func (d Definition) Dividers() []DividerLine {
	var out []DividerLine
	for _, el := range d.Elements {
		if l, ok := el.(DividerLine); ok {
			out = append(out, l)
		}
	}
	return out
}

// Rows returns the detail rows in table order.
func (d Definition) Rows() []DetailRow {
	var out []DetailRow
	for _, el := range d.Elements {
		if r, ok := el.(DetailRow); ok {
			out = append(out, r)
		}
	}
	return out
}

// Scale converts base-resolution values to canvas pixels.
type Scale float64

// Of multiplies v by the factor without rounding.
func (s Scale) Of(v float64) float64 { return v * float64(s) }

// Px multiplies v by the factor and rounds half away from zero.
func (s Scale) Px(v float64) int { return int(math.Round(v * float64(s))) }

// Pt scales a point.
func (s Scale) Pt(p Point) (int, int) { return s.Px(p.X), s.Px(p.Y) }
