// Package icons draws the line-style glyphs used in detail rows.
//
// Every glyph is a fixed composition of primitive shapes expressed as ratios
// of a square box, so the same glyph scales to any size. The stroke width is
// max(2, size/12); interior calendar grid lines are 1px hairlines.
package icons

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/eventcards/pkg/errors"
)

// Type identifies a glyph.
type Type string

// The fixed glyph set.
const (
	Calendar Type = "calendar"
	Clock    Type = "clock"
	Location Type = "location"
)

// Types lists every glyph in display order.
var Types = []Type{Calendar, Clock, Location}

// Box is a square drawing region in canvas pixels.
type Box struct {
	X, Y float64
	Size float64
}

// StrokeWidth returns the outline width for a glyph of the given size.
func StrokeWidth(size float64) float64 {
	return math.Max(2, math.Floor(size/12))
}

// ParseType converts s into a Type. Unknown names fail with INVALID_ICON_TYPE.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports INVALID_ICON_TYPE for types outside the fixed set.
func (t Type) Validate() error {
	switch t {
	case Calendar, Clock, Location:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidIconType, "invalid icon type %q", string(t))
}

// Draw renders glyph t into box on dc using stroke color c.
func Draw(dc *gg.Context, t Type, box Box, c color.Color) error {
	if box.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "icon %s: size must be positive, got %v", t, box.Size)
	}

	dc.Push()
	defer dc.Pop()
	dc.SetColor(c)
	dc.SetLineCap(gg.LineCapButt)
	dc.SetLineJoin(gg.LineJoinRound)

	switch t {
	case Calendar:
		drawCalendar(dc, box)
	case Clock:
		drawClock(dc, box)
	case Location:
		drawLocation(dc, box)
	default:
		return fmt.Errorf("draw icon: %w", t.Validate())
	}
	return nil
}

func drawCalendar(dc *gg.Context, b Box) {
	x, y, s := b.X, b.Y, b.Size
	lw := StrokeWidth(s)

	// body occupies the lower four fifths
	dc.SetLineWidth(lw)
	dc.DrawRectangle(x, y+s/5, s, s-s/5)
	dc.Stroke()

	line(dc, x, y+s/3, x+s, y+s/3, lw)
	line(dc, x+s/4, y, x+s/4, y+s/4, lw)
	line(dc, x+s*3/4, y, x+s*3/4, y+s/4, lw)

	for i := 1.0; i <= 2; i++ {
		gy := y + s/3 + i*s/5
		line(dc, x+s/8, gy, x+s-s/8, gy, 1)
	}
	for i := 1.0; i <= 3; i++ {
		gx := x + i*s/4
		line(dc, gx, y+s/3+s/10, gx, y+s-s/10, 1)
	}
}

func drawClock(dc *gg.Context, b Box) {
	x, y, s := b.X, b.Y, b.Size
	lw := StrokeWidth(s)
	cx, cy := x+s/2, y+s/2

	dc.SetLineWidth(lw)
	dc.DrawCircle(cx, cy, s/2)
	dc.Stroke()

	line(dc, cx, cy, cx, y+s/4, lw)   // hour hand to 12
	line(dc, cx, cy, x+s*3/4, cy, lw) // minute hand to 3
}

func drawLocation(dc *gg.Context, b Box) {
	x, y, s := b.X, b.Y, b.Size
	lw := StrokeWidth(s)
	cx := x + s/2

	dc.SetLineWidth(lw)
	dc.DrawEllipse(cx, y+s/4, s/4, s/4)
	dc.Stroke()

	dc.DrawEllipse(cx, y+s/6+s/8, s/8, s/8)
	dc.Fill()

	dc.MoveTo(x+s/4, y+s/3)
	dc.LineTo(x+s*3/4, y+s/3)
	dc.LineTo(cx, y+s)
	dc.ClosePath()
	dc.SetLineWidth(lw)
	dc.Stroke()
}

func line(dc *gg.Context, x1, y1, x2, y2, width float64) {
	dc.SetLineWidth(width)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}
