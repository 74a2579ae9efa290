package graphic

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/layout"
	"github.com/matzehuels/eventcards/pkg/render/text"
)

// Plan is the fully resolved placement of every element for one render, in
// canvas pixels. Positions are rounded from base values times the scale, so
// plans at different scales differ by the scale ratio within one pixel.
type Plan struct {
	Format layout.FormatID
	Width  int
	Height int
	Scale  int

	Illustration *layout.IllustrationSlot
	Dividers     []Divider
	Logo         *image.Rectangle
	Title        TextBlock
	Rows         []Row
}

// Divider is a scaled divider line.
type Divider struct {
	From, To image.Point
	Width    float64
	Color    color.NRGBA
}

// TextLine is one line of text. X and Y are the top-left of the line box;
// the baseline sits one font ascent below Y.
type TextLine struct {
	Text  string
	X, Y  int
	Width float64
}

// TextBlock is a run of lines drawn with one font and color.
type TextBlock struct {
	Font  fonts.Request
	Color color.NRGBA
	Lines []TextLine
}

// Row is a scaled detail row.
type Row struct {
	Field layout.Field
	Icon  icons.Type
	Box   icons.Box
	Text  TextBlock
}

// faces holds the open faces needed to plan and draw one format.
type faces struct {
	title, detail       fonts.Handle
	titleReq, detailReq fonts.Request
}

func (f faces) fallback() bool { return f.title.Fallback || f.detail.Fallback }

func (f faces) Close() {
	f.title.Close()
	f.detail.Close()
}

func (r *Renderer) openFaces(def layout.Definition, s layout.Scale) faces {
	var f faces
	f.titleReq = def.Title().Font.Request(float64(s))
	f.title = r.Fonts.Resolve(f.titleReq)

	rows := def.Rows()
	if len(rows) > 0 {
		f.detailReq = rows[0].Font.Request(float64(s))
	} else {
		f.detailReq = f.titleReq
	}
	f.detail = r.Fonts.Resolve(f.detailReq)
	return f
}

// buildPlan walks the layout in drawing order and scales every element.
func buildPlan(f layout.Format, ev Event, scale int, fc faces) *Plan {
	s := layout.Scale(scale)
	p := &Plan{
		Format: f.ID,
		Width:  f.BaseWidth * scale,
		Height: f.BaseHeight * scale,
		Scale:  scale,
	}

	for _, el := range f.Layout.Ordered() {
		switch el := el.(type) {
		case layout.IllustrationSlot:
			slot := el
			p.Illustration = &slot
		case layout.DividerLine:
			x1, y1 := s.Pt(el.Start)
			x2, y2 := s.Pt(el.End)
			p.Dividers = append(p.Dividers, Divider{
				From:  image.Pt(x1, y1),
				To:    image.Pt(x2, y2),
				Width: s.Of(el.Width),
				Color: el.Color,
			})
		case layout.LogoSlot:
			x, y := s.Pt(el.Origin)
			size := s.Px(el.Size)
			rect := image.Rect(x, y, x+size, y+size)
			p.Logo = &rect
		case layout.TitleBlock:
			p.Title = titleBlock(el, ev.Title, s, fc.title.Face, fc.titleReq)
		case layout.DetailRow:
			p.Rows = append(p.Rows, detailRow(el, ev.Field(el.Field), s, fc.detail.Face, fc.detailReq))
		}
	}
	return p
}

func titleBlock(t layout.TitleBlock, title string, s layout.Scale, face font.Face, req fonts.Request) TextBlock {
	m := text.FaceMeasurer{Face: face}
	block := TextBlock{Font: req, Color: t.Color}
	for i, line := range text.SplitTitle(title) {
		w := text.Width(m, line)
		x := s.Px(t.Origin.X)
		if t.Align == layout.AlignCenter {
			x -= int(w / 2)
		}
		block.Lines = append(block.Lines, TextLine{
			Text:  line,
			X:     x,
			Y:     s.Px(t.Origin.Y + float64(i)*t.LineSpacing),
			Width: w,
		})
	}
	return block
}

func detailRow(r layout.DetailRow, value string, s layout.Scale, face font.Face, req fonts.Request) Row {
	m := text.FaceMeasurer{Face: face}
	x, y := s.Pt(r.IconOrigin)
	row := Row{
		Field: r.Field,
		Icon:  r.Icon,
		Box:   icons.Box{X: float64(x), Y: float64(y), Size: float64(s.Px(r.IconSize))},
		Text:  TextBlock{Font: req, Color: r.Color},
	}
	tx := s.Px(r.TextOrigin.X)
	for i, line := range text.Wrap(value, m, s.Of(r.MaxWrapWidth)) {
		row.Text.Lines = append(row.Text.Lines, TextLine{
			Text:  line,
			X:     tx,
			Y:     s.Px(r.TextOrigin.Y + float64(i)*r.LineHeight),
			Width: text.Width(m, line),
		})
	}
	return row
}
