package layout

import (
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/palette"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
)

var (
	accent = palette.AmberDark
	ink    = palette.Black
)

// dividerWidth is the stroke of every divider line, in base pixels.
const dividerWidth = 4

// slide43 is the 4:3 presentation slide: logo centred between two top
// dividers, light title on the left, illustration on the right.
func slide43() Format {
	rows := rowTable{
		font:       Font{Family: fonts.Merriweather, Style: fonts.Italic, Size: 31},
		wrap:       816,
		lineHeight: 36,
	}
	return Format{
		Spec: Spec{ID: Slide43, BaseWidth: 1024, BaseHeight: 768, Description: "Presentation slide (4:3)"},
		Layout: Definition{
			Format: Slide43,
			Elements: []Element{
				IllustrationSlot{illustration.Slot{
					Anchor:  illustration.AnchorFixed,
					Width:   470,
					Height:  513,
					X:       530,
					Y:       140,
					Opacity: 0.15,
				}},
				DividerLine{Start: Point{77, 83}, End: Point{425, 83}, Color: accent, Width: dividerWidth},
				DividerLine{Start: Point{599, 83}, End: Point{947, 83}, Color: accent, Width: dividerWidth},
				DividerLine{Start: Point{75, 690}, End: Point{947, 690}, Color: accent, Width: dividerWidth},
				LogoSlot{Origin: Point{457, 34}, Size: 110},
				TitleBlock{
					Origin:      Point{59, 151},
					Font:        Font{Family: fonts.Montserrat, Style: fonts.Light, Size: 115},
					LineSpacing: 144,
					Color:       ink,
				},
				rows.row(FieldDate, icons.Calendar, 75, 440, 40, 129, 444),
				rows.row(FieldTime, icons.Clock, 77, 499, 39, 129, 500),
				rows.row(FieldLocation, icons.Location, 75, 551, 40, 131, 557),
			},
		},
	}
}
