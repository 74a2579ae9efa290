package layout

import (
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
)

// squarePost is the 1:1 post: full-width top divider, logo between two
// bottom dividers, illustration bleeding off the right and bottom.
func squarePost() Format {
	rows := rowTable{
		font:       Font{Family: fonts.Merriweather, Style: fonts.Regular, Size: 47},
		wrap:       500,
		lineHeight: 50,
	}
	return Format{
		Spec: Spec{ID: SquarePost, BaseWidth: 1080, BaseHeight: 1080, Description: "Square social post (1:1)"},
		Layout: Definition{
			Format: SquarePost,
			Elements: []Element{
				IllustrationSlot{illustration.Slot{
					Anchor:  illustration.AnchorFixed,
					Width:   954,
					Height:  1041,
					X:       240,
					Y:       0,
					Opacity: 0.15,
				}},
				DividerLine{Start: Point{42, 109}, End: Point{1038, 109}, Color: accent, Width: dividerWidth},
				DividerLine{Start: Point{42, 940}, End: Point{461, 940}, Color: accent, Width: dividerWidth},
				DividerLine{Start: Point{613, 940}, End: Point{1032, 940}, Color: accent, Width: dividerWidth},
				LogoSlot{Origin: Point{497, 901}, Size: 87},
				TitleBlock{
					Origin:      Point{42, 140},
					Font:        Font{Family: fonts.Montserrat, Style: fonts.Regular, Size: 140},
					LineSpacing: 115,
					Color:       ink,
				},
				rows.row(FieldDate, icons.Calendar, 42, 486, 52, 109, 480),
				rows.row(FieldTime, icons.Clock, 42, 613, 52, 109, 603),
				rows.row(FieldLocation, icons.Location, 42, 726, 52, 109, 726),
			},
		},
	}
}
