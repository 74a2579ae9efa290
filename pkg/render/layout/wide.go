package layout

import (
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
)

// widePost is the 1200x630 link-preview post: title on the left, details in
// a right-hand column, logo in the bottom-right corner.
func widePost() Format {
	rows := rowTable{
		font:       Font{Family: fonts.Merriweather, Style: fonts.Regular, Size: 34},
		wrap:       430,
		lineHeight: 38,
	}
	return Format{
		Spec: Spec{ID: WidePost, BaseWidth: 1200, BaseHeight: 630, Description: "Wide social post (1200x630)"},
		Layout: Definition{
			Format: WidePost,
			Elements: []Element{
				IllustrationSlot{illustration.Slot{
					Anchor:  illustration.AnchorFixed,
					Width:   545,
					Height:  595,
					X:       50,
					Y:       20,
					Opacity: 0.13,
				}},
				DividerLine{Start: Point{63, 63}, End: Point{1137, 63}, Color: accent, Width: dividerWidth},
				DividerLine{Start: Point{63, 560}, End: Point{1025, 560}, Color: accent, Width: dividerWidth},
				LogoSlot{Origin: Point{1044, 512}, Size: 93},
				TitleBlock{
					Origin:      Point{63, 138},
					Font:        Font{Family: fonts.Montserrat, Style: fonts.Regular, Size: 130},
					LineSpacing: 125,
					Color:       ink,
				},
				rows.row(FieldDate, icons.Calendar, 645, 174, 36, 691, 170),
				rows.row(FieldTime, icons.Clock, 645, 262, 36, 691, 255),
				rows.row(FieldLocation, icons.Location, 645, 339, 36, 691, 339),
			},
		},
	}
}
