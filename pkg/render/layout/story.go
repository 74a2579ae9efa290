package layout

import (
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/render/icons"
	"github.com/matzehuels/eventcards/pkg/render/illustration"
)

// verticalStory is the 9:16 story: no logo or dividers, a large title at the
// top and the illustration filling the lower half.
func verticalStory() Format {
	rows := rowTable{
		font:       Font{Family: fonts.Merriweather, Style: fonts.Regular, Size: 65},
		wrap:       850,
		lineHeight: 70,
	}
	return Format{
		Spec: Spec{ID: VerticalStory, BaseWidth: 1080, BaseHeight: 1920, Description: "Vertical story (9:16)"},
		Layout: Definition{
			Format: VerticalStory,
			Elements: []Element{
				IllustrationSlot{illustration.Slot{
					Anchor:  illustration.AnchorFixed,
					Width:   954,
					Height:  1041,
					X:       63,
					Y:       750,
					Opacity: 0.15,
				}},
				TitleBlock{
					Origin:      Point{72, 286},
					Font:        Font{Family: fonts.Montserrat, Style: fonts.Regular, Size: 175},
					LineSpacing: 145,
					Color:       ink,
				},
				rows.row(FieldDate, icons.Calendar, 72, 807, 69, 161, 798),
				rows.row(FieldTime, icons.Clock, 72, 974, 69, 161, 960),
				rows.row(FieldLocation, icons.Location, 72, 1122, 69, 161, 1122),
			},
		},
	}
}
