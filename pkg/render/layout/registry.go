package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/render/icons"
)

// FormatID identifies an output format.
type FormatID string

// The fixed set of formats.
const (
	Slide43       FormatID = "slide_4_3"
	SquarePost    FormatID = "square_post"
	VerticalStory FormatID = "vertical_story"
	WidePost      FormatID = "wide_post"
)

// Spec gives the base (unscaled) pixel dimensions of a format.
type Spec struct {
	ID          FormatID
	BaseWidth   int
	BaseHeight  int
	Description string
}

// Format pairs a Spec with its layout table.
type Format struct {
	Spec
	Layout Definition
}

// aliases maps legacy channel-oriented names to format ids.
var aliases = map[string]FormatID{
	"ppt_4_3":         Slide43,
	"instagram_post":  SquarePost,
	"instagram_story": VerticalStory,
	"facebook_post":   WidePost,
}

var registry = mustBuild(slide43(), squarePost(), verticalStory(), widePost())

func mustBuild(formats ...Format) []Format {
	for _, f := range formats {
		if f.Layout.Format != f.ID {
			panic(fmt.Sprintf("layout: definition for %s registered as %s", f.Layout.Format, f.ID))
		}
		if err := f.Layout.Validate(); err != nil {
			panic(err)
		}
	}
	return formats
}

// Canonical maps id or one of its aliases to a FormatID. Matching ignores
// case and surrounding whitespace.
func Canonical(id string) (FormatID, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[key]; ok {
		return alias, nil
	}
	for _, f := range registry {
		if string(f.ID) == key {
			return f.ID, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnknownFormat, "unknown format %q", id)
}

// Resolve returns the format registered under id or one of its aliases.
// Unknown ids fail with UNKNOWN_FORMAT.
func Resolve(id string) (Format, error) {
	canonical, err := Canonical(id)
	if err != nil {
		return Format{}, err
	}
	for _, f := range registry {
		if f.ID == canonical {
			return f, nil
		}
	}
	return Format{}, errors.New(errors.ErrCodeInternal, "format %s has no layout", canonical)
}

// All returns every registered format in registry order.
func All() []Format {
	out := make([]Format, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the registered format ids in registry order.
func IDs() []FormatID {
	ids := make([]FormatID, len(registry))
	for i, f := range registry {
		ids[i] = f.ID
	}
	return ids
}

// AliasesOf returns the legacy names that resolve to id.
func AliasesOf(id FormatID) []string {
	var out []string
	for name, target := range aliases {
		if target == id {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// rowTable builds the detail rows of one format, which share a font, wrap
// width and line height.
type rowTable struct {
	font       Font
	wrap       float64
	lineHeight float64
}

func (t rowTable) row(field Field, icon icons.Type, ix, iy, size, tx, ty float64) DetailRow {
	return DetailRow{
		Field:        field,
		Icon:         icon,
		IconOrigin:   Point{ix, iy},
		IconSize:     size,
		TextOrigin:   Point{tx, ty},
		Font:         t.font,
		Color:        accent,
		MaxWrapWidth: t.wrap,
		LineHeight:   t.lineHeight,
	}
}
