// Package palette defines the brand colors used by every event graphic.
//
// The values are fixed calibration data. They are exposed as package-level
// values of type color.NRGBA so that callers can pass them straight to
// drawing code without conversion.
package palette

import (
	"fmt"
	"image/color"
)

var (
	// Black is the brand text color (#1A1A1A).
	Black = rgb(26, 26, 26)

	// Amber is the light brand accent (#D4A853).
	Amber = rgb(212, 168, 83)

	// AmberDark is the accent used for divider lines, icons and detail text
	// in all layouts (#B8923D).
	AmberDark = rgb(184, 146, 61)

	// White is the canvas background (#FFFFFF).
	White = rgb(255, 255, 255)

	// GrayLight is the neutral light tone (#E5E5E5).
	GrayLight = rgb(229, 229, 229)

	// GrayIllustration is the tone used for placeholder illustrations (#DCDCDC).
	GrayIllustration = rgb(220, 220, 220)
)

// Background is the canvas fill color for every format.
var Background = White

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// Hex formats c as a lowercase #rrggbb string, ignoring alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
