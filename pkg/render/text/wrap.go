// Package text measures and wraps strings for a given font face.
//
// Wrapping is greedy and word based: words are never split, and a word that
// alone exceeds the width budget occupies a line of its own. The algorithm
// depends only on the measured widths, so identical (text, face, width)
// inputs always produce identical line breaks.
package text

import (
	"strings"

	"golang.org/x/image/font"
)

// Measurer reports the rendered size of a string in pixels.
//
// *gg.Context satisfies this interface once a font face is set, which lets
// the renderer wrap text with the same face it draws with.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// FaceMeasurer adapts a font.Face to Measurer.
type FaceMeasurer struct {
	Face font.Face
}

// MeasureString returns the advance width of s and the face line height.
func (m FaceMeasurer) MeasureString(s string) (w, h float64) {
	adv := font.MeasureString(m.Face, s)
	return float64(adv) / 64, float64(m.Face.Metrics().Height) / 64
}

// Width is a convenience for the first result of m.MeasureString.
func Width(m Measurer, s string) float64 {
	w, _ := m.MeasureString(s)
	return w
}

// Wrap splits text on whitespace and greedily packs the words into lines
// whose measured width stays within maxWidth.
//
// Text with no words yields no lines. A single word wider than maxWidth is
// placed alone on its own line, unsplit.
func Wrap(text string, m Measurer, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if Width(m, candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// SplitTitle breaks a title into display lines on explicit line breaks.
// The two-character sequence `\n` is treated as a line break too, since
// shells pass it through literally. Empty lines are kept so that blank
// lines in the title still take up vertical space.
func SplitTitle(title string) []string {
	title = strings.ReplaceAll(title, `\n`, "\n")
	title = strings.ReplaceAll(title, "\r\n", "\n")
	if strings.TrimSpace(title) == "" {
		return nil
	}
	return strings.Split(title, "\n")
}
