package text

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// monoMeasurer gives every rune the same advance, which makes expected line
// breaks easy to reason about.
type monoMeasurer struct{ advance float64 }

func (m monoMeasurer) MeasureString(s string) (float64, float64) {
	return float64(len([]rune(s))) * m.advance, m.advance * 1.2
}

func TestWrap(t *testing.T) {
	m := monoMeasurer{advance: 10}

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"empty", "", 100, nil},
		{"only spaces", "   \t ", 100, nil},
		{"single word fits", "hola", 100, []string{"hola"}},
		{"all on one line", "a b c", 50, []string{"a b c"}},
		{"exact fit", "abcd efgh", 90, []string{"abcd efgh"}},
		{"one over", "abcd efgh", 89, []string{"abcd", "efgh"}},
		{"greedy packing", "aa bb cc dd ee", 50, []string{"aa bb", "cc dd", "ee"}},
		{"long word alone", "a supercalifragilistic b", 50, []string{"a", "supercalifragilistic", "b"}},
		{"long first word", "supercalifragilistic a b", 50, []string{"supercalifragilistic", "a b"}},
		{"collapses whitespace", "  a\t\tb \n c  ", 100, []string{"a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, m, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	m := monoMeasurer{advance: 7}

	wordsGen := gen.SliceOf(gen.AlphaString())
	widthGen := gen.Float64Range(1, 600)

	properties.Property("lines fit the budget unless a single word overflows", prop.ForAll(
		func(words []string, maxWidth float64) bool {
			for _, line := range Wrap(strings.Join(words, " "), m, maxWidth) {
				if Width(m, line) > maxWidth && len(strings.Fields(line)) != 1 {
					return false
				}
			}
			return true
		},
		wordsGen, widthGen,
	))

	properties.Property("joined lines reproduce the normalized input", prop.ForAll(
		func(words []string, maxWidth float64) bool {
			input := strings.Join(words, " \t ")
			got := strings.Join(Wrap(input, m, maxWidth), " ")
			return got == strings.Join(strings.Fields(input), " ")
		},
		wordsGen, widthGen,
	))

	properties.Property("wrapping is deterministic", prop.ForAll(
		func(words []string, maxWidth float64) bool {
			input := strings.Join(words, " ")
			return reflect.DeepEqual(Wrap(input, m, maxWidth), Wrap(input, m, maxWidth))
		},
		wordsGen, widthGen,
	))

	properties.TestingRun(t)
}

func TestWrapWithFace(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 94, DPI: 72})
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	defer face.Close()

	m := FaceMeasurer{Face: face}
	location := "En diversas casas de la comunidad de fe en la ciudad"
	lines := Wrap(location, m, 1000)

	if len(lines) < 2 {
		t.Fatalf("Wrap() = %q, want at least 2 lines", lines)
	}
	for _, line := range lines {
		if w := Width(m, line); w > 1000 {
			t.Errorf("line %q width = %.1f, exceeds 1000", line, w)
		}
	}
}

func TestFaceMeasurerHeight(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 40, DPI: 72})
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	defer face.Close()

	w, h := FaceMeasurer{Face: face}.MeasureString("hola")
	if w <= 0 || h <= 0 {
		t.Errorf("MeasureString() = (%v, %v), want positive sizes", w, h)
	}
	if w2 := Width(FaceMeasurer{Face: face}, "hola hola"); w2 <= w {
		t.Errorf("longer string width %v should exceed %v", w2, w)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"single line", "La Mesa Abierta", []string{"La Mesa Abierta"}},
		{"explicit break", "La Mesa\nAbierta", []string{"La Mesa", "Abierta"}},
		{"escaped break", `La Mesa\nAbierta`, []string{"La Mesa", "Abierta"}},
		{"crlf", "La Mesa\r\nAbierta", []string{"La Mesa", "Abierta"}},
		{"blank line kept", "A\n\nB", []string{"A", "", "B"}},
		{"empty", "", nil},
		{"whitespace only", " \n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTitle(tt.title); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
