package icons

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"

	"github.com/matzehuels/eventcards/pkg/errors"
)

var ink = color.NRGBA{26, 26, 26, 255}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"calendar", Calendar, false},
		{"clock", Clock, false},
		{"location", Location, false},
		{"star", "", true},
		{"", "", true},
		{"Calendar", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && errors.GetCode(err) != errors.ErrCodeInvalidIconType {
				t.Errorf("code = %s, want INVALID_ICON_TYPE", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStrokeWidth(t *testing.T) {
	tests := []struct {
		size float64
		want float64
	}{
		{10, 2},
		{24, 2},
		{36, 3},
		{40, 3},
		{69, 5},
		{120, 10},
	}
	for _, tt := range tests {
		if got := StrokeWidth(tt.size); got != tt.want {
			t.Errorf("StrokeWidth(%v) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestDrawStaysInBox(t *testing.T) {
	box := Box{X: 20, Y: 20, Size: 60}
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			dc := gg.NewContext(100, 100)
			if err := Draw(dc, typ, box, ink); err != nil {
				t.Fatalf("Draw() error = %v", err)
			}
			img := dc.Image()

			inked := 0
			// strokes are centered on the outline, so allow half a stroke outside
			slack := int(StrokeWidth(box.Size)/2) + 1
			bounds := image.Rect(20-slack, 20-slack, 80+slack, 80+slack)
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
						continue
					}
					inked++
					if !image.Pt(x, y).In(bounds) {
						t.Fatalf("pixel (%d,%d) drawn outside the icon box", x, y)
					}
				}
			}
			if inked == 0 {
				t.Error("icon drew nothing")
			}
		})
	}
}

func TestDrawCalendarHangers(t *testing.T) {
	dc := gg.NewContext(100, 100)
	if err := Draw(dc, Calendar, Box{X: 0, Y: 0, Size: 96}, ink); err != nil {
		t.Fatal(err)
	}
	img := dc.Image()
	// left hanger runs along x = s/4 above the body
	if _, _, _, a := img.At(24, 8).RGBA(); a == 0 {
		t.Error("expected ink on the left hanger")
	}
	// nothing between the hangers above the body
	if _, _, _, a := img.At(48, 8).RGBA(); a != 0 {
		t.Error("expected no ink between the hangers")
	}
}

func TestDrawInvalid(t *testing.T) {
	dc := gg.NewContext(10, 10)

	err := Draw(dc, Type("star"), Box{Size: 5}, ink)
	if errors.GetCode(err) != errors.ErrCodeInvalidIconType {
		t.Errorf("unknown type: code = %s, want INVALID_ICON_TYPE", errors.GetCode(err))
	}

	err = Draw(dc, Clock, Box{Size: 0}, ink)
	if errors.GetCode(err) != errors.ErrCodeInvalidDimensions {
		t.Errorf("zero size: code = %s, want INVALID_DIMENSIONS", errors.GetCode(err))
	}
}
