package pipeline

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

func graphicTestLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func mustPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	data, err := graphic.PNGBytes(img)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
