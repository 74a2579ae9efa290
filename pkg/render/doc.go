// Package render groups the drawing engine for event graphics.
//
// # Overview
//
// Rendering turns an event (title, date, time, location), a format id and an
// optional illustration into a PNG at a chosen output scale. The work is
// split across subpackages, leaf first:
//
//   - [text]: text measurement and greedy word wrapping
//   - [icons]: calendar, clock and location glyphs drawn from primitives
//   - [illustration]: asset loading, resizing, fading and anchored pasting
//   - [layout]: per-format element tables and the format registry
//   - [graphic]: the renderer that scales a layout and draws its layers
//
// # Coordinates
//
// Layout tables are written at each format's base resolution. A render at
// scale s multiplies every coordinate, size, stroke width and font size by s
// and rounds positions to the nearest pixel, so a 2x render matches a 1x
// render scaled up to within one pixel.
//
//	r := graphic.New(fonts.NewProvider("assets/fonts"), "assets/logo.png", logger)
//	out, err := r.RenderToFile(ctx, graphic.Request{
//	    Event:  graphic.Event{Title: "La Mesa\nAbierta", Date: "Viernes 9 de Enero"},
//	    Format: "slide_4_3",
//	    Scale:  2,
//	}, "output/mesa_slide_4_3.png")
//
// [text]: github.com/matzehuels/eventcards/pkg/render/text
// [icons]: github.com/matzehuels/eventcards/pkg/render/icons
// [illustration]: github.com/matzehuels/eventcards/pkg/render/illustration
// [layout]: github.com/matzehuels/eventcards/pkg/render/layout
// [graphic]: github.com/matzehuels/eventcards/pkg/render/graphic
package render
