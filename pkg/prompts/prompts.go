// Package prompts holds the catalog of illustration prompts, one per event
// type, and the naming convention for cached illustration files.
//
// Illustrations are produced outside this program from these prompts. The
// renderer only ever sees the resulting file, looked up by event type with
// [IllustrationPath].
package prompts

import (
	_ "embed"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/palette"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

// Generic is the event type used for unknown keys.
const Generic = "generic"

//go:embed catalog.toml
var catalogTOML []byte

// Prompt is the subject prompt of one event type.
type Prompt struct {
	Type    string `toml:"type" json:"type"`
	Title   string `toml:"title" json:"title"`
	Subject string `toml:"subject" json:"subject"`
}

// Catalog is an ordered set of prompts sharing a base style.
type Catalog struct {
	Base         string
	Requirements string
	prompts      []Prompt
	index        map[string]int
}

type catalogFile struct {
	Base         string   `toml:"base"`
	Requirements string   `toml:"requirements"`
	Event        []Prompt `toml:"event"`
}

// Parse decodes a TOML catalog. The catalog must define the generic type.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	c := &Catalog{
		Base:         strings.TrimSpace(f.Base),
		Requirements: strings.TrimSpace(f.Requirements),
		index:        make(map[string]int, len(f.Event)),
	}
	for _, p := range f.Event {
		if err := errors.ValidateEventType(p.Type); err != nil {
			return nil, fmt.Errorf("prompt catalog: %w", err)
		}
		if _, dup := c.index[p.Type]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "prompt catalog: duplicate event type %q", p.Type)
		}
		p.Subject = strings.TrimSpace(p.Subject)
		c.index[p.Type] = len(c.prompts)
		c.prompts = append(c.prompts, p)
	}
	if _, ok := c.index[Generic]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "prompt catalog: missing %q event type", Generic)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogTOML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Types returns the event types in catalog order.
func (c *Catalog) Types() []string {
	out := make([]string, len(c.prompts))
	for i, p := range c.prompts {
		out[i] = p.Type
	}
	return out
}

// All returns a copy of every prompt in catalog order.
func (c *Catalog) All() []Prompt {
	out := make([]Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Get returns the prompt for eventType.
func (c *Catalog) Get(eventType string) (Prompt, bool) {
	i, ok := c.index[eventType]
	if !ok {
		return Prompt{}, false
	}
	return c.prompts[i], true
}

// Lookup returns the prompt for eventType, or the generic prompt when the
// type is unknown.
func (c *Catalog) Lookup(eventType string) Prompt {
	if p, ok := c.Get(eventType); ok {
		return p
	}
	p, _ := c.Get(Generic)
	return p
}

// Build composes the full prompt for eventType: base style, subject, the
// placement requirements and any custom elements.
func (c *Catalog) Build(eventType, custom string) string {
	var b strings.Builder
	b.WriteString(c.Base)
	b.WriteString("\n\n")
	b.WriteString(c.Lookup(eventType).Subject)
	b.WriteString("\n\n")
	b.WriteString(c.Requirements)
	b.WriteString("\n")
	if custom = strings.TrimSpace(custom); custom != "" {
		b.WriteString("\nCustom elements to incorporate:\n")
		b.WriteString(custom)
		b.WriteString("\n")
	}
	return b.String()
}

// IllustrationPath returns the cached illustration file for eventType in dir.
func IllustrationPath(dir, eventType string) string {
	return filepath.Join(dir, eventType+"_illustration.png")
}

// Placeholder dimensions and alpha for stand-in illustrations.
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
	placeholderAlpha  = 50
)

// Placeholder returns a flat, faint gray image used until a real
// illustration for an event type exists.
func Placeholder() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	c := palette.GrayIllustration
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, placeholderAlpha
	}
	return img
}

// WritePlaceholder writes a placeholder illustration for eventType into dir
// and returns its path.
func WritePlaceholder(dir, eventType string) (string, error) {
	if err := errors.ValidateEventType(eventType); err != nil {
		return "", err
	}
	path := IllustrationPath(dir, eventType)
	if err := graphic.WritePNG(path, Placeholder()); err != nil {
		return "", err
	}
	return path, nil
}
