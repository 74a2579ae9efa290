// Package pipeline renders an event in several formats at once.
//
// A batch resolves its options (formats, output prefix, illustration), then
// renders every format in parallel through a [graphic.Renderer], consulting
// the artifact cache first. Files are written only after every format has
// rendered. They are staged beside their destinations and moved into place
// together; if any move fails, files the batch replaced are restored.
//
//	runner := pipeline.NewRunner(renderer, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Event:     graphic.Event{Title: "La Mesa\nAbierta", Date: "Viernes 9 de Enero"},
//	    EventType: "mesa_abierta",
//	    IllustrationsDir: "illustrations",
//	})
//	for _, a := range result.Artifacts {
//	    fmt.Println(a.Path)
//	}
//
// The CLI and the HTTP server share this package so that both produce
// byte-identical graphics for the same input.
package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventcards/pkg/cache"
	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/prompts"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
	"github.com/matzehuels/eventcards/pkg/render/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutputDir is where files are written when no directory is given.
	DefaultOutputDir = "output"

	// DefaultPrefix is used when the title slugs to nothing.
	DefaultPrefix = "evento"

	// MaxSlugLength caps prefixes derived from titles.
	MaxSlugLength = 20
)

// =============================================================================
// Options
// =============================================================================

// Options configures one batch. It supports JSON for API requests.
type Options struct {
	Event     graphic.Event `json:"event"`
	EventType string        `json:"event_type,omitempty"`

	// Formats lists format ids or aliases. Empty means every format in
	// registry order.
	Formats []string `json:"formats,omitempty"`
	Scale   int      `json:"scale,omitempty"`

	// Prefix names output files <OutputDir>/<Prefix>_<format>.png. Empty
	// derives it from the title with Slug.
	Prefix    string `json:"prefix,omitempty"`
	OutputDir string `json:"-"`

	// IllustrationPath wins over the cached illustration of EventType in
	// IllustrationsDir.
	IllustrationPath string `json:"-"`
	IllustrationsDir string `json:"-"`

	// Refresh bypasses cache reads. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	formats   []layout.FormatID
	validated bool
}

// SetDefaults fills blank options.
func (o *Options) SetDefaults() {
	o.Event = o.Event.WithDefaults()
	if o.EventType == "" {
		o.EventType = prompts.Generic
	}
	if o.Scale == 0 {
		o.Scale = graphic.DefaultScale
	}
	if o.Prefix == "" {
		o.Prefix = Slug(o.Event.Title)
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults, checks every option and resolves
// format aliases. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	formats, err := ResolveFormats(o.Formats)
	if err != nil {
		return err
	}
	if err := errors.ValidateScale(o.Scale); err != nil {
		return err
	}
	if err := errors.ValidatePrefix(o.Prefix); err != nil {
		return err
	}
	if err := errors.ValidateEventType(o.EventType); err != nil {
		return err
	}
	if err := o.Event.Validate(); err != nil {
		return err
	}
	o.formats = formats
	o.validated = true
	return nil
}

// ResolveFormats canonicalizes ids and aliases, dropping duplicates. Empty
// input selects every format.
func ResolveFormats(ids []string) ([]layout.FormatID, error) {
	if len(ids) == 0 {
		return layout.IDs(), nil
	}
	seen := make(map[layout.FormatID]bool, len(ids))
	out := make([]layout.FormatID, 0, len(ids))
	for _, id := range ids {
		f, err := layout.Canonical(id)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// ResolvedFormats returns the canonical formats after validation.
func (o *Options) ResolvedFormats() []layout.FormatID {
	return append([]layout.FormatID(nil), o.formats...)
}

// Illustration returns the illustration file for this batch: the explicit
// path, else the cached file for EventType when it exists, else "".
func (o *Options) Illustration() string {
	if o.IllustrationPath != "" {
		return o.IllustrationPath
	}
	if o.IllustrationsDir == "" {
		return ""
	}
	p := prompts.IllustrationPath(o.IllustrationsDir, o.EventType)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// OutputPath returns the file written for format.
func (o *Options) OutputPath(format layout.FormatID) string {
	return filepath.Join(o.OutputDir, o.Prefix+"_"+string(format)+".png")
}

// ArtifactKeyOpts returns cache key options for format.
func (o *Options) ArtifactKeyOpts(format layout.FormatID, assets AssetHashes) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:           string(format),
		Scale:            o.Scale,
		Title:            o.Event.Title,
		Date:             o.Event.Date,
		Time:             o.Event.Time,
		Location:         o.Event.Location,
		IllustrationHash: assets.Illustration,
		LogoHash:         assets.Logo,
		FontsDir:         assets.FontsDir,
	}
}

// AssetHashes identifies the asset contents a batch renders with.
type AssetHashes struct {
	Illustration string
	Logo         string
	FontsDir     string
}

// Slug derives a file prefix from a title: lowercase, with spaces and line
// breaks turned into underscores, cut to MaxSlugLength characters. Path
// separators and other characters unsafe in file names are dropped.
func Slug(title string) string {
	title = strings.ReplaceAll(title, `\n`, "\n")
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(title) {
		if n == MaxSlugLength {
			break
		}
		switch {
		case r == ' ' || r == '\n' || r == '\r' || r == '\t':
			r = '_'
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		default:
			continue
		}
		b.WriteRune(r)
		n++
	}
	s := b.String()
	if strings.Trim(s, "_") == "" {
		return DefaultPrefix
	}
	return s
}
