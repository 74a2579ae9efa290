// Package fonts resolves logical font requests to usable font faces.
//
// A request names a brand family (Montserrat or Merriweather), a style and a
// pixel size. The Provider tries an ordered list of brand asset files in the
// configured fonts directory, then well-known system fonts located with
// go-findfont, and finally the Go fonts bundled with golang.org/x/image. The
// bundled step always succeeds, so Resolve never fails outright; when the
// primary asset was unavailable the returned Handle is marked as a fallback
// and a warning is logged once per family/style.
//
// Parsed font files are cached by path. Faces are created per call because a
// font.Face keeps internal buffers and is not safe for concurrent use.
package fonts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/eventcards/pkg/errors"
)

// Family is a logical brand font family.
type Family string

// Brand families.
const (
	Montserrat   Family = "montserrat"
	Merriweather Family = "merriweather"
)

// Style selects a weight or slant within a family.
type Style string

// Supported styles.
const (
	Regular Style = "regular"
	Light   Style = "light"
	Italic  Style = "italic"
)

// MinSizePx is the smallest pixel size a face is created at. Smaller or
// degenerate sizes are clamped to it.
const MinSizePx = 1.0

// Request describes a logical font.
type Request struct {
	Family Family
	Style  Style
	SizePx float64
}

// String renders r as "family/style@size".
func (r Request) String() string {
	return fmt.Sprintf("%s/%s@%.1f", r.Family, r.Style, r.SizePx)
}

// Handle is a resolved font face.
type Handle struct {
	Face     font.Face
	Source   string // file path, or "bundled:<name>"
	Fallback bool   // true when the primary brand asset was not used
}

// Close releases the face.
func (h Handle) Close() error {
	if h.Face == nil {
		return nil
	}
	return h.Face.Close()
}

// assetFiles lists the brand asset file names tried in order, per family/style.
// Every name in a list is the requested style; a different weight counts as
// a fallback.
var assetFiles = map[Family]map[Style][]string{
	Montserrat: {
		Regular: {"Montserrat.ttf", "Montserrat-Regular.ttf"},
		Light:   {"Montserrat-Light.ttf"},
		Italic:  {"Montserrat-Italic.ttf"},
	},
	Merriweather: {
		Regular: {"Merriweather-Regular.ttf", "Merriweather.ttf"},
		Light:   {"Merriweather-Light.ttf"},
		Italic:  {"Merriweather-Italic.ttf"},
	},
}

// systemFiles lists system font file names located with go-findfont when no
// brand asset exists. Collections (.ttc) use their first font.
var systemFiles = map[Family][]string{
	Montserrat:   {"Helvetica.ttc", "Arial.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf"},
	Merriweather: {"Georgia.ttf", "DejaVuSerif.ttf", "LiberationSerif-Regular.ttf"},
}

// Provider resolves font requests. It is safe for concurrent use.
type Provider struct {
	dir    string
	system bool
	logger *log.Logger

	mu     sync.Mutex
	parsed map[string]*opentype.Font
	warned map[string]bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithoutSystemFonts skips the system-font step, so fallbacks go straight to
// the bundled Go fonts. Output then no longer depends on the host.
func WithoutSystemFonts() Option {
	return func(p *Provider) { p.system = false }
}

// NewProvider creates a provider that looks for brand assets in dir.
func NewProvider(dir string, opts ...Option) *Provider {
	p := &Provider{
		dir:    dir,
		system: true,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		parsed: make(map[string]*opentype.Font),
		warned: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dir returns the brand asset directory.
func (p *Provider) Dir() string { return p.dir }

// Resolve returns a face for req. It never fails: when neither a brand asset
// nor a system font can be loaded, a bundled Go font is used.
func (p *Provider) Resolve(req Request) Handle {
	size := ClampSize(req.SizePx)

	if p.dir != "" {
		for _, name := range assetFiles[req.Family][req.Style] {
			path := filepath.Join(p.dir, name)
			if face, err := p.faceFromFile(path, size); err == nil {
				return Handle{Face: face, Source: path}
			}
		}
	}

	p.warnFallback(req)

	if p.system {
		for _, name := range systemFiles[req.Family] {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			if face, err := p.faceFromFile(path, size); err == nil {
				return Handle{Face: face, Source: path, Fallback: true}
			}
		}
	}

	name, data := bundled(req.Style)
	face, err := p.faceFromBytes("bundled:"+name, data, size)
	if err != nil {
		// The bundled fonts are compiled in; failing to parse them is a build defect.
		panic(fmt.Sprintf("fonts: bundled %s unusable: %v", name, err))
	}
	return Handle{Face: face, Source: "bundled:" + name, Fallback: true}
}

// ClampSize guards against non-positive and non-finite sizes.
func ClampSize(size float64) float64 {
	if size != size || size < MinSizePx { // NaN or too small
		return MinSizePx
	}
	return size
}

func bundled(style Style) (string, []byte) {
	if style == Italic {
		return "goitalic", goitalic.TTF
	}
	return "goregular", goregular.TTF
}

func (p *Provider) warnFallback(req Request) {
	key := string(req.Family) + "/" + string(req.Style)
	p.mu.Lock()
	seen := p.warned[key]
	p.warned[key] = true
	p.mu.Unlock()
	if seen {
		return
	}
	err := errors.New(errors.ErrCodeFontAssetMissing, "no %s asset in %q", key, p.dir)
	p.logger.Warn("font asset unavailable, using fallback", "font", key, "dir", p.dir, "err", err)
}

// Warned reports whether a fallback warning has been emitted for family/style.
func (p *Provider) Warned(f Family, s Style) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.warned[string(f)+"/"+string(s)]
}

func (p *Provider) faceFromFile(path string, size float64) (font.Face, error) {
	p.mu.Lock()
	f, ok := p.parsed[path]
	p.mu.Unlock()
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		f, err = parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		p.store(path, f)
	}
	return newFace(f, size)
}

func (p *Provider) faceFromBytes(key string, data []byte, size float64) (font.Face, error) {
	p.mu.Lock()
	f, ok := p.parsed[key]
	p.mu.Unlock()
	if !ok {
		var err error
		if f, err = parse(data); err != nil {
			return nil, err
		}
		p.store(key, f)
	}
	return newFace(f, size)
}

// store caches f under key. Concurrent parses of the same file may race to
// store; both results are equivalent, so the first one wins.
func (p *Provider) store(key string, f *opentype.Font) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.parsed[key]; !ok {
		p.parsed[key] = f
	}
}

func parse(data []byte) (*opentype.Font, error) {
	if f, err := opentype.Parse(data); err == nil {
		return f, nil
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if coll.NumFonts() == 0 {
		return nil, fmt.Errorf("empty font collection")
	}
	return coll.Font(0)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
