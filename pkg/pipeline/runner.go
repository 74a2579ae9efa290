package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/eventcards/pkg/cache"
	"github.com/matzehuels/eventcards/pkg/history"
	"github.com/matzehuels/eventcards/pkg/observability"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
	"github.com/matzehuels/eventcards/pkg/render/layout"
)

const keyTypeArtifact = "artifact"

// Artifact is one rendered format.
type Artifact struct {
	Format layout.FormatID
	Path   string // empty until written
	Data   []byte // encoded PNG
	Width  int
	Height int
	Cached bool

	// Skipped and FontFallback describe fresh renders only; a cached
	// artifact carries what was true when it was rendered.
	Skipped      []graphic.Skip
	FontFallback bool
}

// Result contains the outputs of a batch.
type Result struct {
	// Artifacts are in the order formats were requested.
	Artifacts []Artifact
	Record    *history.Record
	Stats     Stats
}

// Stats contains batch statistics.
type Stats struct {
	CacheHits  int
	RenderTime time.Duration
	WriteTime  time.Duration
}

// Files returns the written paths in artifact order.
func (r *Result) Files() []string {
	var out []string
	for _, a := range r.Artifacts {
		if a.Path != "" {
			out = append(out, a.Path)
		}
	}
	return out
}

// Runner renders batches with caching.
//
// The Runner holds no per-batch state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Renderer *graphic.Renderer
	Cache    cache.Cache
	Keyer    cache.Keyer
	History  history.Store // optional
	Logger   *log.Logger

	// TTL is the artifact expiry; zero means cache.TTLArtifact.
	TTL time.Duration

	// Parallelism bounds concurrent renders; zero means GOMAXPROCS.
	Parallelism int
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func NewRunner(r *graphic.Renderer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if r == nil {
		r = graphic.New(nil, "", logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Runner{Renderer: r, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute renders every requested format, writes the files and records the
// batch in history. No file is written when any format fails to render, and
// a failed write restores the files the batch had already replaced.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, err := r.Render(ctx, opts)
	if err != nil {
		return nil, err
	}

	writeStart := time.Now()
	files := make([]outputFile, len(result.Artifacts))
	for i, a := range result.Artifacts {
		files[i] = outputFile{path: opts.OutputPath(a.Format), data: a.Data}
	}
	if err := writeAll(files); err != nil {
		return nil, err
	}
	for i := range result.Artifacts {
		result.Artifacts[i].Path = files[i].path
	}
	result.Stats.WriteTime = time.Since(writeStart)

	if r.History != nil {
		rec := history.NewRecord(opts.Event.Title, formatStrings(opts.formats), result.Files())
		rec.EventType = opts.EventType
		rec.Scale = opts.Scale
		rec.CacheHits = result.Stats.CacheHits
		if err := r.History.Add(ctx, rec); err != nil {
			r.Logger.Warn("history not recorded", "err", err)
		} else {
			result.Record = &rec
		}
	}
	return result, nil
}

// Render renders every requested format into memory.
func (r *Runner) Render(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	names := formatStrings(opts.formats)

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnBatchStart(ctx, names)
	defer func() { hooks.OnBatchComplete(ctx, names, time.Since(start), err) }()

	assets, illustrationPath := r.assets(&opts)

	artifacts := make([]Artifact, len(opts.formats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism())
	for i, format := range opts.formats {
		g.Go(func() error {
			a, err := r.renderFormat(gctx, opts, format, assets, illustrationPath)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result = &Result{Artifacts: artifacts}
	for _, a := range artifacts {
		if a.Cached {
			result.Stats.CacheHits++
		}
	}
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered graphics",
		"formats", names,
		"cached", result.Stats.CacheHits,
		"duration", result.Stats.RenderTime.Round(time.Millisecond))
	return result, nil
}

// assets resolves the illustration and hashes every asset file that can
// change the output. An asset that cannot be read hashes to "", the same as
// an absent one: the renderer skips that layer either way.
func (r *Runner) assets(opts *Options) (AssetHashes, string) {
	path := opts.Illustration()
	if path == "" {
		r.Logger.Debug("no illustration for event type", "event_type", opts.EventType)
	}
	var fontsDir string
	if r.Renderer.Fonts != nil {
		fontsDir = r.Renderer.Fonts.Dir()
	}
	return AssetHashes{
		Illustration: r.hashAsset("illustration", path),
		Logo:         r.hashAsset("logo", r.Renderer.LogoPath),
		FontsDir:     fontsDir,
	}, path
}

func (r *Runner) hashAsset(layer, path string) string {
	sum, err := cache.HashFile(path)
	if err != nil {
		r.Logger.Warn("asset unreadable", "layer", layer, "path", path, "err", err)
		return ""
	}
	return sum
}

func (r *Runner) renderFormat(ctx context.Context, opts Options, format layout.FormatID, assets AssetHashes, illustrationPath string) (Artifact, error) {
	f, err := layout.Resolve(string(format))
	if err != nil {
		return Artifact{}, err
	}
	key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format, assets))
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err == nil && hit {
			cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
			r.Logger.Debug("cache hit", "format", format)
			return Artifact{
				Format: format,
				Data:   data,
				Width:  f.BaseWidth * opts.Scale,
				Height: f.BaseHeight * opts.Scale,
				Cached: true,
			}, nil
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	out, err := r.Renderer.Render(ctx, graphic.Request{
		Event:            opts.Event,
		Format:           string(format),
		IllustrationPath: illustrationPath,
		Scale:            opts.Scale,
	})
	if err != nil {
		return Artifact{}, err
	}
	data, err := graphic.PNGBytes(out.Image)
	if err != nil {
		return Artifact{}, fmt.Errorf("encode png: %w", err)
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return Artifact{
		Format:       format,
		Data:         data,
		Width:        out.Width,
		Height:       out.Height,
		Skipped:      out.Skipped,
		FontFallback: out.FontFallback,
	}, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

func (r *Runner) parallelism() int {
	if r.Parallelism > 0 {
		return r.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// Close releases the cache and history store.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.History != nil {
		if herr := r.History.Close(ctx); err == nil {
			err = herr
		}
	}
	return err
}

func formatStrings(ids []layout.FormatID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
