package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/pipeline"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	title        string
	date         string
	time         string
	location     string
	eventType    string
	formats      string // comma-separated ids or aliases; "all" or empty for every format
	scale        int
	prefix       string
	outputDir    string
	illustration string
	noCache      bool
	refresh      bool
}

// renderCommand creates the render command.
//
// Unset flags fall back to the config file: output directory, scale and
// illustrations directory.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render event graphics in one or more formats",
		Long: `Render an event as PNG graphics.

Each format is written to <output-dir>/<prefix>_<format>.png. The prefix
defaults to a slug of the title. A literal \n in the title starts a new line.`,
		Example: `  eventcards render --title 'La Mesa\nAbierta' --date 'Viernes 9 de Enero' --time '7:00 PM' --type mesa_abierta
  eventcards render --title 'Retiro' --format square_post,instagram_story --scale 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), c.pipelineOptions(opts), opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "event title (required)")
	cmd.Flags().StringVar(&opts.date, "date", graphic.DefaultDate, "event date")
	cmd.Flags().StringVar(&opts.time, "time", "", "event time")
	cmd.Flags().StringVar(&opts.location, "location", graphic.DefaultLocation, "event location")
	cmd.Flags().StringVarP(&opts.eventType, "type", "t", "", "event type for the cached illustration (see 'prompts list')")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", formatAll, "format(s), comma-separated, or 'all' (see 'formats')")
	cmd.Flags().IntVarP(&opts.scale, "scale", "s", 0, "output multiplier (default from config)")
	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", "", "output file prefix (default: slug of the title)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&opts.illustration, "illustration", "i", "", "illustration image (overrides the event type's cached file)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// pipelineOptions merges flags over config values.
func (c *CLI) pipelineOptions(o renderOpts) pipeline.Options {
	opts := pipeline.Options{
		Event: graphic.Event{
			Title:    o.title,
			Date:     o.date,
			Time:     o.time,
			Location: o.location,
		},
		EventType:        o.eventType,
		Formats:          parseFormats(o.formats),
		Scale:            o.scale,
		Prefix:           o.prefix,
		OutputDir:        o.outputDir,
		IllustrationPath: o.illustration,
		IllustrationsDir: c.cfg.IllustrationsDir,
		Refresh:          o.refresh,
		Logger:           c.Logger,
	}
	if opts.Scale == 0 {
		opts.Scale = c.cfg.Scale
	}
	if opts.OutputDir == "" {
		opts.OutputDir = c.cfg.OutputDir
	}
	return opts
}

// runRender executes one batch and prints the written files.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close(context.Background())

	formats := opts.ResolvedFormats()
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d format(s)...", len(formats)))
	spinner.Start()
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d graphics", len(result.Artifacts)))

	printSuccess("Rendered %s", StyleHighlight.Render(opts.Event.Title))
	for _, a := range result.Artifacts {
		printArtifact(a.Path, a.Width, a.Height, a.Cached)
		for _, s := range a.Skipped {
			if s.Path != "" {
				printDetail("%s skipped: %s not found", s.Layer, s.Path)
			}
		}
		if a.FontFallback {
			printWarning("%s: brand fonts missing, drawn with a fallback face", a.Format)
		}
	}
	if opts.Illustration() == "" {
		printNextStep("Create an illustration placeholder", fmt.Sprintf("%s prompts placeholder %s", appName, opts.EventType))
	}
	return nil
}
