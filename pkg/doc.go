// Package pkg provides the core libraries for eventcards, a generator of
// branded event graphics.
//
// # Overview
//
// eventcards turns an event (title, date, time, location) into PNG graphics
// sized for presentation slides and social posts. The pkg directory is
// organized into three areas:
//
//  1. [render] - The drawing engine (layouts, text, icons, illustrations)
//  2. [pipeline] - Orchestration of multi-format batches with caching
//  3. Infrastructure - [cache], [history], [config], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Event + format ids
//	         ↓
//	    [pipeline] package (defaults, validation, illustration lookup)
//	         ↓
//	    [cache] package (artifact hit?) ──yes──→ cached PNG bytes
//	         ↓ no
//	    [render/graphic] package (plan + draw one format)
//	         ↓
//	    PNG files + [history] record
//
// # Quick Start
//
//	renderer := graphic.New(fonts.NewProvider("assets/fonts"), "assets/logo.png", logger)
//	runner := pipeline.NewRunner(renderer, cache.NewNullCache(), nil, logger)
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Event:     graphic.Event{Title: "La Mesa\nAbierta", Date: "Viernes 9 de Enero"},
//	    EventType: "mesa_abierta",
//	})
//	for _, path := range result.Files() {
//	    fmt.Println(path)
//	}
//
// # Main Packages
//
// [render] - Layout tables per format at base resolution, greedy word
// wrapping, vector icons, illustration compositing, and the renderer that
// scales and draws everything.
//
// [fonts] - Font resolution with a fallback chain: the configured fonts
// directory, system fonts, then bundled Go fonts.
//
// [prompts] - The catalog of illustration prompts per event type and the
// naming convention for cached illustration files.
//
// [pipeline] - Batch rendering used by the CLI and the HTTP API. Ensures
// consistent defaults, output naming and caching across entry points.
//
// [cache] - Artifact caches keyed by a hash of the event, format, scale and
// asset contents: FileCache (CLI), RedisCache (shared), NullCache.
//
// [history] - Render history: FileStore (CLI), MongoStore (shared),
// MemoryStore (server fallback and tests).
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/render/...             # Drawing engine
//	EVENTCARDS_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//	EVENTCARDS_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/history/...
//
// [render]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/render
// [render/graphic]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/render/graphic
// [fonts]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/fonts
// [prompts]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/prompts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/history
// [config]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/eventcards/pkg/observability
package pkg
