package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/eventcards/pkg/config"
	"github.com/matzehuels/eventcards/pkg/prompts"
)

// testEnv writes a config file with every path under a temp dir and returns
// the CLI, the dir and a buffer capturing command output.
func testEnv(t *testing.T) (*CLI, string, *bytes.Buffer) {
	t.Helper()
	for _, k := range []string{config.EnvFontsDir, config.EnvLogo, config.EnvRedisAddr, config.EnvMongoURI} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	cfg := strings.Join([]string{
		`fonts_dir = "` + filepath.ToSlash(filepath.Join(dir, "fonts")) + `"`,
		`logo_path = "` + filepath.ToSlash(filepath.Join(dir, "logo.png")) + `"`,
		`illustrations_dir = "` + filepath.ToSlash(filepath.Join(dir, "illustrations")) + `"`,
		`output_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"`,
		`scale = 1`,
		`[cache]`,
		`backend = "file"`,
		`dir = "` + filepath.ToSlash(filepath.Join(dir, "cache")) + `"`,
		`[history]`,
		`dir = "` + filepath.ToSlash(filepath.Join(dir, "history")) + `"`,
	}, "\n")
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	c := New(io.Discard, LogInfo)
	c.configPath = path
	return c, dir, &buf
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	// RootCommand resets configPath to the flag default.
	path := c.configPath
	root := c.RootCommand()
	root.SetArgs(append(args, "--config", path))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"cache", "completion", "formats", "history", "interactive", "prompts", "render", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		if cmd.Name() != "help" {
			got = append(got, cmd.Name())
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"all", nil},
		{"ALL", nil},
		{"slide_4_3", []string{"slide_4_3"}},
		{"square_post, instagram_story,", []string{"square_post", "instagram_story"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPipelineOptionsUsesConfig(t *testing.T) {
	c := &CLI{cfg: config.Default()}
	c.cfg.Scale = 3
	c.cfg.OutputDir = "/srv/out"

	opts := c.pipelineOptions(renderOpts{title: "t", formats: "all"})
	if opts.Scale != 3 || opts.OutputDir != "/srv/out" || opts.Formats != nil {
		t.Errorf("config not applied: %+v", opts)
	}

	opts = c.pipelineOptions(renderOpts{title: "t", scale: 1, outputDir: "here", formats: "wide_post"})
	if opts.Scale != 1 || opts.OutputDir != "here" || !reflect.DeepEqual(opts.Formats, []string{"wide_post"}) {
		t.Errorf("flags should win: %+v", opts)
	}
}

func TestRenderCommand(t *testing.T) {
	c, dir, out := testEnv(t)

	err := execute(t, c, "render",
		"--title", `La Mesa\nAbierta`,
		"--date", "Viernes 9 de Enero",
		"--time", "7:00 PM",
		"--format", "square_post,ppt_4_3",
		"--type", "mesa_abierta",
	)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"la_mesa_abierta_square_post.png", "la_mesa_abierta_slide_4_3.png"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "la_mesa_abierta_square_post.png") {
		t.Errorf("output does not list files:\n%s", out)
	}

	// Second run is served from the file cache.
	out.Reset()
	if err := execute(t, c, "render", "--title", `La Mesa\nAbierta`, "--date", "Viernes 9 de Enero",
		"--time", "7:00 PM", "--format", "square_post", "--type", "mesa_abierta"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), iconCached) {
		t.Errorf("second run should report a cache hit:\n%s", out)
	}
}

func TestRenderCommandUnknownFormat(t *testing.T) {
	c, dir, _ := testEnv(t)

	err := execute(t, c, "render", "--title", "Retiro", "--format", "billboard")
	if err == nil || !strings.Contains(err.Error(), "UNKNOWN_FORMAT") {
		t.Fatalf("error = %v, want UNKNOWN_FORMAT", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Error("no output directory should be created")
	}
}

func TestRenderCommandRequiresTitle(t *testing.T) {
	c, _, _ := testEnv(t)
	if err := execute(t, c, "render"); err == nil {
		t.Fatal("render without --title should fail")
	}
}

func TestFormatsCommandJSON(t *testing.T) {
	c, _, out := testEnv(t)
	if err := execute(t, c, "formats", "--json"); err != nil {
		t.Fatal(err)
	}
	var infos []formatInfo
	if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(infos) != 4 || infos[0].ID != "slide_4_3" || infos[0].Width != 1024 || infos[0].Height != 768 {
		t.Errorf("formats = %+v", infos)
	}
}

func TestPromptsShowCommand(t *testing.T) {
	c, _, out := testEnv(t)
	if err := execute(t, c, "prompts", "show", "retiro", "--custom", "a lantern"); err != nil {
		t.Fatal(err)
	}
	want := prompts.Default().Build("retiro", "a lantern")
	if out.String() != want {
		t.Errorf("prompts show printed %q", out.String())
	}
}

func TestPromptsPlaceholderCommand(t *testing.T) {
	c, dir, _ := testEnv(t)
	if err := execute(t, c, "prompts", "placeholder", "retiro", "navidad"); err != nil {
		t.Fatal(err)
	}
	for _, typ := range []string{"retiro", "navidad"} {
		if _, err := os.Stat(prompts.IllustrationPath(filepath.Join(dir, "illustrations"), typ)); err != nil {
			t.Errorf("placeholder for %s: %v", typ, err)
		}
	}
	if err := execute(t, c, "prompts", "placeholder"); err == nil {
		t.Error("placeholder without types should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	c, dir, out := testEnv(t)
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", got)
	}

	if err := execute(t, c, "render", "--title", "Navidad", "--format", "wide_post"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache not cleared: %d entries", len(entries))
	}
}

func TestHistoryCommand(t *testing.T) {
	c, dir, out := testEnv(t)
	if err := execute(t, c, "history"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No renders recorded yet") {
		t.Errorf("empty history output = %q", out.String())
	}

	if err := execute(t, c, "render", "--title", "Mesa Abierta", "--format", "square_post"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "history"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("history files = %d, want 1", len(entries))
	}

	out.Reset()
	if err := execute(t, c, "history", "-n", "5"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Mesa Abierta") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestBadConfigFails(t *testing.T) {
	c, dir, _ := testEnv(t)
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.configPath = bad
	if err := execute(t, c, "formats"); err == nil {
		t.Fatal("invalid config should fail")
	}
}
