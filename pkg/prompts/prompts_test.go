package prompts

import (
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/eventcards/pkg/errors"
)

func TestDefaultTypesOrder(t *testing.T) {
	want := []string{
		"mesa_abierta", "culto_dominical", "estudio_biblico", "retiro",
		"navidad", "cuaresma", "pascua", "bautismo",
		"comunidad", "musica", "oracion", "generic",
	}
	if got := Default().Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestLookupFallsBackToGeneric(t *testing.T) {
	c := Default()
	if got := c.Lookup("karaoke"); got.Type != Generic {
		t.Errorf("Lookup(unknown) = %q, want generic", got.Type)
	}
	if got := c.Lookup("retiro"); got.Type != "retiro" || !strings.Contains(got.Subject, "Nature retreat") {
		t.Errorf("Lookup(retiro) = %+v", got)
	}
	if _, ok := c.Get("karaoke"); ok {
		t.Error("Get(unknown) should report false")
	}
}

func TestBuild(t *testing.T) {
	c := Default()

	tests := []struct {
		name      string
		eventType string
		custom    string
		contains  []string
		excludes  []string
	}{
		{
			name:      "known type",
			eventType: "mesa_abierta",
			contains:  []string{"abstract, artistic line drawing", "gathering around a table", "Additional requirements:", "15% opacity"},
			excludes:  []string{"Custom elements"},
		},
		{
			name:      "unknown type uses generic",
			eventType: "karaoke",
			contains:  []string{"Anglican church symbol"},
		},
		{
			name:      "custom elements appended",
			eventType: "navidad",
			custom:    "  a small lantern  ",
			contains:  []string{"Custom elements to incorporate:\na small lantern\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Build(tt.eventType, tt.custom)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Build() missing %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Build() unexpectedly contains %q", s)
				}
			}
			if strings.Index(got, "Subject:") < strings.Index(got, "ARTISTIC STYLE") {
				t.Error("subject should follow the base style")
			}
		})
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not toml", "base = "},
		{"missing generic", "base = \"b\"\n[[event]]\ntype = \"retiro\"\nsubject = \"s\"\n"},
		{"duplicate", "[[event]]\ntype = \"generic\"\n[[event]]\ntype = \"generic\"\n"},
		{"bad key", "[[event]]\ntype = \"a b\"\n[[event]]\ntype = \"generic\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() = nil error, want failure")
			}
		})
	}
}

func TestIllustrationPath(t *testing.T) {
	got := IllustrationPath("illustrations", "mesa_abierta")
	if want := filepath.Join("illustrations", "mesa_abierta_illustration.png"); got != want {
		t.Errorf("IllustrationPath() = %q, want %q", got, want)
	}
}

func TestWritePlaceholder(t *testing.T) {
	dir := t.TempDir()
	path, err := WritePlaceholder(dir, "retiro")
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != PlaceholderWidth || b.Dy() != PlaceholderHeight {
		t.Errorf("placeholder is %v", b)
	}

	if _, err := WritePlaceholder(dir, "../escape"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WritePlaceholder(../escape) error = %v, want INVALID_INPUT", err)
	}
}
