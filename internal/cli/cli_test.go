package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/trazo/pkg/config"
	"github.com/matzehuels/trazo/pkg/render"
)

func TestRenderFlagsOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Fonts.Path = "/fonts/a.ttf"

	opts := renderFlags{}.options(cfg)
	if opts.Canvas != cfg.Canvas || opts.FontPath != "/fonts/a.ttf" || opts.Refresh {
		t.Errorf("zero flags should keep config: %+v", opts)
	}

	opts = renderFlags{width: 5, dpi: 72, font: "/fonts/b.ttf", refresh: true}.options(cfg)
	want := render.Canvas{WidthIn: 5, HeightIn: cfg.Canvas.HeightIn, DPI: 72}
	if opts.Canvas != want || opts.FontPath != "/fonts/b.ttf" || !opts.Refresh {
		t.Errorf("flags should override config: %+v", opts)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"river", "trace", "inspect", "lexicon", "diary", "serve", "gallery", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	var stdout bytes.Buffer
	c.out = &stdout

	if err := c.writeOutput("-", []byte("png")); err != nil || stdout.String() != "png" {
		t.Errorf("stdout write = %q, %v", stdout.String(), err)
	}

	path := filepath.Join(t.TempDir(), "a", "b.png")
	if err := c.writeOutput(path, []byte("png")); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "png" {
		t.Errorf("file contents = %q", data)
	}
}

func TestPlainChat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Gallery.Dir = t.TempDir()
	c.Config.Canvas = render.Canvas{WidthIn: 2, HeightIn: 2, DPI: 40}

	d, cleanup, err := c.newDiary(context.Background(), renderFlags{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	var out bytes.Buffer
	cmd := c.diaryCommand()
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	in := strings.NewReader("hola\n\n😊 🌊\n/rio\n")
	if err := c.plainChat(cmd, d, "cli-test", in); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "la alegría") {
		t.Errorf("missing interpretation in output:\n%s", got)
	}
	if !strings.Contains(got, filepath.Join(c.Config.Gallery.Dir, "rio_")) {
		t.Errorf("missing river image path in output:\n%s", got)
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8000"); got != "localhost:8000" {
		t.Errorf("displayAddr = %s", got)
	}
	if got := displayAddr("0.0.0.0:9"); got != "0.0.0.0:9" {
		t.Errorf("displayAddr = %s", got)
	}
}

func TestFormatSize(t *testing.T) {
	if formatSize(10) != "10 B" || formatSize(2048) != "2 KB" {
		t.Errorf("formatSize = %s, %s", formatSize(10), formatSize(2048))
	}
}
