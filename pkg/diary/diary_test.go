package diary

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trazo/pkg/agent"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/pipeline"
	"github.com/matzehuels/trazo/pkg/render"
	"github.com/matzehuels/trazo/pkg/session"
)

func TestExtractEmojis(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hola", nil},
		{"😊 🌊", []string{"😊", "🌊"}},
		{"me siento😊y luego🔥!", []string{"😊", "🔥"}},
		{"❤️ ☁️ ⭐ ⚡", []string{"❤️", "☁️", "⭐", "⚡"}},
		{"👨‍👩‍👧", []string{"👨‍👩‍👧"}},
		{"🇲🇽", []string{"🇲🇽"}},
		{"1️⃣ y 2", []string{"1️⃣"}},
		{"año 2024 ñ á", nil},
	}
	for _, tt := range tests {
		if got := ExtractEmojis(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractEmojis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectImageCommand(t *testing.T) {
	tests := []struct {
		msg  string
		ok   bool
		name string
		kind CommandKind
		rest string
	}{
		{"/imagen", true, "/imagen", CommandTrace, ""},
		{"!imagen por favor", true, "!imagen", CommandTrace, "por favor"},
		{"¿Puedes VISUALIZA esto?", true, "visualiza", CommandTrace, "¿Puedes  esto?"},
		{"crea imagen", true, "crea imagen", CommandTrace, ""},
		{"Genera imagen ya", true, "genera imagen", CommandTrace, "ya"},
		{"/rio", true, "/rio", CommandRiver, ""},
		{"!río 🌊", true, "!río", CommandRiver, "🌊"},
		{"hola 😊", false, "", 0, ""},
		{"imagen", false, "", 0, ""},
		{"me encanta la visualización", false, "", 0, ""},
		{"vino de /rioja", false, "", 0, ""},
		{"revisualiza", false, "", 0, ""},
		{"la visualización y /rio", true, "/rio", CommandRiver, "la visualización y"},
		{"visualiza, por favor", true, "visualiza", CommandTrace, ", por favor"},
	}
	for _, tt := range tests {
		cmd, ok := DetectImageCommand(tt.msg)
		if ok != tt.ok {
			t.Errorf("DetectImageCommand(%q) ok = %v", tt.msg, ok)
			continue
		}
		if ok && (cmd.Name != tt.name || cmd.Kind != tt.kind || cmd.Rest != tt.rest) {
			t.Errorf("DetectImageCommand(%q) = %+v", tt.msg, cmd)
		}
	}
}

func newDiary(t *testing.T, a agent.Agent) (*Diary, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "imagenes")
	runner := pipeline.NewRunner(nil, gallery.NewDirStore(dir), log.New(io.Discard))
	runner.Options.Canvas = render.Canvas{WidthIn: 4, HeightIn: 3, DPI: 40}
	runner.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return New(session.NewMemoryStore(), a, runner, log.New(io.Discard)), dir
}

func TestImageCommandWithoutInterpretation(t *testing.T) {
	d, dir := newDiary(t, nil)
	reply, err := d.Handle(context.Background(), "s1", "/imagen")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != NoInterpretation || reply.Image != nil {
		t.Errorf("reply = %+v", reply)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("no image should have been written")
	}
}

func TestConversationFlow(t *testing.T) {
	ctx := context.Background()
	d, dir := newDiary(t, nil)

	r1, err := d.Handle(ctx, "s1", "hoy 😊")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r1.Text, "😊 → la alegría") || len(r1.Emojis) != 1 {
		t.Errorf("first reply = %+v", r1)
	}

	r2, _ := d.Handle(ctx, "s1", "luego 🌊")
	if len(r2.Emojis) != 2 || !strings.Contains(r2.Text, "Transición") {
		t.Errorf("second reply = %+v", r2)
	}

	sess, _ := d.Sessions.Get(ctx, "s1")
	if sess.Interpretation != r2.Text {
		t.Error("reply to an emoji message should be stored as the interpretation")
	}

	// No emoji: the interpretation is kept.
	_, _ = d.Handle(ctx, "s1", "¿y ahora?")
	sess, _ = d.Sessions.Get(ctx, "s1")
	if sess.Interpretation != r2.Text {
		t.Error("plain message replaced the interpretation")
	}

	r3, err := d.Handle(ctx, "s1", "/imagen")
	if err != nil {
		t.Fatal(err)
	}
	if r3.Image == nil || r3.Image.Name != "trazo_20240301_100000.png" || r3.Command != "/imagen" {
		t.Fatalf("image reply = %+v", r3)
	}
	if _, err := os.Stat(filepath.Join(dir, r3.Image.Name)); err != nil {
		t.Errorf("image not saved: %v", err)
	}

	sess, _ = d.Sessions.Get(ctx, "s1")
	if len(sess.Emojis) != 0 || sess.HasInterpretation() {
		t.Errorf("session not cleared after image: %+v", sess)
	}
	r4, _ := d.Handle(ctx, "s1", "/imagen")
	if r4.Text != NoInterpretation {
		t.Error("second image command should need a new interpretation")
	}
}

func TestRiverCommand(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiary(t, nil)

	if r, _ := d.Handle(ctx, "s", "/rio"); r.Text != NoEmojis {
		t.Errorf("empty river reply = %q", r.Text)
	}
	_, _ = d.Handle(ctx, "s", "😊 🌊")
	r, err := d.Handle(ctx, "s", "/rio")
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "✨ He creado una visualización de tu río emocional con los emojis: 😊 🌊" {
		t.Errorf("reply = %q", r.Text)
	}
	if r.Image == nil || r.Image.Kind != gallery.KindRiver {
		t.Errorf("image = %+v", r.Image)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiary(t, nil)
	_, _ = d.Handle(ctx, "a", "😊")
	r, _ := d.Handle(ctx, "b", "/imagen")
	if r.Text != NoInterpretation {
		t.Error("session b saw session a's interpretation")
	}
}

func TestDefaultSession(t *testing.T) {
	d, _ := newDiary(t, nil)
	r, err := d.Handle(context.Background(), "", "🌙")
	if err != nil || r.SessionID != session.DefaultID {
		t.Errorf("reply = %+v, %v", r, err)
	}
}

func TestInvalidInput(t *testing.T) {
	d, _ := newDiary(t, nil)
	if _, err := d.Handle(context.Background(), "../x", "hola"); !terrors.Is(err, terrors.ErrCodeInvalidSession) {
		t.Errorf("bad session id error = %v", err)
	}
	if _, err := d.Handle(context.Background(), "s", "\xff"); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("bad text error = %v", err)
	}
}

type brokenAgent struct{}

func (brokenAgent) Name() string { return "broken" }
func (brokenAgent) Reply(context.Context, agent.Request) (string, error) {
	return "", errors.New("offline")
}

func TestAgentFailure(t *testing.T) {
	d, _ := newDiary(t, brokenAgent{})
	_, err := d.Handle(context.Background(), "s", "😊")
	if !terrors.Is(err, terrors.ErrCodeAgent) {
		t.Errorf("error = %v, want agent error", err)
	}
}

func TestCreateVisualizationFailure(t *testing.T) {
	runner := pipeline.NewRunner(nil, gallery.NewDirStore(t.TempDir()), log.New(io.Discard))
	runner.Options.Canvas = render.Canvas{WidthIn: -1, HeightIn: 1, DPI: 1}
	msg, img, err := CreateVisualization(context.Background(), runner, "😊")
	if err == nil || img != nil || !strings.HasPrefix(msg, "⚠️ Hubo un problema al crear la visualización: ") {
		t.Errorf("CreateVisualization = %q, %v, %v", msg, img, err)
	}
}

func TestConcurrentMessages(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiary(t, nil)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Handle(ctx, "shared", "🔥")
		}()
	}
	wg.Wait()
	sess, _ := d.Sessions.Get(ctx, "shared")
	if len(sess.Emojis) != 20 {
		t.Errorf("lost updates: %d emojis, want 20", len(sess.Emojis))
	}
}
