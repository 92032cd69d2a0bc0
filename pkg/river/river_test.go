package river

import (
	"math"
	"testing"

	"github.com/matzehuels/trazo/pkg/lexicon"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"😊 🌊 💚", []string{"😊", "🌊", "💚"}},
		{"  🔥\t⚡\n", []string{"🔥", "⚡"}},
		{"", []string{Placeholder}},
		{"   ", []string{Placeholder}},
	}
	for _, tt := range tests {
		got := Parse(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Parse(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBuildStops(t *testing.T) {
	r := Build([]string{"😊", "🌊", "💚"})
	if len(r.Stops) != 3 {
		t.Fatalf("got %d stops", len(r.Stops))
	}
	wantX := []float64{1, 5, 9}
	for i, s := range r.Stops {
		if s.Index != i+1 {
			t.Errorf("stop %d index = %d", i, s.Index)
		}
		if math.Abs(s.X-wantX[i]) > 1e-9 {
			t.Errorf("stop %d x = %v, want %v", i, s.X, wantX[i])
		}
		if s.Color != lexicon.ColorFor(s.Symbol) {
			t.Errorf("stop %d color = %s", i, s.Color)
		}
		if math.Abs(s.Y-WaveY(s.X)) > 1e-12 {
			t.Errorf("stop %d is off the river", i)
		}
	}
}

func TestBuildSegments(t *testing.T) {
	r := Build([]string{"😊", "🌊", "💚"})
	if len(r.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(r.Segments))
	}
	// Each segment takes the color of its leading stop.
	if r.Segments[0].Color != "#FFD700" || r.Segments[1].Color != "#4682B4" {
		t.Errorf("segment colors = %s, %s", r.Segments[0].Color, r.Segments[1].Color)
	}
	for i, seg := range r.Segments {
		if len(seg.Points) < 2 {
			t.Fatalf("segment %d has %d points", i, len(seg.Points))
		}
		for _, p := range seg.Points {
			if p.X < r.Stops[i].X || p.X > r.Stops[i+1].X {
				t.Errorf("segment %d point %v outside its stops", i, p)
			}
		}
	}
}

func TestBuildSingleAndEmpty(t *testing.T) {
	r := Build([]string{"🌙"})
	if len(r.Stops) != 1 || len(r.Segments) != 0 {
		t.Errorf("single symbol: %d stops, %d segments", len(r.Stops), len(r.Segments))
	}
	if r.Stops[0].X != FirstStop {
		t.Errorf("single stop x = %v", r.Stops[0].X)
	}

	r = Build(nil)
	if len(r.Stops) != 1 || r.Stops[0].Symbol != Placeholder {
		t.Errorf("empty input should use the placeholder, got %+v", r.Stops)
	}
	if r.Stops[0].Color != lexicon.DefaultColor {
		t.Errorf("placeholder color = %s", r.Stops[0].Color)
	}
}

func TestLinspace(t *testing.T) {
	got := linspace(0, 10, 5)
	want := []float64{0, 2.5, 5, 7.5, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if linspace(0, 1, 0) != nil {
		t.Error("linspace with n=0 should be nil")
	}
}
