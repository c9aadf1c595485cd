package aurora

import (
	"math"
	"slices"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !slices.Equal(cfg.ColorStops, []string{"#3A29FF", "#FF94B4", "#FF3232"}) {
		t.Errorf("ColorStops = %v", cfg.ColorStops)
	}
	if cfg.Amplitude != 1 || cfg.Blend != 0.5 || cfg.Speed != 0.5 {
		t.Errorf("amplitude/blend/speed = %v/%v/%v", cfg.Amplitude, cfg.Blend, cfg.Speed)
	}
	if cfg.Renderer != RendererAuto || cfg.PixelRatio != 1 {
		t.Errorf("renderer = %v pixelRatio = %v", cfg.Renderer, cfg.PixelRatio)
	}
}

func TestOptionsRecordChanges(t *testing.T) {
	cfg := DefaultConfig()
	WithAmplitude(2)(&cfg)
	if cfg.Amplitude != 2 {
		t.Errorf("Amplitude = %v", cfg.Amplitude)
	}
	if cfg.set != fieldAmplitude {
		t.Errorf("set = %b, want only amplitude", cfg.set)
	}
	WithBlend(0.1)(&cfg)
	WithColorStops("#000", "#111", "#222")(&cfg)
	if cfg.set != fieldAmplitude|fieldBlend|fieldColorStops {
		t.Errorf("set = %b", cfg.set)
	}
}

func TestWithColorStopsCopies(t *testing.T) {
	stops := []string{"#000", "#111", "#222"}
	opt := WithColorStops(stops...)
	stops[0] = "#fff"
	cfg := DefaultConfig()
	opt(&cfg)
	if cfg.ColorStops[0] != "#000" {
		t.Errorf("option aliases caller slice: %v", cfg.ColorStops)
	}
}

func TestEffectiveSpeed(t *testing.T) {
	tests := []struct {
		speed float32
		want  float32
	}{
		{0.5, 0.5},
		{2, 2},
		{-1, -1},
		{0, DefaultSpeed},
		{float32(math.NaN()), DefaultSpeed},
	}
	for _, tt := range tests {
		cfg := Config{Speed: tt.speed}
		if got := cfg.effectiveSpeed(); got != tt.want {
			t.Errorf("effectiveSpeed(%v) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}

func TestEffectivePixelRatio(t *testing.T) {
	for in, want := range map[float32]float32{0: 1, -2: 1, 0.5: 0.5, 1: 1, 3: 1} {
		cfg := Config{PixelRatio: in}
		if got := cfg.effectivePixelRatio(); got != want {
			t.Errorf("effectivePixelRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRendererString(t *testing.T) {
	for _, r := range []Renderer{RendererAuto, RendererSoftware, RendererGPU} {
		got, ok := ParseRenderer(r.String())
		if !ok || got != r {
			t.Errorf("ParseRenderer(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if Renderer(42).String() != "unknown" {
		t.Error("unknown renderer string")
	}
	if _, ok := ParseRenderer("vulkan"); ok {
		t.Error("ParseRenderer(vulkan) ok = true")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateUninitialized: "Uninitialized",
		StateInitializing:  "Initializing",
		StateRunning:       "Running",
		StateDestroyed:     "Destroyed",
		State(9):           "Unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
