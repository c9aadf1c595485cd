package aurora

import (
	"log/slog"
	"math"
)

// Defaults of the effect parameters.
const (
	DefaultAmplitude = 1.0
	DefaultBlend     = 0.5
	DefaultSpeed     = 0.5
)

// Renderer selects how a Widget evaluates the effect.
type Renderer int

const (
	// RendererAuto uses the GPU when the host exposes a HAL device and the
	// software program otherwise.
	RendererAuto Renderer = iota
	// RendererSoftware always shades on the CPU.
	RendererSoftware
	// RendererGPU requires a HAL device. Initialization fails with
	// ErrGraphicsUnavailable if the host has none.
	RendererGPU
)

// String returns the renderer name as used in configuration files.
func (r Renderer) String() string {
	switch r {
	case RendererAuto:
		return "auto"
	case RendererSoftware:
		return "software"
	case RendererGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// ParseRenderer is the inverse of Renderer.String.
func ParseRenderer(s string) (Renderer, bool) {
	switch s {
	case "", "auto":
		return RendererAuto, true
	case "software":
		return RendererSoftware, true
	case "gpu":
		return RendererGPU, true
	}
	return RendererAuto, false
}

// Config holds the options of a Widget. Use [DefaultConfig] and the With
// options rather than building one by hand.
type Config struct {
	ColorStops []string
	Amplitude  float32
	Blend      float32
	Speed      float32

	Renderer Renderer

	// PixelRatio scales the internal resolution of the software program.
	// Values in (0, 1) render fewer pixels and upsample.
	PixelRatio float32

	// Workers is the number of goroutines used by the software program.
	// Zero means GOMAXPROCS.
	Workers int

	Logger *slog.Logger

	// set records which fields an option touched, so SetOptions only
	// pushes what the caller changed.
	set fieldMask
}

type fieldMask uint8

const (
	fieldColorStops fieldMask = 1 << iota
	fieldAmplitude
	fieldBlend
	fieldSpeed
	fieldRenderer
	fieldPixelRatio
	fieldWorkers
	fieldLogger
)

// DefaultConfig returns the configuration of a widget built without options.
func DefaultConfig() Config {
	return Config{
		ColorStops: DefaultColorStops(),
		Amplitude:  DefaultAmplitude,
		Blend:      DefaultBlend,
		Speed:      DefaultSpeed,
		PixelRatio: 1,
	}
}

// Option configures a Widget.
//
// Example:
//
//	w := aurora.New(host, container,
//	    aurora.WithColorStops("#00d8ff", "#7cff67", "#00d8ff"),
//	    aurora.WithSpeed(1),
//	)
type Option func(*Config)

// WithColorStops sets the three gradient colors.
func WithColorStops(stops ...string) Option {
	stops = append([]string(nil), stops...)
	return func(c *Config) {
		c.ColorStops = stops
		c.set |= fieldColorStops
	}
}

// WithAmplitude sets the noise amplitude of the bands.
func WithAmplitude(a float32) Option {
	return func(c *Config) {
		c.Amplitude = a
		c.set |= fieldAmplitude
	}
}

// WithBlend sets the width of the soft band edge.
func WithBlend(b float32) Option {
	return func(c *Config) {
		c.Blend = b
		c.set |= fieldBlend
	}
}

// WithSpeed sets the animation speed. Zero selects the default.
func WithSpeed(s float32) Option {
	return func(c *Config) {
		c.Speed = s
		c.set |= fieldSpeed
	}
}

// WithRenderer forces a renderer. It only affects widgets that have not
// been initialized yet.
func WithRenderer(r Renderer) Option {
	return func(c *Config) {
		c.Renderer = r
		c.set |= fieldRenderer
	}
}

// WithPixelRatio sets the internal resolution scale of the software
// program. Values outside (0, 1] are treated as 1.
func WithPixelRatio(r float32) Option {
	return func(c *Config) {
		c.PixelRatio = r
		c.set |= fieldPixelRatio
	}
}

// WithWorkers sets the number of software shading goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
		c.set |= fieldWorkers
	}
}

// WithLogger gives the widget its own logger instead of [Logger].
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
		c.set |= fieldLogger
	}
}

// effectiveSpeed returns the speed used for the time uniform. A zero or
// NaN speed falls back to the default.
func (c *Config) effectiveSpeed() float32 {
	if c.Speed == 0 || math.IsNaN(float64(c.Speed)) {
		return DefaultSpeed
	}
	return c.Speed
}

func (c *Config) effectivePixelRatio() float32 {
	if !(c.PixelRatio > 0) || c.PixelRatio > 1 {
		return 1
	}
	return c.PixelRatio
}
