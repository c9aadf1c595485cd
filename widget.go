package aurora

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/aurora/shader"
	"github.com/gogpu/aurora/surface"
)

// Scale factors from the frame timestamp in milliseconds to the time
// uniform. Applied in this order together with the speed; the visual
// tuning of the effect depends on the composed value.
const (
	timeScale   = 0.01
	timeDamping = 0.1
)

// Widget is an animated aurora background.
//
// A Widget exclusively owns its surface and program. Construction only
// schedules initialization; the surface is created on the next frame, once
// the container is laid out. Every callback checks the lifecycle state
// first, so nothing touches released resources after Destroy.
//
// Widget methods never panic and never return errors. Fatal problems are
// logged and reported by Err.
type Widget struct {
	mu sync.Mutex

	host      Host
	container Container
	cfg       Config
	log       *slog.Logger

	state State
	err   error

	graphics     any
	renderer     Renderer
	canvas       *surface.Canvas
	prog         program
	uniforms     shader.Uniforms
	cancelResize func()

	frameID      FrameID
	framePending bool

	frames   uint64
	programs int
}

// New creates a widget drawing into container and schedules its
// initialization on the next frame of host.
//
// A nil container leaves the widget inert with ErrContainerNotFound; a nil
// host leaves it inert with ErrGraphicsUnavailable.
func New(host Host, container Container, opts ...Option) *Widget {
	w := &Widget{
		host:      host,
		container: container,
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&w.cfg)
	}
	w.cfg.set = 0
	w.log = w.cfg.Logger
	if w.log == nil {
		w.log = Logger()
	}

	switch {
	case container == nil:
		w.err = ErrContainerNotFound
		w.log.Error("aurora: container not found")
		return w
	case host == nil:
		w.err = fmt.Errorf("%w: no host", ErrGraphicsUnavailable)
		w.log.Error("aurora: no host environment")
		return w
	}

	w.state = StateInitializing
	w.frameID = host.RequestFrame(w.init)
	w.framePending = true
	return w
}

// Mount resolves selector on host and creates a widget in the container it
// names. If the selector does not resolve, the widget is inert and Err
// reports ErrContainerNotFound.
func Mount(host Host, selector string, opts ...Option) *Widget {
	var container Container
	if host != nil {
		if c, ok := host.Lookup(selector); ok {
			container = c
		}
	}
	if container == nil {
		w := New(host, nil, opts...)
		w.err = fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
		return w
	}
	return New(host, container, opts...)
}

// init is the deferred initialization step.
func (w *Widget) init(time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.framePending = false
	if w.state != StateInitializing {
		return
	}
	defer w.recoverLocked("init")

	graphics, err := w.host.Graphics()
	if err != nil {
		w.abortLocked(fmt.Errorf("%w: %v", ErrGraphicsUnavailable, err))
		return
	}
	renderer, err := selectRenderer(w.cfg.Renderer, graphics)
	if err != nil {
		w.abortLocked(err)
		return
	}
	w.graphics = graphics

	vw, vh := w.host.Viewport()
	canvas, err := surface.New(max(vw, 1), max(vh, 1))
	if err != nil {
		w.failLocked(err)
		return
	}
	w.canvas = canvas
	w.container.Mount(canvas)
	w.cancelResize = w.host.OnResize(w.onResize)

	stops := w.parseColorsLocked()

	prog, err := newProgram(renderer, graphics, &w.cfg)
	if err != nil && w.cfg.Renderer == RendererAuto && renderer == RendererGPU {
		w.log.Warn("aurora: gpu program unavailable, using software", "error", err)
		renderer = RendererSoftware
		prog, err = newProgram(renderer, graphics, &w.cfg)
	}
	if err != nil {
		w.failLocked(err)
		return
	}
	w.prog = prog
	w.renderer = renderer
	w.programs++

	res := [2]float32{float32(canvas.Width()), float32(canvas.Height())}
	w.uniforms = shader.Uniforms{
		Amplitude:   w.cfg.Amplitude,
		ColorStops:  stops,
		Resolution:  res,
		Blend:       w.cfg.Blend,
		AspectRatio: res[0] / res[1],
	}

	w.state = StateRunning
	w.scheduleLocked()
	w.resizeLocked()
	if w.state != StateRunning {
		return
	}

	w.log.Info("aurora: initialized",
		"renderer", renderer.String(),
		"width", canvas.Width(), "height", canvas.Height())
}

// frame is the per-frame update.
func (w *Widget) frame(ts time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.framePending = false
	if w.state != StateRunning || w.prog == nil || w.canvas == nil {
		return
	}
	defer w.recoverLocked("frame")

	w.scheduleLocked()

	ms := float64(ts) / float64(time.Millisecond)
	t := ms * timeScale
	w.uniforms.Time = float32(t * float64(w.cfg.effectiveSpeed()) * timeDamping)
	w.uniforms.Amplitude = w.cfg.Amplitude
	w.uniforms.Blend = w.cfg.Blend

	if err := w.prog.Render(&w.uniforms, w.canvas.Image()); err != nil {
		w.failLocked(err)
		return
	}
	w.canvas.MarkDirty()
	w.frames++
}

func (w *Widget) onResize() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateRunning {
		return
	}
	defer w.recoverLocked("resize")
	w.resizeLocked()
}

// resizeLocked follows the viewport. Non-positive sizes are ignored.
func (w *Widget) resizeLocked() {
	if w.canvas == nil {
		return
	}
	vw, vh := w.host.Viewport()
	if vw <= 0 || vh <= 0 {
		return
	}
	if err := w.canvas.Resize(vw, vh); err != nil {
		w.failLocked(err)
		return
	}
	w.uniforms.Resolution = [2]float32{float32(vw), float32(vh)}
	w.uniforms.AspectRatio = float32(vw) / float32(vh)
	w.log.Debug("aurora: resized", "width", vw, "height", vh)
}

func (w *Widget) scheduleLocked() {
	w.frameID = w.host.RequestFrame(w.frame)
	w.framePending = true
}

// parseColorsLocked converts the configured stops, logging one warning per
// replaced entry.
func (w *Widget) parseColorsLocked() [3]RGB {
	stops, errs := ParseColorStops(w.cfg.ColorStops)
	for _, err := range errs {
		w.log.Warn("aurora: invalid color stop, using default",
			"error", err, "default", DefaultColor)
	}
	return stops
}

// SetColors replaces the color stops and pushes them into the live
// parameters without rebuilding the program. It has no effect before
// initialization completes or after Destroy.
func (w *Widget) SetColors(stops ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateRunning || w.prog == nil {
		return
	}
	w.cfg.ColorStops = append([]string(nil), stops...)
	w.uniforms.ColorStops = w.parseColorsLocked()
}

// SetOptions merges opts into the configuration. Amplitude, blend and
// color stop changes reach the live parameters immediately; speed applies
// from the next frame. Options not given are left untouched. The renderer
// and worker count only take effect before initialization.
func (w *Widget) SetOptions(opts ...Option) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateDestroyed {
		return
	}

	next := w.cfg
	next.set = 0
	for _, opt := range opts {
		opt(&next)
	}
	changed := next.set
	next.set = 0
	w.cfg = next

	if changed&fieldLogger != 0 {
		w.log = w.cfg.Logger
		if w.log == nil {
			w.log = Logger()
		}
	}

	if w.state != StateRunning || w.prog == nil {
		return
	}
	if changed&fieldAmplitude != 0 {
		w.uniforms.Amplitude = w.cfg.Amplitude
	}
	if changed&fieldBlend != 0 {
		w.uniforms.Blend = w.cfg.Blend
	}
	if changed&fieldColorStops != 0 {
		w.uniforms.ColorStops = w.parseColorsLocked()
	}
	if changed&fieldPixelRatio != 0 {
		if sp, ok := w.prog.(*softwareProgram); ok {
			sp.setPixelRatio(w.cfg.effectivePixelRatio())
		}
	}
}

// Destroy tears the widget down: the pending frame is cancelled, the
// resize subscription released, the surface detached and closed, and the
// program released. Destroy is idempotent.
func (w *Widget) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateDestroyed {
		return
	}
	w.teardownLocked()
	w.log.Info("aurora: destroyed", "frames", w.frames)
}

func (w *Widget) teardownLocked() {
	w.state = StateDestroyed

	if w.framePending {
		w.host.CancelFrame(w.frameID)
		w.framePending = false
	}
	if w.cancelResize != nil {
		w.cancelResize()
		w.cancelResize = nil
	}
	if w.canvas != nil {
		w.container.Unmount(w.canvas)
		_ = w.canvas.Close()
		w.canvas = nil
	}
	if loser, ok := w.graphics.(contextLoser); ok {
		loser.LoseContext()
	}
	w.graphics = nil
	if w.prog != nil {
		w.prog.Destroy()
		w.prog = nil
	}
}

// abortLocked leaves the widget inert after a failed graphics probe.
func (w *Widget) abortLocked(err error) {
	w.err = err
	w.state = StateUninitialized
	w.log.Error("aurora: graphics unavailable", "error", err)
}

// failLocked records a render error and tears the widget down.
func (w *Widget) failLocked(err error) {
	if !errors.Is(err, ErrRender) {
		err = fmt.Errorf("%w: %w", ErrRender, err)
	}
	w.err = err
	w.log.Error("aurora: render failed, destroying widget", "error", err)
	if w.state != StateDestroyed {
		w.teardownLocked()
	}
}

func (w *Widget) recoverLocked(stage string) {
	if r := recover(); r != nil {
		w.failLocked(fmt.Errorf("%w: panic in %s: %v", ErrRender, stage, r))
	}
}

// State returns the lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err returns the error that made the widget inert or destroyed it, or nil.
func (w *Widget) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Uniforms returns a copy of the live parameter set.
func (w *Widget) Uniforms() shader.Uniforms {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.uniforms
}

// Config returns a copy of the current configuration.
func (w *Widget) Config() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	cfg := w.cfg
	cfg.ColorStops = append([]string(nil), w.cfg.ColorStops...)
	return cfg
}

// Renderer returns the renderer in use, or RendererAuto before
// initialization.
func (w *Widget) Renderer() Renderer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderer
}

// Canvas returns the widget's surface, or nil when it has none.
func (w *Widget) Canvas() *surface.Canvas {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canvas
}

// Frames returns the number of frames rendered.
func (w *Widget) Frames() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}
