// Package window hosts widgets in a gogpu window.
//
// The window is the only container. Frame callbacks run inside the app's
// draw callback with the time elapsed since the host was created, and the
// mounted canvas is presented after them. Rendering is event-driven: the
// host holds an animation token only while frame callbacks are pending, so
// an idle window costs nothing.
//
//	app := gogpu.NewApp(gogpu.DefaultConfig().WithContinuousRender(false))
//	host := window.New(app)
//	bg := aurora.Mount(host, window.Selector)
//	app.OnClose(bg.Destroy)
//	app.Run()
package window

import (
	"slices"
	"sync"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/surface"
)

// Selector names the window container in Lookup.
const Selector = "window"

// Host adapts a gogpu.App to the aurora host interface.
type Host struct {
	mu sync.Mutex

	provider  func() any
	startAnim func() (stop func())
	start     time.Time

	width, height int
	nextID        uint64
	frames        map[uint64]func(time.Duration)
	resizeSubs    map[uint64]func()
	canvas        *surface.Canvas
	stopAnim      func()
	presentErrs   int
}

// New creates a host for app and installs its draw callback. The host
// owns app's OnDraw; install other draw work through the widget instead.
func New(app *gogpu.App) *Host {
	h := newHost(
		func() any {
			if p := app.GPUContextProvider(); p != nil {
				return p
			}
			return nil
		},
		func() func() {
			token := app.StartAnimation()
			return token.Stop
		},
	)
	app.OnDraw(func(dc *gogpu.Context) {
		h.draw(dc.Width(), dc.Height(), dc.AsTextureDrawer())
	})
	return h
}

func newHost(provider func() any, startAnim func() func()) *Host {
	return &Host{
		provider:   provider,
		startAnim:  startAnim,
		start:      time.Now(),
		frames:     make(map[uint64]func(time.Duration)),
		resizeSubs: make(map[uint64]func()),
	}
}

// draw runs one window frame: resize notification, pending frame
// callbacks, then presentation of the mounted canvas.
func (h *Host) draw(width, height int, dc gpucontext.TextureDrawer) {
	h.mu.Lock()
	var subs []func()
	if width != h.width || height != h.height {
		h.width, h.height = width, height
		subs = sorted(h.resizeSubs)
	}
	fns := sorted(h.frames)
	clear(h.frames)
	h.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	ts := time.Since(h.start)
	for _, fn := range fns {
		fn(ts)
	}

	h.mu.Lock()
	canvas := h.canvas
	h.updateAnimationLocked()
	h.mu.Unlock()

	if canvas == nil || canvas.Closed() || dc == nil {
		return
	}
	if err := canvas.RenderTo(dc); err != nil {
		h.mu.Lock()
		h.presentErrs++
		first := h.presentErrs == 1
		h.mu.Unlock()
		if first {
			aurora.Logger().Warn("window: present failed", "error", err)
		}
	}
}

// sorted returns the callbacks of m in registration order.
func sorted[F any](m map[uint64]F) []F {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]F, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// updateAnimationLocked keeps an animation token alive exactly while frame
// callbacks are pending.
func (h *Host) updateAnimationLocked() {
	switch {
	case len(h.frames) > 0 && h.stopAnim == nil:
		h.stopAnim = h.startAnim()
	case len(h.frames) == 0 && h.stopAnim != nil:
		h.stopAnim()
		h.stopAnim = nil
	}
}

// RequestFrame schedules fn for the next window frame.
func (h *Host) RequestFrame(fn func(ts time.Duration)) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.frames[h.nextID] = fn
	h.updateAnimationLocked()
	return h.nextID
}

// CancelFrame drops a pending frame callback.
func (h *Host) CancelFrame(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.frames, id)
	h.updateAnimationLocked()
}

// Viewport returns the window size seen by the last draw. It is zero
// before the first draw.
func (h *Host) Viewport() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// OnResize subscribes fn to window size changes.
func (h *Host) OnResize(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.resizeSubs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.resizeSubs, id)
		})
	}
}

// Lookup resolves Selector to the window container.
func (h *Host) Lookup(selector string) (surface.Container, bool) {
	if selector != Selector {
		return nil, false
	}
	return (*container)(h), true
}

// Graphics returns the app's GPU context provider, or nil before the
// device exists.
func (h *Host) Graphics() (any, error) {
	return h.provider(), nil
}

// Close releases the animation token and drops pending callbacks.
// Call it from the app's OnClose.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.frames)
	clear(h.resizeSubs)
	h.updateAnimationLocked()
}

// Canvas returns the mounted canvas, or nil.
func (h *Host) Canvas() *surface.Canvas {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canvas
}

// container is the window viewed as a mount point.
type container Host

func (c *container) Mount(canvas *surface.Canvas) {
	h := (*Host)(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canvas = canvas
}

func (c *container) Unmount(canvas *surface.Canvas) bool {
	h := (*Host)(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.canvas == nil || h.canvas != canvas {
		return false
	}
	h.canvas = nil
	return true
}

var _ aurora.Host = (*Host)(nil)
