// Package headless provides an offscreen host with a manually stepped
// frame clock.
//
// It is deterministic: frames run only when Step is called, with the
// timestamp the caller passes. The render command and the package tests
// drive widgets with it.
package headless

import (
	"slices"
	"sync"
	"time"

	"github.com/gogpu/aurora/surface"
)

// Host is an offscreen host. The zero value is not usable; call New.
type Host struct {
	mu sync.Mutex

	width, height int
	nextID        uint64
	frames        map[uint64]func(time.Duration)
	resizeSubs    map[uint64]func()
	containers    map[string]*Container

	graphics    any
	graphicsErr error
}

// New creates a host with the given viewport size and software graphics.
func New(width, height int) *Host {
	return &Host{
		width:      width,
		height:     height,
		frames:     make(map[uint64]func(time.Duration)),
		resizeSubs: make(map[uint64]func()),
		containers: make(map[string]*Container),
	}
}

// RequestFrame schedules fn for the next Step.
func (h *Host) RequestFrame(fn func(ts time.Duration)) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.frames[h.nextID] = fn
	return h.nextID
}

// CancelFrame drops a pending frame callback.
func (h *Host) CancelFrame(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.frames, id)
}

// Step runs the callbacks pending when it is called, in request order,
// with timestamp ts. Callbacks they schedule run on the next Step. It
// returns the number of callbacks run.
func (h *Host) Step(ts time.Duration) int {
	h.mu.Lock()
	ids := make([]uint64, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(time.Duration), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.frames[id])
		delete(h.frames, id)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ts)
	}
	return len(fns)
}

// Viewport returns the current viewport size.
func (h *Host) Viewport() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// SetViewport changes the viewport size and notifies resize subscribers.
// Subscribers are notified even for non-positive sizes.
func (h *Host) SetViewport(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	subs := make([]func(), 0, len(h.resizeSubs))
	ids := make([]uint64, 0, len(h.resizeSubs))
	for id := range h.resizeSubs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, h.resizeSubs[id])
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// OnResize subscribes fn to SetViewport calls.
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

// AddContainer registers a container under selector and returns it.
func (h *Host) AddContainer(selector string) *Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &Container{}
	h.containers[selector] = c
	return c
}

// Lookup returns the container registered under selector.
func (h *Host) Lookup(selector string) (surface.Container, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.containers[selector]
	if !ok {
		return nil, false
	}
	return c, true
}

// SetGraphics sets the value returned by Graphics. Nil selects software
// rendering.
func (h *Host) SetGraphics(g any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.graphics = g
}

// SetGraphicsError makes Graphics fail with err. Nil clears it.
func (h *Host) SetGraphicsError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.graphicsErr = err
}

// Graphics returns the configured provider or error.
func (h *Host) Graphics() (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.graphicsErr != nil {
		return nil, h.graphicsErr
	}
	return h.graphics, nil
}

// PendingFrames returns the number of scheduled frame callbacks.
func (h *Host) PendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

// ResizeSubscribers returns the number of live resize subscriptions.
func (h *Host) ResizeSubscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.resizeSubs)
}

// Container is a headless mount point holding at most one canvas.
type Container struct {
	mu     sync.Mutex
	canvas *surface.Canvas
	mounts int
}

// Mount replaces the current canvas with c.
func (c *Container) Mount(canvas *surface.Canvas) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canvas = canvas
	c.mounts++
}

// Unmount detaches canvas if it is the mounted one.
func (c *Container) Unmount(canvas *surface.Canvas) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canvas == nil || c.canvas != canvas {
		return false
	}
	c.canvas = nil
	return true
}

// Canvas returns the mounted canvas, or nil.
func (c *Container) Canvas() *surface.Canvas {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas
}

// Mounts returns how many times a canvas was mounted.
func (c *Container) Mounts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounts
}
