package aurora

import (
	"time"

	"github.com/gogpu/aurora/surface"
)

// FrameFunc is a frame callback. ts is the host's frame timestamp,
// monotonic from an arbitrary origin.
type FrameFunc = func(ts time.Duration)

// FrameID identifies a pending frame callback.
type FrameID = uint64

// Host is the environment a Widget lives in: the window, its frame
// scheduler and the graphics it can draw with.
//
// A Host must not invoke callbacks from inside RequestFrame, CancelFrame or
// OnResize. Implementations in this module are host/headless and
// host/window.
type Host interface {
	// RequestFrame schedules fn once for the next display refresh.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame drops a pending callback. Unknown ids are ignored.
	CancelFrame(id FrameID)

	// Viewport returns the current size of the drawable area in pixels.
	Viewport() (width, height int)

	// OnResize subscribes fn to viewport changes. Calling the returned
	// cancel func removes the subscription.
	OnResize(fn func()) (cancel func())

	// Lookup resolves a selector to a container.
	Lookup(selector string) (Container, bool)

	// Graphics probes for a drawing context. An error means none is
	// available. A value with HalDevice() and HalQueue() methods enables
	// the GPU renderer; any other value, including nil, selects the
	// software renderer.
	Graphics() (any, error)
}

// Container holds the surface a widget draws into.
type Container = surface.Container

// halProvider matches gogpu's GPU context provider.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// contextLoser is implemented by graphics providers that want to know when
// a widget intentionally gives up its context.
type contextLoser interface {
	LoseContext()
}
