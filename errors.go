package aurora

import "errors"

// Errors recorded by a Widget. None of them is ever returned from a widget
// method; they are logged and exposed through [Widget.Err] or, for color
// stops, through the warnings emitted by [ParseColorStops].
var (
	// ErrContainerNotFound is recorded when the container is nil or the
	// selector does not resolve to a container on the host.
	ErrContainerNotFound = errors.New("aurora: container not found")

	// ErrGraphicsUnavailable is recorded when the host cannot provide a
	// drawing context, or a GPU renderer was forced without a HAL device.
	ErrGraphicsUnavailable = errors.New("aurora: graphics unavailable")

	// ErrColorParse is returned by ParseColor for malformed color strings.
	ErrColorParse = errors.New("aurora: invalid color")

	// ErrRender wraps any failure during initialization or a frame update.
	// Recording it tears the widget down.
	ErrRender = errors.New("aurora: render failed")
)
