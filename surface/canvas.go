// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("surface: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Canvas is a premultiplied RGBA pixel surface with a lazily created GPU
// texture.
type Canvas struct {
	img         *image.RGBA
	texture     any // gpucontext.Texture once presented
	oldTexture  any // replaced by a resize, destroyed after the next upload
	dirty       bool
	sizeChanged bool
	closed      bool
}

// New creates a transparent canvas.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		dirty: true,
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	if c.img == nil {
		return 0
	}
	return c.img.Rect.Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	if c.img == nil {
		return 0
	}
	return c.img.Rect.Dy()
}

// Size returns width and height.
func (c *Canvas) Size() (width, height int) {
	return c.Width(), c.Height()
}

// Image returns the pixel buffer. Pixels are premultiplied. Returns nil
// after Close.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Pixels returns the raw RGBA bytes, row-major with no padding.
func (c *Canvas) Pixels() []byte {
	if c.img == nil {
		return nil
	}
	return c.img.Pix
}

// MarkDirty flags the canvas for upload on the next RenderTo.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}

// IsDirty reports whether the canvas has changes not yet uploaded.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Closed reports whether Close has been called.
func (c *Canvas) Closed() bool {
	return c.closed
}

// Resize reallocates the pixel buffer. The new buffer is transparent.
// Resizing to the current size is a no-op.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.Width() == width && c.Height() == height {
		return nil
	}

	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Texture returns the current GPU texture, or nil before the first RenderTo.
func (c *Canvas) Texture() any {
	return c.texture
}

// Close releases the pixel buffer and any textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroyTexture(c.oldTexture)
	c.oldTexture = nil
	destroyTexture(c.texture)
	c.texture = nil
	c.img = nil
	return nil
}

func destroyTexture(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
