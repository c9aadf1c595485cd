// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// ErrNoTextureCreator is returned when the drawer has no texture creator.
var ErrNoTextureCreator = errors.New("surface: drawer has no texture creator")

// RenderTo uploads the canvas if needed and draws it at the origin.
//
// The texture is created on the first call through the drawer's texture
// creator and updated in place afterwards. A texture replaced by a resize
// is destroyed only after its successor has been created, since the GPU may
// still be reading it.
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	if c.closed {
		return ErrCanvasClosed
	}

	if c.sizeChanged {
		if c.texture != nil {
			destroyTexture(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	if c.texture == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(c.Width(), c.Height(), c.img.Pix)
		if err != nil {
			return fmt.Errorf("surface: create texture: %w", err)
		}
		// Pixels are premultiplied; gogpu picks its blend factors from this.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		c.dirty = false

		destroyTexture(c.oldTexture)
		c.oldTexture = nil
	} else if c.dirty {
		if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(c.img.Pix); err != nil {
				return fmt.Errorf("surface: update texture: %w", err)
			}
		}
		c.dirty = false
	}

	return dc.DrawTexture(c.texture.(gpucontext.Texture), 0, 0)
}
