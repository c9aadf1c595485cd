// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface provides the pixel surface a widget draws into and the
// CPU-to-GPU upload used to present it.
//
// A Canvas holds premultiplied RGBA pixels. Renderers write the pixels and
// call MarkDirty; hosts present the canvas with RenderTo, which creates the
// GPU texture lazily and uploads only when the canvas is dirty.
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// A Canvas is not safe for concurrent use.
package surface
