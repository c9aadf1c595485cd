// Package aurora renders an animated aurora gradient as a background layer.
//
// # Overview
//
// A [Widget] owns a rendering surface, a shader program and a per-frame
// update loop. It is mounted into a [Container] supplied by a [Host], which
// also provides the frame scheduler, the viewport size and the drawing
// context. Two hosts ship with the module: host/headless for offscreen and
// test use, and host/window for gogpu windows.
//
// # Quick Start
//
//	app := gogpu.NewApp(gogpu.DefaultConfig().
//	    WithTitle("aurora").
//	    WithSize(1280, 720).
//	    WithContinuousRender(false))
//	host := window.New(app)
//	w := aurora.Mount(host, window.Selector,
//	    aurora.WithColorStops("#3A29FF", "#FF94B4", "#FF3232"),
//	    aurora.WithSpeed(0.5),
//	)
//	app.OnClose(func() {
//	    w.Destroy()
//	    host.Close()
//	})
//	_ = app.Run()
//
// # Lifecycle
//
// Construction never initializes anything: it schedules initialization on
// the next frame so the container is laid out before first use. The widget
// then moves through [StateInitializing] to [StateRunning], and finally to
// [StateDestroyed] when [Widget.Destroy] is called or a frame fails.
// Nothing leaves [StateDestroyed].
//
// # Errors
//
// Widget methods never panic and never return errors. Failures are logged
// through the package logger (see [SetLogger]) and the error that made a
// widget inert is available from [Widget.Err].
//
// # Renderers
//
// When the host exposes a HAL device the program runs as a wgpu render
// pipeline (internal/gpu). Otherwise the same fragment math runs on the CPU
// across a worker pool. Both paths produce premultiplied RGBA.
package aurora
