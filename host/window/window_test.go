package window

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/surface"
)

type fakeTexture struct {
	width, height int
	updates       int
}

func (t *fakeTexture) Width() int  { return t.width }
func (t *fakeTexture) Height() int { return t.height }

func (t *fakeTexture) UpdateData([]byte) error {
	t.updates++
	return nil
}

type fakeDrawer struct {
	textures []*fakeTexture
	draws    int
	fail     error
}

func (d *fakeDrawer) DrawTexture(gpucontext.Texture, float32, float32) error {
	d.draws++
	return nil
}

func (d *fakeDrawer) TextureCreator() gpucontext.TextureCreator { return d }

func (d *fakeDrawer) NewTextureFromRGBA(w, h int, _ []byte) (gpucontext.Texture, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	t := &fakeTexture{width: w, height: h}
	d.textures = append(d.textures, t)
	return t, nil
}

type fakeAnimator struct {
	starts, stops int
}

func (a *fakeAnimator) start() func() {
	a.starts++
	return func() { a.stops++ }
}

func (a *fakeAnimator) running() bool { return a.starts > a.stops }

func newTestHost(provider any) (*Host, *fakeAnimator) {
	anim := &fakeAnimator{}
	return newHost(func() any { return provider }, anim.start), anim
}

func TestHostFramesAndAnimation(t *testing.T) {
	h, anim := newTestHost(nil)

	var got []time.Duration
	h.RequestFrame(func(ts time.Duration) { got = append(got, ts) })
	if !anim.running() {
		t.Fatal("pending frame did not start an animation token")
	}

	h.draw(100, 50, nil)
	if len(got) != 1 || got[0] < 0 {
		t.Fatalf("frame callbacks = %v", got)
	}
	if anim.running() {
		t.Error("animation token kept without pending frames")
	}

	h.draw(100, 50, nil)
	if len(got) != 1 {
		t.Error("frame callback ran twice")
	}

	id := h.RequestFrame(func(time.Duration) { t.Error("cancelled frame ran") })
	h.CancelFrame(id)
	if anim.running() {
		t.Error("cancel left the animation running")
	}
	h.draw(100, 50, nil)
	if anim.starts != 2 || anim.stops != 2 {
		t.Errorf("starts/stops = %d/%d, want 2/2", anim.starts, anim.stops)
	}
}

func TestHostResize(t *testing.T) {
	h, _ := newTestHost(nil)
	calls := 0
	cancel := h.OnResize(func() { calls++ })

	h.draw(640, 480, nil)
	h.draw(640, 480, nil)
	if calls != 1 {
		t.Errorf("resize calls = %d, want 1", calls)
	}
	if w, ht := h.Viewport(); w != 640 || ht != 480 {
		t.Errorf("Viewport() = %dx%d", w, ht)
	}

	h.draw(320, 480, nil)
	if calls != 2 {
		t.Errorf("resize calls = %d, want 2", calls)
	}

	cancel()
	cancel()
	h.draw(10, 10, nil)
	if calls != 2 {
		t.Error("cancelled subscription still notified")
	}
}

func TestHostLookup(t *testing.T) {
	h, _ := newTestHost(nil)
	if _, ok := h.Lookup("#other"); ok {
		t.Error("Lookup of an unknown selector succeeded")
	}
	c, ok := h.Lookup(Selector)
	if !ok {
		t.Fatal("window container not found")
	}

	a, _ := surface.New(4, 4)
	b, _ := surface.New(4, 4)
	c.Mount(a)
	if h.Canvas() != a {
		t.Fatal("Mount did not attach the canvas")
	}
	if c.Unmount(b) {
		t.Error("Unmount of a foreign canvas succeeded")
	}
	if !c.Unmount(a) || h.Canvas() != nil {
		t.Error("Unmount failed")
	}
}

func TestHostPresentsWidget(t *testing.T) {
	h, anim := newTestHost(nil)
	w := aurora.Mount(h, Selector, aurora.WithWorkers(1))
	defer w.Destroy()

	d := &fakeDrawer{}
	h.draw(48, 32, d) // init
	if w.State() != aurora.StateRunning {
		t.Fatalf("State() = %v err = %v", w.State(), w.Err())
	}
	if cw, ch := w.Canvas().Size(); cw != 48 || ch != 32 {
		t.Errorf("canvas = %dx%d, want 48x32", cw, ch)
	}
	h.draw(48, 32, d)
	h.draw(48, 32, d)

	if len(d.textures) != 1 || d.draws != 3 {
		t.Errorf("textures = %d draws = %d, want 1/3", len(d.textures), d.draws)
	}
	if d.textures[0].updates != 2 {
		t.Errorf("texture updates = %d, want 2", d.textures[0].updates)
	}
	if !anim.running() {
		t.Error("running widget without an animation token")
	}

	h.draw(24, 32, d)
	if u := w.Uniforms(); u.Resolution != [2]float32{24, 32} {
		t.Errorf("Resolution = %v after window resize", u.Resolution)
	}

	w.Destroy()
	h.draw(24, 32, d)
	if anim.running() {
		t.Error("animation token kept after Destroy")
	}
	if h.Canvas() != nil {
		t.Error("canvas still mounted after Destroy")
	}
}

func TestHostPresentError(t *testing.T) {
	h, _ := newTestHost(nil)
	c, _ := h.Lookup(Selector)
	canvas, _ := surface.New(2, 2)
	c.Mount(canvas)

	d := &fakeDrawer{fail: errors.New("no device")}
	h.draw(2, 2, d)
	h.draw(2, 2, d)
	if h.presentErrs != 2 {
		t.Errorf("presentErrs = %d, want 2", h.presentErrs)
	}
}

func TestHostClose(t *testing.T) {
	h, anim := newTestHost(nil)
	h.RequestFrame(func(time.Duration) { t.Error("frame ran after Close") })
	h.OnResize(func() { t.Error("resize after Close") })
	h.Close()
	h.draw(5, 5, nil)
	if anim.running() {
		t.Error("Close kept the animation token")
	}
}

func TestHostGraphics(t *testing.T) {
	h, _ := newTestHost(nil)
	if g, err := h.Graphics(); g != nil || err != nil {
		t.Errorf("Graphics() = %v, %v; want nil, nil", g, err)
	}
	p := struct{ name string }{"provider"}
	h, _ = newTestHost(p)
	if g, _ := h.Graphics(); g != p {
		t.Errorf("Graphics() = %v, want %v", g, p)
	}
}
