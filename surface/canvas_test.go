// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
)

type mockTexture struct {
	width, height int
	data          []byte
	updates       int
	destroyed     bool
	premultiplied bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	if len(data) != m.width*m.height*4 {
		return errors.New("size mismatch")
	}
	m.data = append(m.data[:0], data...)
	m.updates++
	return nil
}

func (m *mockTexture) Destroy()                  { m.destroyed = true }
func (m *mockTexture) SetPremultiplied(pm bool) { m.premultiplied = pm }

type mockCreator struct {
	textures []*mockTexture
	fail     bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.fail {
		return nil, errors.New("creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

type mockDrawer struct {
	creator *mockCreator
	drawn   []gpucontext.Texture
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawn = append(m.drawn, tex)
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator {
	if m.creator == nil {
		return nil
	}
	return m.creator
}

func newDrawer() *mockDrawer {
	return &mockDrawer{creator: &mockCreator{}}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"valid", 64, 32, false},
		{"one pixel", 1, 1, false},
		{"zero width", 0, 10, true},
		{"zero height", 10, 0, true},
		{"negative", -1, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.width, tt.height)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Fatalf("New() error = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if w, h := c.Size(); w != tt.width || h != tt.height {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
			if len(c.Pixels()) != tt.width*tt.height*4 {
				t.Errorf("len(Pixels()) = %d", len(c.Pixels()))
			}
			if !c.IsDirty() {
				t.Error("new canvas should be dirty")
			}
		})
	}
}

func TestResize(t *testing.T) {
	c, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	before := c.Image()

	if err := c.Resize(10, 10); err != nil {
		t.Fatalf("Resize(same) error = %v", err)
	}
	if c.Image() != before {
		t.Error("Resize to the same size reallocated the buffer")
	}

	if err := c.Resize(0, 5); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 5) error = %v, want ErrInvalidDimensions", err)
	}
	if w, h := c.Size(); w != 10 || h != 10 {
		t.Errorf("failed resize changed size to %dx%d", w, h)
	}

	if err := c.Resize(20, 5); err != nil {
		t.Fatalf("Resize(20, 5) error = %v", err)
	}
	if w, h := c.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = %dx%d, want 20x5", w, h)
	}
	if len(c.Pixels()) != 20*5*4 {
		t.Errorf("len(Pixels()) = %d, want %d", len(c.Pixels()), 20*5*4)
	}
}

func TestClose(t *testing.T) {
	c, _ := New(4, 4)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if !c.Closed() {
		t.Error("Closed() = false after Close")
	}
	if c.Pixels() != nil || c.Image() != nil {
		t.Error("pixels survive Close")
	}
	if err := c.Resize(8, 8); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Resize after Close error = %v, want ErrCanvasClosed", err)
	}
	if err := c.RenderTo(newDrawer()); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("RenderTo after Close error = %v, want ErrCanvasClosed", err)
	}
}

func TestRenderToCreatesTextureOnce(t *testing.T) {
	c, _ := New(4, 2)
	c.Pixels()[0] = 200
	dc := newDrawer()

	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo() error = %v", err)
	}
	if len(dc.creator.textures) != 1 {
		t.Fatalf("created %d textures, want 1", len(dc.creator.textures))
	}
	tex := dc.creator.textures[0]
	if tex.width != 4 || tex.height != 2 || tex.data[0] != 200 {
		t.Errorf("texture = %dx%d data[0]=%d", tex.width, tex.height, tex.data[0])
	}
	if !tex.premultiplied {
		t.Error("texture not marked premultiplied")
	}
	if c.IsDirty() {
		t.Error("canvas still dirty after upload")
	}

	// Clean canvas: draw without upload.
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if tex.updates != 0 {
		t.Errorf("clean canvas uploaded %d times", tex.updates)
	}

	c.Pixels()[0] = 50
	c.MarkDirty()
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if tex.updates != 1 || tex.data[0] != 50 {
		t.Errorf("updates = %d data[0] = %d, want 1 and 50", tex.updates, tex.data[0])
	}
	if len(dc.creator.textures) != 1 || len(dc.drawn) != 3 {
		t.Errorf("textures = %d draws = %d", len(dc.creator.textures), len(dc.drawn))
	}
}

func TestRenderToAfterResizeDefersDestroy(t *testing.T) {
	c, _ := New(4, 4)
	dc := newDrawer()
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	first := dc.creator.textures[0]

	if err := c.Resize(8, 8); err != nil {
		t.Fatal(err)
	}
	if first.destroyed {
		t.Fatal("texture destroyed at resize time")
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if len(dc.creator.textures) != 2 {
		t.Fatalf("created %d textures, want 2", len(dc.creator.textures))
	}
	if !first.destroyed {
		t.Error("replaced texture not destroyed after new upload")
	}
	second := dc.creator.textures[1]
	if second.width != 8 || second.height != 8 {
		t.Errorf("new texture = %dx%d, want 8x8", second.width, second.height)
	}

	_ = c.Close()
	if !second.destroyed {
		t.Error("Close did not destroy the texture")
	}
}

func TestRenderToErrors(t *testing.T) {
	c, _ := New(2, 2)
	if err := c.RenderTo(&mockDrawer{}); !errors.Is(err, ErrNoTextureCreator) {
		t.Errorf("RenderTo(no creator) error = %v, want ErrNoTextureCreator", err)
	}
	dc := newDrawer()
	dc.creator.fail = true
	if err := c.RenderTo(dc); err == nil {
		t.Error("RenderTo() error = nil, want creation failure")
	}
	if !c.IsDirty() {
		t.Error("failed upload cleared the dirty flag")
	}
}
