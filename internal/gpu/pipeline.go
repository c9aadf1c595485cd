package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/aurora/shader"
)

// targetFormat is the format of the offscreen render target.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

// copyPitchAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyPitchAlignment = 256

// ErrPipelineDestroyed is returned by Render after Destroy.
var ErrPipelineDestroyed = errors.New("gpu: pipeline destroyed")

// Pipeline owns the GPU objects of the aurora program.
//
// The shader, layouts, render pipeline, vertex buffer and uniform buffer
// are created once. The render target and staging buffer follow the size
// of the destination image and are recreated when it changes.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	vertexBuf  hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	uniformRaw []byte

	target     hal.Texture
	targetView hal.TextureView
	staging    hal.Buffer
	stride     uint32 // aligned bytes per row of the staging buffer

	width, height uint32
	destroyed     bool
}

// NewPipeline compiles the program and allocates the size-independent
// resources. On error everything allocated so far is released.
func NewPipeline(device hal.Device, queue hal.Queue) (*Pipeline, error) {
	if device == nil || queue == nil {
		return nil, errors.New("gpu: nil device or queue")
	}
	p := &Pipeline{
		device:     device,
		queue:      queue,
		uniformRaw: make([]byte, shader.UniformSize),
	}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	if err := p.createBuffers(); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create buffers: %w", err)
	}
	slogger().Debug("gpu: aurora pipeline created")
	return p, nil
}

func (p *Pipeline) createPipeline() error {
	src := shader.Source()
	if src == "" {
		return errors.New("aurora shader source is empty")
	}

	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "aurora_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return fmt.Errorf("compile aurora shader: %w", err)
	}
	p.shader = module

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "aurora_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "aurora_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "aurora_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: shader.VertexEntryPoint,
			Buffers:    vertexLayout(),
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// vertexLayout describes the triangle: one vec2<f32> position, no uv.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: shader.TriangleVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}

func (p *Pipeline) createBuffers() error {
	verts := shader.FullscreenTriangle()
	vertexData := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(vertexData[i*4:], math.Float32bits(v))
	}
	vertexBuf, err := p.createAndUploadBuffer("aurora_triangle", vertexData,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.vertexBuf = vertexBuf

	uniformBuf, err := p.createAndUploadBuffer("aurora_uniforms", p.uniformRaw,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	p.uniformBuf = uniformBuf

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "aurora_uniform_bg",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(),
				Offset: 0,
				Size:   shader.UniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	p.bindGroup = bindGroup
	return nil
}

func (p *Pipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// ensureTarget creates or recreates the render target and staging buffer
// if the requested size differs from the current one.
func (p *Pipeline) ensureTarget(w, h uint32) error {
	if p.width == w && p.height == h && p.target != nil {
		return nil
	}
	p.destroyTarget()

	target, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "aurora_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	p.target = target

	view, err := p.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "aurora_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	p.targetView = view

	stride := (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	staging, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "aurora_staging",
		Size:  uint64(stride) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		p.destroyTarget()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	p.staging = staging
	p.stride = stride

	p.width, p.height = w, h
	slogger().Debug("gpu: aurora target resized", "width", w, "height", h)
	return nil
}

// Render draws one frame with u and copies it into dst, converting the
// target's BGRA to RGBA. dst keeps premultiplied alpha.
func (p *Pipeline) Render(u *shader.Uniforms, dst *image.RGBA) error {
	if p.destroyed {
		return ErrPipelineDestroyed
	}
	b := dst.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil
	}
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image dimensions fit uint32
	if err := p.ensureTarget(w, h); err != nil {
		return err
	}

	u.Put(p.uniformRaw)
	if err := p.queue.WriteBuffer(p.uniformBuf, 0, p.uniformRaw); err != nil {
		return fmt.Errorf("upload uniforms: %w", err)
	}

	if err := p.encodeAndSubmit(w, h); err != nil {
		return err
	}
	return p.readback(w, h, dst)
}

func (p *Pipeline) encodeAndSubmit(w, h uint32) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "aurora_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("aurora_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "aurora_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       p.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetVertexBuffer(0, p.vertexBuf, 0)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(p.target, p.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: p.stride, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: p.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	// Back to RenderAttachment so the next frame's pass starts from the
	// state it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: p.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if _, err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := p.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

func (p *Pipeline) readback(w, h uint32, dst *image.RGBA) error {
	size := uint64(p.stride) * uint64(h)
	mapping, err := p.device.MapBuffer(p.staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), size)
	rowBytes := int(w) * 4
	for y := 0; y < int(h); y++ {
		s := src[y*int(p.stride) : y*int(p.stride)+rowBytes]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+rowBytes]
		convertBGRAToRGBA(s, d)
	}
	if err := p.device.UnmapBuffer(p.staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// convertBGRAToRGBA swizzles one row. src and dst have the same length.
func convertBGRAToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// Size returns the current target dimensions.
func (p *Pipeline) Size() (uint32, uint32) {
	return p.width, p.height
}

// Destroy releases all GPU resources. Safe to call multiple times.
func (p *Pipeline) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.destroyTarget()
	p.destroyBuffers()
	p.destroyPipeline()
	slogger().Debug("gpu: aurora pipeline destroyed")
}

func (p *Pipeline) destroyTarget() {
	if p.staging != nil {
		p.device.DestroyBuffer(p.staging)
		p.staging = nil
	}
	if p.targetView != nil {
		p.device.DestroyTextureView(p.targetView)
		p.targetView = nil
	}
	if p.target != nil {
		p.device.DestroyTexture(p.target)
		p.target = nil
	}
	p.width, p.height, p.stride = 0, 0, 0
}

func (p *Pipeline) destroyBuffers() {
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.vertexBuf != nil {
		p.device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf = nil
	}
}

func (p *Pipeline) destroyPipeline() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
