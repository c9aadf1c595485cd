package aurora

import (
	"fmt"
	"image"

	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gogpu/aurora/internal/gpu"
	"github.com/gogpu/aurora/internal/parallel"
	"github.com/gogpu/aurora/shader"
)

// program evaluates the effect into a premultiplied RGBA image.
type program interface {
	Render(u *shader.Uniforms, dst *image.RGBA) error
	Destroy()
}

// softwareProgram shades on the CPU, one row band per work item.
type softwareProgram struct {
	pool    *parallel.WorkerPool
	ratio   float32
	scratch *image.RGBA
}

func newSoftwareProgram(workers int, ratio float32) *softwareProgram {
	return &softwareProgram{
		pool:  parallel.NewWorkerPool(workers),
		ratio: ratio,
	}
}

func (p *softwareProgram) Render(u *shader.Uniforms, dst *image.RGBA) error {
	b := dst.Bounds()
	if b.Empty() {
		return nil
	}
	if p.ratio >= 1 {
		return p.shade(u, dst)
	}

	sw := max(1, int(float32(b.Dx())*p.ratio))
	sh := max(1, int(float32(b.Dy())*p.ratio))
	if p.scratch == nil || p.scratch.Rect.Dx() != sw || p.scratch.Rect.Dy() != sh {
		p.scratch = image.NewRGBA(image.Rect(0, 0, sw, sh))
	}
	if err := p.shade(u, p.scratch); err != nil {
		return err
	}
	draw.ApproxBiLinear.Scale(dst, b, p.scratch, p.scratch.Rect, draw.Src, nil)
	return nil
}

func (p *softwareProgram) shade(u *shader.Uniforms, dst *image.RGBA) error {
	return p.pool.Rows(dst.Rect.Dy(), func(y0, y1 int) {
		shader.ShadeRows(dst, y0, y1, u)
	})
}

func (p *softwareProgram) setPixelRatio(r float32) {
	p.ratio = r
	p.scratch = nil
}

func (p *softwareProgram) Destroy() {
	p.pool.Close()
	p.scratch = nil
}

// halDevice extracts the HAL device and queue from a graphics provider.
func halDevice(graphics any) (hal.Device, hal.Queue, bool) {
	hp, ok := graphics.(halProvider)
	if !ok {
		return nil, nil, false
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, false
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, false
	}
	return device, queue, true
}

// selectRenderer resolves RendererAuto against what the host offers.
func selectRenderer(want Renderer, graphics any) (Renderer, error) {
	_, _, hasHAL := halDevice(graphics)
	switch want {
	case RendererSoftware:
		return RendererSoftware, nil
	case RendererGPU:
		if !hasHAL {
			return 0, fmt.Errorf("%w: gpu renderer requires a HAL device", ErrGraphicsUnavailable)
		}
		return RendererGPU, nil
	default:
		if hasHAL {
			return RendererGPU, nil
		}
		return RendererSoftware, nil
	}
}

// newProgram builds the program for a resolved renderer.
func newProgram(r Renderer, graphics any, cfg *Config) (program, error) {
	if r == RendererGPU {
		device, queue, _ := halDevice(graphics)
		p, err := gpu.NewPipeline(device, queue)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return newSoftwareProgram(cfg.Workers, cfg.effectivePixelRatio()), nil
}
