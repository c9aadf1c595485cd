package shader

import (
	"encoding/binary"
	"math"
)

// RGB is a normalized color, each component in [0, 1].
type RGB [3]float32

// StopPositions are the fixed relative positions of the three color stops.
var StopPositions = [3]float32{0, 0.5, 1}

// UniformSize is the byte size of the uniform block consumed by aurora.wgsl.
//
// Layout (std140-compatible, little endian):
//
//	color_stops  array<vec4<f32>, 3>  offset 0   (rgb + pad)
//	resolution   vec2<f32>            offset 48
//	time         f32                  offset 56
//	amplitude    f32                  offset 60
//	blend        f32                  offset 64
//	aspect_ratio f32                  offset 68
//	pad          vec2<f32>            offset 72
const UniformSize = 80

// Uniforms is the parameter set read by the program every frame.
type Uniforms struct {
	Time        float32
	Amplitude   float32
	ColorStops  [3]RGB
	Resolution  [2]float32
	Blend       float32
	AspectRatio float32
}

// Bytes encodes u into the uniform block layout.
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	u.Put(buf)
	return buf
}

// Put encodes u into buf, which must be at least UniformSize bytes.
func (u *Uniforms) Put(buf []byte) {
	_ = buf[UniformSize-1]
	for i, c := range u.ColorStops {
		off := i * 16
		putF32(buf[off:], c[0])
		putF32(buf[off+4:], c[1])
		putF32(buf[off+8:], c[2])
		putF32(buf[off+12:], 0)
	}
	putF32(buf[48:], u.Resolution[0])
	putF32(buf[52:], u.Resolution[1])
	putF32(buf[56:], u.Time)
	putF32(buf[60:], u.Amplitude)
	putF32(buf[64:], u.Blend)
	putF32(buf[68:], u.AspectRatio)
	putF32(buf[72:], 0)
	putF32(buf[76:], 0)
}

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
