package shader

import (
	"image"
	"math"
)

// Band constants of the effect. Both bands share them.
const (
	bandMidPoint  = 0.20
	bandOffset    = 0.2
	bandIntensity = 0.6
	bandPhase     = 5.0 // vertical noise offset of the bottom band
	driftRate     = 0.1 // horizontal noise drift per unit of Time
	flowRate      = 0.25
)

// XScale returns the horizontal noise frequency for an aspect ratio.
// Portrait surfaces (aspect < 1) compress the frequency so the bands do
// not look stretched on narrow screens.
func XScale(aspect float32) float64 {
	if aspect < 1 {
		return 2 * float64(aspect)
	}
	return 2
}

// Shade evaluates the fragment stage at uv and returns premultiplied
// color and alpha. Components are not clamped.
func Shade(uvx, uvy float64, u *Uniforms) (r, g, b, a float64) {
	ramp := Ramp(u.ColorStops, uvx)
	xs := XScale(u.AspectRatio)
	t := float64(u.Time)
	amp := float64(u.Amplitude)
	blend := float64(u.Blend)

	// Top band.
	top := Simplex2D(uvx*xs+t*driftRate, t*flowRate) * 0.5 * amp
	top = uvy*2 - math.Exp(top) + bandOffset
	intensityTop := bandIntensity * top
	alphaTop := smoothstep(bandMidPoint-blend*0.5, bandMidPoint+blend*0.5, intensityTop)

	// Bottom band, mirrored vertically and drifting the other way.
	bottom := Simplex2D(uvx*xs-t*driftRate, t*flowRate+bandPhase) * 0.5 * amp
	bottom = (1-uvy)*2 - math.Exp(bottom) + bandOffset
	intensityBottom := bandIntensity * bottom
	alphaBottom := smoothstep(bandMidPoint-blend*0.5, bandMidPoint+blend*0.5, intensityBottom)

	a = math.Max(alphaTop, alphaBottom)
	k := (intensityTop*alphaTop + intensityBottom*alphaBottom) * a
	return ramp[0] * k, ramp[1] * k, ramp[2] * k, a
}

// ShadeRows evaluates rows [y0, y1) of dst. The uv of a pixel is taken at
// its center, with uv.y = 0 on the bottom row as in GL window coordinates.
// Output is clamped to [0, 1] the way a unorm render target would be.
func ShadeRows(dst *image.RGBA, y0, y1 int, u *Uniforms) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}
	fw, fh := float64(w), float64(h)
	for y := max(y0, 0); y < min(y1, h); y++ {
		uvy := 1 - (float64(y)+0.5)/fh
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b, a := Shade((float64(x)+0.5)/fw, uvy, u)
			i := x * 4
			row[i+0] = unorm8(r)
			row[i+1] = unorm8(g)
			row[i+2] = unorm8(b)
			row[i+3] = unorm8(a)
		}
	}
}

// smoothstep is GLSL smoothstep. A zero-width edge degrades to a step
// instead of dividing by zero.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = math.Min(math.Max(t, 0), 1)
	return t * t * (3 - 2*t)
}

func unorm8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
