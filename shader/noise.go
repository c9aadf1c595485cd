package shader

import "math"

// Simplex2D returns 2D simplex gradient noise at (x, y), roughly in [-1, 1].
//
// This is the Ashima Arts / Ian McEwan formulation with a mod-289
// polynomial permutation, evaluated in float64. aurora.wgsl carries the
// same function as snoise.
func Simplex2D(x, y float64) float64 {
	const (
		cx = 0.211324865405187  // (3 - sqrt(3)) / 6
		cy = 0.366025403784439  // (sqrt(3) - 1) / 2
		cz = -0.577350269189626 // -1 + 2*cx
		cw = 0.024390243902439  // 1 / 41
	)

	// First corner.
	s := (x + y) * cy
	ix := math.Floor(x + s)
	iy := math.Floor(y + s)
	t := (ix + iy) * cx
	x0 := x - ix + t
	y0 := y - iy + t

	// Other corners.
	i1x, i1y := 0.0, 1.0
	if x0 > y0 {
		i1x, i1y = 1, 0
	}
	x1 := x0 + cx - i1x
	y1 := y0 + cx - i1y
	x2 := x0 + cz
	y2 := y0 + cz

	// Permutations.
	ix = mod289(ix)
	iy = mod289(iy)
	p0 := permute(permute(iy) + ix)
	p1 := permute(permute(iy+i1y) + ix + i1x)
	p2 := permute(permute(iy+1) + ix + 1)

	m0 := falloff(x0, y0)
	m1 := falloff(x1, y1)
	m2 := falloff(x2, y2)

	return 130 * (m0*gradient(p0, cw, x0, y0) +
		m1*gradient(p1, cw, x1, y1) +
		m2*gradient(p2, cw, x2, y2))
}

func falloff(x, y float64) float64 {
	m := math.Max(0.5-(x*x+y*y), 0)
	m *= m
	return m * m
}

// gradient maps a permutation value onto the 41-point gradient ring and
// returns the normalized dot product with the corner offset.
func gradient(p, cw, x, y float64) float64 {
	gx := 2*fract(p*cw) - 1
	h := math.Abs(gx) - 0.5
	a := gx - math.Floor(gx+0.5)
	norm := 1.79284291400159 - 0.85373472095314*(a*a+h*h)
	return norm * (a*x + h*y)
}

func permute(x float64) float64 {
	return mod289((x*34 + 1) * x)
}

// mod289 is GLSL mod(x, 289.0): the result has the sign of the divisor.
func mod289(x float64) float64 {
	return x - 289*math.Floor(x/289)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}
