// Package gpu renders the aurora program with a wgpu HAL device.
//
// The Pipeline draws a single full-screen triangle into an offscreen
// BGRA8 target and reads the result back into an RGBA image, so GPU and
// software renderers present through the same surface.
package gpu
