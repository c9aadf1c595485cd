// Package shader holds the aurora program: the uniform block, the simplex
// noise and color ramp it is built from, a CPU evaluator of the fragment
// stage, and the equivalent WGSL source for GPU pipelines.
//
// The CPU evaluator ([Shade], [ShadeRows]) and aurora.wgsl implement the
// same math; tests pin the CPU side, and the WGSL mirrors it line for line.
//
// Coordinates follow the GL convention: uv (0, 0)
// is the bottom-left corner of the surface and (1, 1) the top-right.
package shader
