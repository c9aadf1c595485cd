package shader

// TriangleVertexStride is the byte stride of one FullscreenTriangle vertex:
// position (vec2<f32>) at location 0.
const TriangleVertexStride = 8

// FullscreenTriangle returns the clip-space positions of a single triangle
// covering the whole viewport. It carries no texture coordinates: the
// fragment stage derives uv from the fragment position.
func FullscreenTriangle() []float32 {
	return []float32{
		-1, -1,
		3, -1,
		-1, 3,
	}
}
