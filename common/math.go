package common

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Orthographic builds a 2D orthographic projection that maps the rectangle
// [left, right] x [top, bottom] onto clip space [-1, 1] x [1, -1].
// The z component is passed through untouched so that per-sprite depth values
// reach the depth test exactly as they were emitted.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extent mapped to x = -1 and x = 1
//   - top, bottom: vertical extent mapped to y = 1 and y = -1
func Orthographic(out []float32, left, right, top, bottom float32) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
}

// TransformPoint applies a column-major 4x4 matrix to the point (x, y, z, 1)
// and returns the resulting x, y, z without a perspective divide.
//
// Parameters:
//   - m: the matrix (16 elements)
//   - x, y, z: the point to transform
//
// Returns:
//   - float32, float32, float32: the transformed point
func TransformPoint(m []float32, x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}
