package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LookToLH builds a left-handed view matrix for an eye at the given position looking along dir.
// The matrix is column-major (mgl32 convention) and maps dir onto view-space +Z.
//
// Parameters:
//   - eye: camera position in world space
//   - dir: viewing direction (need not be normalized, must not be parallel to up)
//   - up: world up vector, typically +Y
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookToLH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	f := dir.Normalize()
	s := up.Cross(f).Normalize()
	u := f.Cross(s)

	return mgl32.Mat4{
		s[0], u[0], f[0], 0,
		s[1], u[1], f[1], 0,
		s[2], u[2], f[2], 0,
		-s.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// PerspectiveLH builds a left-handed perspective projection matrix with a [0, 1] depth range,
// which matches WebGPU clip space. The matrix is column-major.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height), must be non-zero
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	sinFov, cosFov := math.Sincos(0.5 * float64(fovY))
	h := float32(cosFov / sinFov)
	w := h / aspect
	r := far / (far - near)

	return mgl32.Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, 1,
		0, 0, -r * near, 0,
	}
}
