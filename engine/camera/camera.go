package camera

import (
	"math"

	"github.com/Carmen-Shannon/genesis/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera without roll.
// Rotation holds yaw in X and pitch in Y, both in radians. At zero rotation the camera looks down +X.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec2
	Fov      float32
	Near     float32
	Far      float32
}

// NewCamera creates a camera at the origin looking down +X with a 90 degree vertical field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - *Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) *Camera {
	c := &Camera{
		Fov:  math.Pi / 2,
		Near: 0.1,
		Far:  100,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Direction returns the unit look direction derived from yaw and pitch.
//
// Returns:
//   - mgl32.Vec3: (cos yaw * cos pitch, sin pitch, sin yaw * cos pitch)
func (c *Camera) Direction() mgl32.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(c.Rotation[0]))
	sinPitch, cosPitch := math.Sincos(float64(c.Rotation[1]))
	return mgl32.Vec3{
		float32(cosYaw * cosPitch),
		float32(sinPitch),
		float32(sinYaw * cosPitch),
	}
}

// View returns the left-handed world-to-view matrix looking from Position along Direction with +Y up.
//
// Returns:
//   - mgl32.Mat4: the view matrix (column-major)
func (c *Camera) View() mgl32.Mat4 {
	return common.LookToLH(c.Position, c.Direction(), mgl32.Vec3{0, 1, 0})
}

// Projection returns the left-handed perspective matrix for a surface of the given size.
// Depth maps to [0, 1]. The caller must not pass a zero height.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func (c *Camera) Projection(width, height float32) mgl32.Mat4 {
	return common.PerspectiveLH(c.Fov, width/height, c.Near, c.Far)
}

// Uniform packs the view and projection matrices for upload.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - GPUCameraUniform: view followed by projection
func (c *Camera) Uniform(width, height float32) GPUCameraUniform {
	return GPUCameraUniform{
		View:       c.View(),
		Projection: c.Projection(width, height),
	}
}
