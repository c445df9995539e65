package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*Camera)

// WithPosition sets the camera's world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the camera's yaw and pitch in radians.
//
// Parameters:
//   - yaw: rotation around +Y, zero looks down +X
//   - pitch: elevation above the horizontal plane
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation
func WithRotation(yaw, pitch float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Rotation = mgl32.Vec2{yaw, pitch}
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Fov = fov
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Far = far
	}
}
