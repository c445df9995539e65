package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyInput is the per-tick input a FlyController consumes.
// Look is the relative mouse motion for the tick.
type FlyInput struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Run     bool
	Look    mgl32.Vec2
}

type flyControllerImpl struct {
	mu *sync.Mutex

	moveSpeed       float32
	runMultiplier   float32
	lookSensitivity float32
	pitchLimit      float32
}

// FlyController moves a Camera like a free-flying first person camera.
// Mouse motion turns the camera, movement stays on the horizontal plane.
type FlyController interface {
	// Update applies one tick of input to the camera.
	// Yaw and pitch decrease with positive mouse motion, pitch is clamped to the pitch limit,
	// and the position moves along the horizontal forward/right basis scaled by dt and speed.
	//
	// Parameters:
	//   - cam: the camera to mutate
	//   - in: the input for this tick
	//   - dt: the tick duration in seconds
	Update(cam *Camera, in FlyInput, dt float32)

	// MoveSpeed returns the walking speed in units per second.
	//
	// Returns:
	//   - float32: the move speed
	MoveSpeed() float32

	// SetMoveSpeed sets the walking speed in units per second.
	//
	// Parameters:
	//   - speed: the new move speed
	SetMoveSpeed(speed float32)
}

var _ FlyController = &flyControllerImpl{}

// NewFlyController creates a fly controller.
// Defaults: move speed 1, run multiplier 1.5, look sensitivity 0.01, pitch limit just under 90 degrees.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - FlyController: the newly created controller
func NewFlyController(options ...FlyControllerBuilderOption) FlyController {
	fc := &flyControllerImpl{
		mu:              &sync.Mutex{},
		moveSpeed:       1.0,
		runMultiplier:   1.5,
		lookSensitivity: 0.01,
		pitchLimit:      float32(math.Pi/2 - 0.01),
	}

	for _, opt := range options {
		opt(fc)
	}

	return fc
}

func (fc *flyControllerImpl) Update(cam *Camera, in FlyInput, dt float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cam.Rotation[0] -= in.Look[0] * fc.lookSensitivity
	cam.Rotation[1] -= in.Look[1] * fc.lookSensitivity
	cam.Rotation[1] = mgl32.Clamp(cam.Rotation[1], -fc.pitchLimit, fc.pitchLimit)

	forward, right := horizontalBasis(cam.Rotation[0])

	var velocity mgl32.Vec3
	if in.Forward {
		velocity = velocity.Add(forward)
	}
	if in.Back {
		velocity = velocity.Sub(forward)
	}
	if in.Right {
		velocity = velocity.Add(right)
	}
	if in.Left {
		velocity = velocity.Sub(right)
	}

	speed := fc.moveSpeed
	if in.Run {
		speed *= fc.runMultiplier
	}
	cam.Position = cam.Position.Add(velocity.Mul(dt * speed))
}

func (fc *flyControllerImpl) MoveSpeed() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.moveSpeed
}

func (fc *flyControllerImpl) SetMoveSpeed(speed float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.moveSpeed = speed
}

// horizontalBasis returns the forward and right vectors on the XZ plane for the given yaw.
func horizontalBasis(yaw float32) (forward, right mgl32.Vec3) {
	sin, cos := math.Sincos(float64(yaw))
	forward = mgl32.Vec3{float32(cos), 0, float32(sin)}
	right = mgl32.Vec3{float32(sin), 0, float32(-cos)}
	return forward, right
}
