package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/input"
	"github.com/Carmen-Shannon/genesis/engine/profiler"
	"github.com/Carmen-Shannon/genesis/engine/renderer"
	"github.com/Carmen-Shannon/genesis/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// Actions read by the fly camera each tick.
const (
	ActionMoveForward input.ActionID = "move_forward"
	ActionMoveBack    input.ActionID = "move_back"
	ActionMoveLeft    input.ActionID = "move_left"
	ActionMoveRight   input.ActionID = "move_right"
	ActionRun         input.ActionID = "run"
	ActionUse         input.ActionID = "use"
)

// DefaultBindings returns the viewer's default bindings: WASD movement, left shift to run and the left
// mouse button for use.
//
// Returns:
//   - map[input.ActionID][]input.Button: buttons bound to each action
func DefaultBindings() map[input.ActionID][]input.Button {
	return map[input.ActionID][]input.Button{
		ActionMoveForward: {input.KeyButton(input.KeyW)},
		ActionMoveBack:    {input.KeyButton(input.KeyS)},
		ActionMoveLeft:    {input.KeyButton(input.KeyA)},
		ActionMoveRight:   {input.KeyButton(input.KeyD)},
		ActionRun:         {input.KeyButton(input.KeyLeftShift)},
		ActionUse:         {input.MouseButtonOf(input.MouseButtonLeft)},
	}
}

// engine implements the Engine interface.
// Everything runs on the window's thread: events, tick, and GPU calls.
type engine struct {
	logger *log.Logger

	window         window.Window
	windowOptions  []window.WindowBuilderOption
	renderer       renderer.Renderer
	rendererOption []renderer.RendererBuilderOption
	input          input.Input
	camera         *camera.Camera
	controller     camera.FlyController

	profiler         *profiler.Profiler
	profilerOptions  []profiler.ProfilerBuilderOption
	profilingEnabled bool

	tickCallback func(deltaTime float32)

	now              func() time.Time
	lastTick         time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine owns the window, input, camera and renderer and drives one frame per message loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Input returns the action state fed by window events.
	//
	// Returns:
	//   - input.Input: the input instance
	Input() input.Input

	// Camera returns the camera driven by the fly controller.
	//
	// Returns:
	//   - *camera.Camera: the camera
	Camera() *camera.Camera

	// Renderer returns the renderer drawing each tick.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each tick after the camera has moved and before
	// the camera is uploaded. Input edges are still visible to it.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds, nil to disable
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Tick advances one frame: fly camera, tick callback, camera upload, draw, input update and
	// profiler, in that order.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	Tick(deltaTime float32)

	// Run processes window messages until the window closes, then releases the renderer and closes
	// the window.
	//
	// Returns:
	//   - error: error if the window could not be closed
	Run() error
}

var _ Engine = &engine{}

// NewEngine creates the window (unless one is supplied), input with the default bindings, camera,
// fly controller and renderer, and wires window events into them.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the window or renderer could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger: log.Default(),
		now:    time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	ownsWindow := e.window == nil
	if ownsWindow {
		opts := append([]window.WindowBuilderOption{window.WithCursorCaptured(true), window.WithLogger(e.logger)}, e.windowOptions...)
		w, err := window.NewWindow(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
		e.window = w
	}

	if e.renderer == nil {
		opts := append([]renderer.RendererBuilderOption{renderer.WithLogger(e.logger)}, e.rendererOption...)
		r, err := renderer.NewRenderer(e.window, opts...)
		if err != nil {
			if ownsWindow {
				_ = e.window.Close()
			}
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
		e.renderer = r
	}

	e.setup()
	return e, nil
}

// setup fills in the remaining defaults and registers the window callbacks.
func (e *engine) setup() {
	if e.input == nil {
		e.input = input.NewInput(input.WithLogger(e.logger))
		for id, buttons := range DefaultBindings() {
			e.input.RegisterActionWithBinding(id, buttons...)
		}
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.controller == nil {
		e.controller = camera.NewFlyController()
	}
	e.profiler = profiler.NewProfiler(append([]profiler.ProfilerBuilderOption{profiler.WithLogger(e.logger)}, e.profilerOptions...)...)

	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.input.UpdateButton(input.KeyButton(input.Key(keyCode)), true)
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		e.input.UpdateButton(input.KeyButton(input.Key(keyCode)), false)
	})
	e.window.SetMouseButtonCallback(func(button uint32, down bool) {
		e.input.UpdateButton(input.MouseButtonOf(input.MouseButton(button)), down)
	})
	e.window.SetMouseMotionCallback(func(dx, dy float32) {
		e.input.UpdateMouseDelta(mgl32.Vec2{dx, dy})
	})
	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
	})
	e.window.SetUpdateCallback(e.update)

	e.lastTick = e.now()
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Input() input.Input {
	return e.input
}

func (e *engine) Camera() *camera.Camera {
	return e.camera
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Tick(deltaTime float32) {
	e.controller.Update(e.camera, e.flyInput(), deltaTime)

	if e.tickCallback != nil {
		e.tickCallback(deltaTime)
	}

	if err := e.renderer.LoadCamera(e.camera); err != nil && !errors.Is(err, renderer.ErrSurfaceSuspended) {
		e.logger.Printf("[Engine] failed to load camera: %v", err)
	}

	if err := e.renderer.Draw(); err != nil {
		e.logger.Printf("[Engine] failed to draw frame: %v", err)
		if e.profilingEnabled {
			e.profiler.RecordDroppedFrame()
		}
	}

	e.input.Update()

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func (e *engine) Run() error {
	e.lastTick = e.now()
	e.window.ProcessMessages()

	// The surface belongs to the window, so GPU objects go first.
	e.renderer.Release()
	return e.window.Close()
}

// update is the window's per-iteration callback: measures the delta, ticks, and applies the frame cap.
func (e *engine) update() {
	start := e.now()
	dt := float32(start.Sub(e.lastTick).Seconds())
	e.lastTick = start

	e.Tick(dt)

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// flyInput snapshots the movement actions and mouse delta for the fly controller.
func (e *engine) flyInput() camera.FlyInput {
	return camera.FlyInput{
		Forward: e.input.Action(ActionMoveForward).IsDown,
		Back:    e.input.Action(ActionMoveBack).IsDown,
		Left:    e.input.Action(ActionMoveLeft).IsDown,
		Right:   e.input.Action(ActionMoveRight).IsDown,
		Run:     e.input.Action(ActionRun).IsDown,
		Look:    e.input.MouseDelta(),
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
