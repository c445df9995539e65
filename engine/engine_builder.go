package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/input"
	"github.com/Carmen-Shannon/genesis/engine/profiler"
	"github.com/Carmen-Shannon/genesis/engine/renderer"
	"github.com/Carmen-Shannon/genesis/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerOptions passes options to the engine's profiler.
//
// Parameters:
//   - options: profiler options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerOptions(options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilerOptions = append(e.profilerOptions, options...)
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithWindow sets a pre-configured window rather than letting the engine create one.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions passes options to the window the engine creates. Ignored when WithWindow is used.
// The engine captures the cursor unless an option says otherwise.
//
// Parameters:
//   - options: window options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRenderer sets a pre-built renderer rather than letting the engine create one.
//
// Parameters:
//   - r: the Renderer to draw with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRendererOptions passes options to the renderer the engine creates. Ignored when WithRenderer is used.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOption = append(e.rendererOption, options...)
	}
}

// WithInput sets the Input fed by window events. The fly camera actions must be registered on it.
//
// Parameters:
//   - in: the Input instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInput(in input.Input) EngineBuilderOption {
	return func(e *engine) {
		e.input = in
	}
}

// WithCamera sets the camera the engine moves and uploads.
//
// Parameters:
//   - cam: the Camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(cam *camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = cam
	}
}

// WithFlyController sets the controller that moves the camera from input.
//
// Parameters:
//   - fc: the FlyController
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFlyController(fc camera.FlyController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = fc
	}
}

// WithTickCallback registers the function called each tick.
//
// Parameters:
//   - callback: function receiving the delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithLogger sets the logger shared by the engine and the components it creates.
//
// Parameters:
//   - logger: the logger, nil keeps log.Default()
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// withClock replaces the time source used to measure tick deltas.
func withClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
