package window

import (
	"log"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Every callback runs on the thread that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration, after pending events
	// have been delivered.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	// A minimised window reports a zero size.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Key repeats are reported as presses.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseButtonCallback sets the callback for mouse button press and release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW mouse button code and whether it is pressed
	SetMouseButtonCallback(callback func(button uint32, down bool))

	// SetMouseMotionCallback sets the callback for relative mouse motion.
	// The first cursor event after creation or a capture change only establishes the reference position.
	//
	// Parameters:
	//   - callback: function receiving the motion since the previous cursor event
	SetMouseMotionCallback(callback func(dx, dy float32))

	// SetCursorCaptured hides and locks the cursor to the window, enabling raw motion when supported.
	//
	// Parameters:
	//   - captured: true to capture, false to release
	SetCursorCaptured(captured bool)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	// size limits applied by the platform window, zero means unlimited
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height hold the framebuffer size in pixels
	width, height int

	cursorCaptured bool
	closeOnEscape  bool
	logger         *log.Logger

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	motion motionTracker

	onUpdate      func()
	onResize      func(width, height int)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button uint32, down bool)
	onMouseMotion func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "Genesis",
		minWidth:      200,
		minHeight:     150,
		width:         1280,
		height:        720,
		closeOnEscape: true,
		logger:        log.Default(),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button uint32, down bool)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMotionCallback(callback func(dx, dy float32)) {
	w.onMouseMotion = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	w.cursorCaptured = captured
	w.motion.reset()
	platformApplyCursorMode(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// cursorMoved turns an absolute cursor position into relative motion for the motion callback.
func (w *engineWindow) cursorMoved(x, y float64) {
	dx, dy, ok := w.motion.delta(x, y)
	if ok && w.onMouseMotion != nil && (dx != 0 || dy != 0) {
		w.onMouseMotion(dx, dy)
	}
}

// motionTracker derives relative motion from successive cursor positions.
type motionTracker struct {
	lastX, lastY float64
	valid        bool
}

// delta returns the motion since the previous position. The first position after a reset has no delta.
func (m *motionTracker) delta(x, y float64) (dx, dy float32, ok bool) {
	if m.valid {
		dx, dy, ok = float32(x-m.lastX), float32(y-m.lastY), true
	}
	m.lastX, m.lastY, m.valid = x, y, true
	return dx, dy, ok
}

func (m *motionTracker) reset() {
	m.valid = false
}
