package engine

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/input"
	"github.com/Carmen-Shannon/genesis/engine/profiler"
	"github.com/Carmen-Shannon/genesis/engine/renderer"
	"github.com/Carmen-Shannon/genesis/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// recorder collects calls across fakes so ordering can be asserted.
type recorder struct {
	calls []string
}

func (r *recorder) add(call string) { r.calls = append(r.calls, call) }

type fakeWindow struct {
	rec        *recorder
	iterations int
	width      int
	height     int

	onUpdate      func()
	onResize      func(width, height int)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button uint32, down bool)
	onMouseMotion func(dx, dy float32)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32)) { w.onKeyUp = cb }
func (w *fakeWindow) SetMouseButtonCallback(cb func(button uint32, down bool)) { w.onMouseButton = cb }
func (w *fakeWindow) SetMouseMotionCallback(cb func(dx, dy float32)) { w.onMouseMotion = cb }
func (w *fakeWindow) SetCursorCaptured(bool) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.iterations > 0 }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) Close() error {
	w.rec.add("window.close")
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.iterations--
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type fakeRenderer struct {
	rec           *recorder
	width, height int
	cameras       []camera.Camera
	loadCameraErr error
	drawErrs      []error
	released      int
}

var _ renderer.Renderer = &fakeRenderer{}

func (r *fakeRenderer) Resize(width, height int) {
	r.rec.add("renderer.resize")
	r.width, r.height = width, height
}
func (r *fakeRenderer) LoadMesh([]renderer.Vertex, []uint16) error { return nil }
func (r *fakeRenderer) LoadBillboards([]renderer.Billboard) error { return nil }
func (r *fakeRenderer) Size() (int, int) { return r.width, r.height }
func (r *fakeRenderer) Suspended() bool { return r.width == 0 || r.height == 0 }
func (r *fakeRenderer) IndexCount() int { return 0 }
func (r *fakeRenderer) InstanceCount() int { return 0 }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}

func (r *fakeRenderer) LoadCamera(cam *camera.Camera) error {
	r.rec.add("renderer.load_camera")
	r.cameras = append(r.cameras, *cam)
	return r.loadCameraErr
}

func (r *fakeRenderer) Draw() error {
	r.rec.add("renderer.draw")
	if len(r.drawErrs) == 0 {
		return nil
	}
	err := r.drawErrs[0]
	r.drawErrs = r.drawErrs[1:]
	return err
}

func (r *fakeRenderer) Release() {
	r.rec.add("renderer.release")
	r.released++
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *fakeWindow, *fakeRenderer, *bytes.Buffer) {
	t.Helper()
	rec := &recorder{}
	fw := &fakeWindow{rec: rec, width: 800, height: 600}
	fr := &fakeRenderer{rec: rec, width: 800, height: 600}
	var buf bytes.Buffer

	opts := append([]EngineBuilderOption{
		WithWindow(fw),
		WithRenderer(fr),
		WithLogger(log.New(&buf, "", 0)),
	}, options...)
	e, err := NewEngine(opts...)
	if err != nil {
		t.Fatalf("Expected no error creating engine, got %v", err)
	}
	return e.(*engine), fw, fr, &buf
}

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()
	cases := map[input.ActionID]input.Button{
		ActionMoveForward: input.KeyButton(input.KeyW),
		ActionMoveBack:    input.KeyButton(input.KeyS),
		ActionMoveLeft:    input.KeyButton(input.KeyA),
		ActionMoveRight:   input.KeyButton(input.KeyD),
		ActionRun:         input.KeyButton(input.KeyLeftShift),
		ActionUse:         input.MouseButtonOf(input.MouseButtonLeft),
	}
	for id, want := range cases {
		if len(b[id]) != 1 || b[id][0] != want {
			t.Errorf("Expected %s bound to %v, got %v", id, want, b[id])
		}
	}
}

func TestWindowEventsFeedInputAndRenderer(t *testing.T) {
	e, fw, fr, _ := newTestEngine(t)

	fw.onKeyDown(uint32(input.KeyW))
	if !e.Input().Action(ActionMoveForward).IsDown {
		t.Errorf("Expected W key down to press move_forward")
	}
	fw.onKeyUp(uint32(input.KeyW))
	if e.Input().Action(ActionMoveForward).IsDown {
		t.Errorf("Expected W key up to release move_forward")
	}

	fw.onMouseButton(uint32(input.MouseButtonLeft), true)
	if !e.Input().Action(ActionUse).JustDown {
		t.Errorf("Expected left mouse button to press use")
	}

	fw.onMouseMotion(3, -1)
	fw.onMouseMotion(1, 0)
	if got := e.Input().MouseDelta(); got != (mgl32.Vec2{4, -1}) {
		t.Errorf("Expected accumulated mouse delta (4, -1), got %v", got)
	}

	fw.onResize(1024, 0)
	if fr.width != 1024 || fr.height != 0 {
		t.Errorf("Expected renderer resized to 1024x0, got %dx%d", fr.width, fr.height)
	}
}

func TestTickOrder(t *testing.T) {
	e, fw, _, _ := newTestEngine(t)
	var seenJustDown bool
	var seenPosition mgl32.Vec3
	rec := fw.rec
	e.SetTickCallback(func(dt float32) {
		rec.add("tick")
		seenJustDown = e.Input().Action(ActionMoveForward).JustDown
		seenPosition = e.Camera().Position
	})

	fw.onKeyDown(uint32(input.KeyW))
	fw.onMouseMotion(5, 5)
	e.Tick(0.5)

	want := []string{"tick", "renderer.load_camera", "renderer.draw"}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, rec.calls)
	}
	if !seenJustDown {
		t.Errorf("Expected tick callback to see JustDown before Input.Update")
	}
	if seenPosition.X() <= 0 {
		t.Errorf("Expected camera moved before the tick callback, got %v", seenPosition)
	}
	if e.Input().Action(ActionMoveForward).JustDown {
		t.Errorf("Expected JustDown cleared after the tick")
	}
	if !e.Input().Action(ActionMoveForward).IsDown {
		t.Errorf("Expected IsDown to survive the tick")
	}
	if got := e.Input().MouseDelta(); got != (mgl32.Vec2{}) {
		t.Errorf("Expected mouse delta cleared after the tick, got %v", got)
	}
}

func TestTickMovesCameraForward(t *testing.T) {
	e, fw, fr, _ := newTestEngine(t)

	fw.onKeyDown(uint32(input.KeyW))
	e.Tick(0.5)

	if got := e.Camera().Position; got.Sub(mgl32.Vec3{0.5, 0, 0}).Len() > 1e-5 {
		t.Errorf("Expected camera at (0.5, 0, 0), got %v", got)
	}
	if len(fr.cameras) != 1 || fr.cameras[0].Position != e.Camera().Position {
		t.Errorf("Expected the moved camera to be uploaded, got %v", fr.cameras)
	}
}

func TestTickAppliesMouseLook(t *testing.T) {
	e, fw, _, _ := newTestEngine(t)

	fw.onMouseMotion(10, 0)
	e.Tick(0.016)
	yaw := e.Camera().Rotation.X()
	if yaw > -0.099 || yaw < -0.101 {
		t.Errorf("Expected yaw -0.1, got %v", yaw)
	}

	e.Tick(0.016)
	if e.Camera().Rotation.X() != yaw {
		t.Errorf("Expected no further rotation once the delta is cleared, got %v", e.Camera().Rotation.X())
	}
}

func TestTickSuspendedCameraIsSilent(t *testing.T) {
	e, _, fr, buf := newTestEngine(t)
	fr.loadCameraErr = renderer.ErrSurfaceSuspended

	e.Tick(0.016)
	if buf.Len() != 0 {
		t.Errorf("Expected no log output while suspended, got %q", buf.String())
	}

	fr.loadCameraErr = errors.New("boom")
	e.Tick(0.016)
	if !strings.Contains(buf.String(), "[Engine] failed to load camera: boom") {
		t.Errorf("Expected camera upload failure logged, got %q", buf.String())
	}
}

func TestTickDrawFailureIsCountedAndNotFatal(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	e, fw, fr, buf := newTestEngine(t,
		WithProfiling(true),
		WithProfilerOptions(profiler.WithClock(clock.now), profiler.WithInterval(time.Second)),
	)
	fr.drawErrs = []error{renderer.ErrSurfaceAcquire}

	e.Tick(0.016)
	if !strings.Contains(buf.String(), "[Engine] failed to draw frame") {
		t.Errorf("Expected draw failure logged, got %q", buf.String())
	}

	clock.advance(time.Second)
	e.Tick(0.016)
	if got := e.profiler.Last().DroppedFrames; got != 1 {
		t.Errorf("Expected 1 dropped frame, got %d", got)
	}
	if got := e.profiler.Last().Frames; got != 2 {
		t.Errorf("Expected 2 frames, got %d", got)
	}

	draws := 0
	for _, c := range fw.rec.calls {
		if c == "renderer.draw" {
			draws++
		}
	}
	if draws != 2 {
		t.Errorf("Expected drawing to continue after a failure, got %d draws", draws)
	}
}

func TestProfilerDisabledByDefault(t *testing.T) {
	e, _, _, buf := newTestEngine(t, WithProfilerOptions(profiler.WithInterval(time.Nanosecond)))
	e.Tick(0.016)
	if strings.Contains(buf.String(), "[Profiler]") {
		t.Errorf("Expected no profiler output while disabled, got %q", buf.String())
	}

	e.EnableProfiler()
	time.Sleep(time.Millisecond)
	e.Tick(0.016)
	if !strings.Contains(buf.String(), "[Profiler]") {
		t.Errorf("Expected profiler output once enabled, got %q", buf.String())
	}
}

func TestRunReleasesRendererBeforeClosingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	e, fw, fr, _ := newTestEngine(t, withClock(clock.now))
	fw.iterations = 3

	var deltas []float32
	e.SetTickCallback(func(dt float32) {
		deltas = append(deltas, dt)
		clock.advance(20 * time.Millisecond)
	})

	if err := e.Run(); err != nil {
		t.Fatalf("Expected no error from Run, got %v", err)
	}

	if len(deltas) != 3 {
		t.Fatalf("Expected 3 ticks, got %d", len(deltas))
	}
	if deltas[0] != 0 {
		t.Errorf("Expected first delta 0, got %v", deltas[0])
	}
	if deltas[1] < 0.0199 || deltas[1] > 0.0201 {
		t.Errorf("Expected second delta 0.02, got %v", deltas[1])
	}
	if fr.released != 1 {
		t.Errorf("Expected renderer released once, got %d", fr.released)
	}
	n := len(fw.rec.calls)
	if n < 2 || fw.rec.calls[n-2] != "renderer.release" || fw.rec.calls[n-1] != "window.close" {
		t.Errorf("Expected release then close at the end, got %v", fw.rec.calls)
	}
}

func TestFrameDuration(t *testing.T) {
	if got := frameDuration(0); got != 0 {
		t.Errorf("Expected 0 for uncapped, got %v", got)
	}
	if got := frameDuration(50); got != 20*time.Millisecond {
		t.Errorf("Expected 20ms, got %v", got)
	}
}

func TestNewEngineRendererFailureLeavesSuppliedWindowOpen(t *testing.T) {
	rec := &recorder{}
	fw := &fakeWindow{rec: rec, width: 800, height: 600}

	e, err := NewEngine(WithWindow(fw), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	if err == nil {
		t.Fatalf("Expected renderer creation to fail without a surface descriptor")
	}
	if e != nil {
		t.Errorf("Expected no engine on failure, got %v", e)
	}
	for _, c := range rec.calls {
		if c == "window.close" {
			t.Errorf("Expected a caller-supplied window to stay open, got calls %v", rec.calls)
		}
	}
}
