package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeWrite struct {
	target BufferTarget
	offset uint64
	data   []byte
}

type fakeDraw struct {
	pipelineKey string
	cmd         DrawCommand
}

// fakeBackend records every call the renderer makes so tests can assert on the GPU command stream.
type fakeBackend struct {
	configures   [][2]int
	presentModes []PresentMode
	buffers      map[BufferTarget]uint64
	bindGroups   int
	pipelines    []pipeline.Pipeline
	writes       []fakeWrite
	draws        []fakeDraw
	begins       int
	ends         int
	presents     int
	releases     int
	clearColors  []wgpu.Color

	createErr error
	beginErrs []error
	endErr    error
}

var _ RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{buffers: make(map[BufferTarget]uint64)}
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configures = append(f.configures, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.presentModes = append(f.presentModes, mode)
}

func (f *fakeBackend) CreateBuffer(target BufferTarget, size uint64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.buffers[target] = size
	return nil
}

func (f *fakeBackend) InitCameraBindGroup() error {
	f.bindGroups++
	return nil
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p)
	return nil
}

func (f *fakeBackend) WriteBuffer(target BufferTarget, offset uint64, data []byte) {
	f.writes = append(f.writes, fakeWrite{target: target, offset: offset, data: bytes.Clone(data)})
}

func (f *fakeBackend) BeginFrame(clear wgpu.Color) error {
	f.begins++
	f.clearColors = append(f.clearColors, clear)
	if len(f.beginErrs) > 0 {
		err := f.beginErrs[0]
		f.beginErrs = f.beginErrs[1:]
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, cmd DrawCommand) {
	f.draws = append(f.draws, fakeDraw{pipelineKey: p.PipelineKey(), cmd: cmd})
}

func (f *fakeBackend) EndFrame() error {
	f.ends++
	return f.endErr
}

func (f *fakeBackend) Present() {
	f.presents++
}

func (f *fakeBackend) Release() {
	f.releases++
}

func (f *fakeBackend) lastWrite(target BufferTarget) (fakeWrite, bool) {
	for i := len(f.writes) - 1; i >= 0; i-- {
		if f.writes[i].target == target {
			return f.writes[i], true
		}
	}
	return fakeWrite{}, false
}

func (f *fakeBackend) writeCount(target BufferTarget) int {
	n := 0
	for _, w := range f.writes {
		if w.target == target {
			n++
		}
	}
	return n
}

func newTestRenderer(t *testing.T, width, height int, options ...RendererBuilderOption) (*renderer, *fakeBackend, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	options = append([]RendererBuilderOption{WithLogger(log.New(logs, "", 0))}, options...)

	r := newRenderer(options...)
	fb := newFakeBackend()
	if err := r.init(fb, width, height); err != nil {
		t.Fatalf("Expected init to succeed, got %v", err)
	}
	return r, fb, logs
}

func TestInitCreatesResources(t *testing.T) {
	_, fb, _ := newTestRenderer(t, 800, 600)

	if len(fb.presentModes) == 0 || fb.presentModes[0] != PresentModeVSync {
		t.Errorf("Expected VSync by default, got %v", fb.presentModes)
	}
	if len(fb.configures) != 1 || fb.configures[0] != [2]int{800, 600} {
		t.Errorf("Expected one configure at 800x600, got %v", fb.configures)
	}

	want := map[BufferTarget]uint64{
		BufferTargetCamera:            128,
		BufferTargetMeshVertex:        24 * MaxMeshVertices,
		BufferTargetMeshIndex:         2 * MaxMeshIndices,
		BufferTargetQuadVertex:        24 * 4,
		BufferTargetQuadIndex:         12,
		BufferTargetBillboardInstance: 24 * MaxBillboards,
	}
	for target, size := range want {
		if got, ok := fb.buffers[target]; !ok || got != size {
			t.Errorf("%s: expected size %d, got %d (created %t)", target, size, got, ok)
		}
	}

	if fb.bindGroups != 1 {
		t.Errorf("Expected camera bind group to be created once, got %d", fb.bindGroups)
	}
	if len(fb.pipelines) != 2 {
		t.Fatalf("Expected 2 pipelines, got %d", len(fb.pipelines))
	}

	quadIdx, ok := fb.lastWrite(BufferTargetQuadIndex)
	if !ok || !bytes.Equal(quadIdx.data, []byte{0, 0, 1, 0, 2, 0, 2, 0, 3, 0, 0, 0}) {
		t.Errorf("Expected quad indices 0,1,2,2,3,0, got %v", quadIdx.data)
	}
	if quadVtx, ok := fb.lastWrite(BufferTargetQuadVertex); !ok || len(quadVtx.data) != 96 {
		t.Errorf("Expected 96 bytes of quad vertices, got %d", len(quadVtx.data))
	}
}

func TestPipelineDescriptions(t *testing.T) {
	_, fb, _ := newTestRenderer(t, 800, 600)

	mesh, billboard := fb.pipelines[0], fb.pipelines[1]
	if mesh.PipelineKey() != meshPipelineKey || billboard.PipelineKey() != billboardPipelineKey {
		t.Fatalf("Expected mesh then billboard, got %q %q", mesh.PipelineKey(), billboard.PipelineKey())
	}

	if mesh.FrontFace() != wgpu.FrontFaceCW || mesh.CullMode() != wgpu.CullModeBack {
		t.Errorf("Expected mesh to cull clockwise back faces, got %v %v", mesh.FrontFace(), mesh.CullMode())
	}
	if billboard.CullMode() != wgpu.CullModeNone {
		t.Errorf("Expected billboard without culling, got %v", billboard.CullMode())
	}

	if n := len(mesh.VertexLayouts()); n != 1 {
		t.Errorf("Expected 1 mesh vertex layout, got %d", n)
	}
	layouts := billboard.VertexLayouts()
	if len(layouts) != 2 || layouts[1].StepMode != wgpu.VertexStepModeInstance {
		t.Fatalf("Expected vertex + instance layouts, got %+v", layouts)
	}
	if layouts[1].Attributes[0].ShaderLocation != 2 || layouts[1].Attributes[1].ShaderLocation != 3 {
		t.Errorf("Expected instance locations 2 and 3, got %+v", layouts[1].Attributes)
	}

	for _, p := range fb.pipelines {
		src := p.Source()
		if strings.Contains(src, "@genesis:") {
			t.Errorf("%s: expected annotations to be expanded", p.PipelineKey())
		}
		if !strings.Contains(src, "struct CameraUniform") || !strings.Contains(src, "var<uniform> camera: CameraUniform;") {
			t.Errorf("%s: expected camera uniform at group 0", p.PipelineKey())
		}
	}
	if !strings.Contains(billboard.Source(), "struct BillboardInput") {
		t.Error("Expected billboard instance struct in billboard shader")
	}
}

func TestLoadMeshThenDrawIssuesIndexCount(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)

	vertices := []Vertex{
		{Position: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 1}, Color: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{1, 0, 1}, Color: mgl32.Vec3{0, 0, 1}},
	}
	if err := r.LoadMesh(vertices, []uint16{0, 1, 2, 0}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.IndexCount() != 4 {
		t.Errorf("Expected index count 4, got %d", r.IndexCount())
	}

	if err := r.Draw(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(fb.draws) != 2 {
		t.Fatalf("Expected 2 draw calls, got %d", len(fb.draws))
	}
	mesh := fb.draws[0]
	if mesh.pipelineKey != meshPipelineKey || mesh.cmd.IndexCount != 4 || mesh.cmd.InstanceCount != 1 {
		t.Errorf("Expected mesh pass with 4 indices x 1 instance, got %+v", mesh)
	}
	if mesh.cmd.IndexBuffer != BufferTargetMeshIndex {
		t.Errorf("Expected mesh index buffer, got %s", mesh.cmd.IndexBuffer)
	}
	if fb.begins != 1 || fb.ends != 1 || fb.presents != 1 {
		t.Errorf("Expected one begin/end/present, got %d/%d/%d", fb.begins, fb.ends, fb.presents)
	}
}

func TestDrawBillboardPass(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)

	instances := []Billboard{
		{Position: mgl32.Vec3{1, 0, 0}, Color: mgl32.Vec3{1, 1, 1}},
		{Position: mgl32.Vec3{2, 0, 0}, Color: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{3, 0, 0}, Color: mgl32.Vec3{0, 1, 0}},
	}
	if err := r.LoadBillboards(instances); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if w, ok := fb.lastWrite(BufferTargetBillboardInstance); !ok || len(w.data) != 72 || w.offset != 0 {
		t.Errorf("Expected 72 bytes at offset 0, got %d at %d", len(w.data), w.offset)
	}

	if err := r.Draw(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	bb := fb.draws[1]
	if bb.pipelineKey != billboardPipelineKey {
		t.Fatalf("Expected billboard pass second, got %q", bb.pipelineKey)
	}
	if bb.cmd.IndexCount != 6 || bb.cmd.InstanceCount != 3 {
		t.Errorf("Expected 6 indices x 3 instances, got %+v", bb.cmd)
	}
	want := []BufferTarget{BufferTargetQuadVertex, BufferTargetBillboardInstance}
	if len(bb.cmd.VertexBuffers) != 2 || bb.cmd.VertexBuffers[0] != want[0] || bb.cmd.VertexBuffers[1] != want[1] {
		t.Errorf("Expected quad then instance buffers, got %v", bb.cmd.VertexBuffers)
	}
}

func TestLoadCapacity(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	writes := len(fb.writes)

	err := r.LoadMesh(make([]Vertex, MaxMeshVertices+1), []uint16{0, 1, 2})
	var capErr *CapacityError
	if !errors.As(err, &capErr) || !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Expected a CapacityError, got %v", err)
	}
	if capErr.Requested != MaxMeshVertices+1 || capErr.Capacity != MaxMeshVertices {
		t.Errorf("Unexpected capacity error %+v", capErr)
	}

	if err := r.LoadMesh(nil, make([]uint16, MaxMeshIndices+1)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Expected index capacity error, got %v", err)
	}
	if err := r.LoadBillboards(make([]Billboard, MaxBillboards+1)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Expected billboard capacity error, got %v", err)
	}

	if len(fb.writes) != writes {
		t.Errorf("Expected no writes on capacity errors, got %d", len(fb.writes)-writes)
	}
	if r.IndexCount() != 0 || r.InstanceCount() != 0 {
		t.Errorf("Expected counts unchanged, got %d %d", r.IndexCount(), r.InstanceCount())
	}

	if err := r.LoadMesh(make([]Vertex, MaxMeshVertices), make([]uint16, MaxMeshIndices)); err != nil {
		t.Errorf("Expected a full buffer to load, got %v", err)
	}
	if err := r.LoadBillboards(make([]Billboard, MaxBillboards)); err != nil {
		t.Errorf("Expected a full buffer to load, got %v", err)
	}
}

func TestLoadMeshPadsOddIndexCount(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)

	if err := r.LoadMesh(make([]Vertex, 3), []uint16{0, 1, 2}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	w, ok := fb.lastWrite(BufferTargetMeshIndex)
	if !ok || len(w.data) != 8 {
		t.Fatalf("Expected 8 padded bytes, got %d", len(w.data))
	}
	if r.IndexCount() != 3 {
		t.Errorf("Expected index count 3, got %d", r.IndexCount())
	}
}

func TestLoadEmptyClearsCounts(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	if err := r.LoadBillboards(make([]Billboard, 5)); err != nil {
		t.Fatal(err)
	}
	before := fb.writeCount(BufferTargetBillboardInstance)

	if err := r.LoadBillboards(nil); err != nil {
		t.Fatal(err)
	}
	if r.InstanceCount() != 0 {
		t.Errorf("Expected 0 instances, got %d", r.InstanceCount())
	}
	if fb.writeCount(BufferTargetBillboardInstance) != before {
		t.Error("Expected no write for an empty load")
	}
}

func TestResizeThenLoadCameraUsesNewSize(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	cam := camera.NewCamera(camera.WithPosition(1, 2, 3), camera.WithRotation(0.4, 0.1))

	r.Resize(1024, 256)
	if w, h := r.Size(); w != 1024 || h != 256 {
		t.Errorf("Expected size 1024x256, got %dx%d", w, h)
	}
	if last := fb.configures[len(fb.configures)-1]; last != [2]int{1024, 256} {
		t.Errorf("Expected reconfigure at 1024x256, got %v", last)
	}

	if err := r.LoadCamera(cam); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	w, ok := fb.lastWrite(BufferTargetCamera)
	if !ok {
		t.Fatal("Expected a camera write")
	}
	want := cam.Uniform(1024, 256)
	if !bytes.Equal(w.data, want.Marshal()) {
		t.Error("Expected projection built from the resized surface")
	}
	stale := cam.Uniform(800, 600)
	if bytes.Equal(w.data, stale.Marshal()) {
		t.Error("Expected projection to differ from the pre-resize size")
	}
}

func TestZeroSizeSuspendsPresentation(t *testing.T) {
	r, fb, logs := newTestRenderer(t, 800, 600)
	configures := len(fb.configures)

	r.Resize(0, 600)
	if !r.Suspended() {
		t.Fatal("Expected renderer to be suspended")
	}
	if w, h := r.Size(); w != 0 || h != 600 {
		t.Errorf("Expected recorded size 0x600, got %dx%d", w, h)
	}
	if len(fb.configures) != configures {
		t.Error("Expected no surface configure for a zero size")
	}

	if err := r.LoadCamera(camera.NewCamera()); !errors.Is(err, ErrSurfaceSuspended) {
		t.Errorf("Expected ErrSurfaceSuspended, got %v", err)
	}
	if err := r.Draw(); err != nil {
		t.Errorf("Expected suspended draw to be a no-op, got %v", err)
	}
	if fb.begins != 0 {
		t.Errorf("Expected no frame while suspended, got %d", fb.begins)
	}

	r.Resize(640, 480)
	if r.Suspended() {
		t.Error("Expected renderer to resume")
	}
	if last := fb.configures[len(fb.configures)-1]; last != [2]int{640, 480} {
		t.Errorf("Expected configure at 640x480, got %v", last)
	}
	if err := r.LoadCamera(camera.NewCamera()); err != nil {
		t.Errorf("Expected camera upload after resume, got %v", err)
	}
	if !strings.Contains(logs.String(), "suspended") || !strings.Contains(logs.String(), "resumed") {
		t.Errorf("Expected suspend and resume messages, got %q", logs.String())
	}
}

func TestInitWithZeroSize(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 0, 0)

	if !r.Suspended() {
		t.Error("Expected renderer to start suspended")
	}
	if len(fb.configures) != 0 {
		t.Errorf("Expected no configure, got %v", fb.configures)
	}
	if len(fb.pipelines) != 2 {
		t.Errorf("Expected resources to be created anyway, got %d pipelines", len(fb.pipelines))
	}
}

func TestDrawRetriesOnceAfterAcquireFailure(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	configures := len(fb.configures)
	fb.beginErrs = []error{fmt.Errorf("%w: outdated", ErrSurfaceAcquire)}

	if err := r.Draw(); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if fb.begins != 2 {
		t.Errorf("Expected 2 begin attempts, got %d", fb.begins)
	}
	if len(fb.configures) != configures+1 || fb.configures[len(fb.configures)-1] != [2]int{800, 600} {
		t.Errorf("Expected one reconfigure at 800x600, got %v", fb.configures[configures:])
	}
	if fb.presents != 1 {
		t.Errorf("Expected frame to be presented, got %d", fb.presents)
	}
}

func TestDrawReturnsSecondAcquireFailure(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	fb.beginErrs = []error{
		fmt.Errorf("%w: lost", ErrSurfaceAcquire),
		fmt.Errorf("%w: lost", ErrSurfaceAcquire),
	}

	err := r.Draw()
	if !errors.Is(err, ErrSurfaceAcquire) {
		t.Fatalf("Expected ErrSurfaceAcquire, got %v", err)
	}
	if fb.begins != 2 || fb.presents != 0 || len(fb.draws) != 0 {
		t.Errorf("Expected two attempts and no draws, got %d begins %d presents %d draws", fb.begins, fb.presents, len(fb.draws))
	}

	// the renderer stays usable
	if err := r.Draw(); err != nil {
		t.Errorf("Expected next frame to draw, got %v", err)
	}
}

func TestDrawDoesNotRetryOtherErrors(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	fb.beginErrs = []error{errors.New("out of memory")}

	if err := r.Draw(); err == nil {
		t.Fatal("Expected an error")
	}
	if fb.begins != 1 {
		t.Errorf("Expected no retry, got %d begins", fb.begins)
	}
}

func TestDrawEndFrameFailure(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	fb.endErr = errors.New("finish failed")

	if err := r.Draw(); err == nil {
		t.Fatal("Expected an error")
	}
	if fb.presents != 0 {
		t.Error("Expected no present after a failed submit")
	}
}

func TestClearColor(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)
	if err := r.Draw(); err != nil {
		t.Fatal(err)
	}
	if fb.clearColors[0] != (wgpu.Color{R: 0, G: 0, B: 0, A: 1}) {
		t.Errorf("Expected black, got %+v", fb.clearColors[0])
	}

	blue := wgpu.Color{R: 0, G: 0, B: 1, A: 1}
	r, fb, _ = newTestRenderer(t, 800, 600, WithClearColor(blue))
	if err := r.Draw(); err != nil {
		t.Fatal(err)
	}
	if fb.clearColors[0] != blue {
		t.Errorf("Expected %+v, got %+v", blue, fb.clearColors[0])
	}
}

func TestSetPresentMode(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600, WithPresentMode(PresentModeUncapped))
	if fb.presentModes[0] != PresentModeUncapped {
		t.Errorf("Expected uncapped at init, got %v", fb.presentModes[0])
	}
	configures := len(fb.configures)

	r.SetPresentMode(PresentModeVSync)
	if fb.presentModes[len(fb.presentModes)-1] != PresentModeVSync {
		t.Error("Expected VSync to reach the backend")
	}
	if len(fb.configures) != configures+1 {
		t.Error("Expected the surface to be reconfigured")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	r, fb, _ := newTestRenderer(t, 800, 600)

	r.Release()
	r.Release()
	if fb.releases != 1 {
		t.Errorf("Expected one backend release, got %d", fb.releases)
	}

	if err := r.Draw(); !errors.Is(err, ErrRendererReleased) {
		t.Errorf("Expected ErrRendererReleased, got %v", err)
	}
	if err := r.LoadMesh(nil, nil); !errors.Is(err, ErrRendererReleased) {
		t.Errorf("Expected ErrRendererReleased, got %v", err)
	}
	if err := r.LoadCamera(camera.NewCamera()); !errors.Is(err, ErrRendererReleased) {
		t.Errorf("Expected ErrRendererReleased, got %v", err)
	}
}

func TestInitFailureReleasesBackend(t *testing.T) {
	r := newRenderer(WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	fb := newFakeBackend()
	fb.createErr = errors.New("device lost")

	err := r.init(fb, 800, 600)
	if err == nil || !strings.Contains(err.Error(), "device lost") {
		t.Fatalf("Expected wrapped device error, got %v", err)
	}
	if fb.releases != 1 {
		t.Errorf("Expected backend to be released, got %d", fb.releases)
	}
}

func TestGPUTypeSizes(t *testing.T) {
	if got := (&Vertex{}).Size(); got != 24 {
		t.Errorf("Expected vertex size 24, got %d", got)
	}
	if got := (&Billboard{}).Size(); got != 24 {
		t.Errorf("Expected billboard size 24, got %d", got)
	}
	if got := len(vertexBytes(quadVertices)); got != 96 {
		t.Errorf("Expected 96 quad bytes, got %d", got)
	}
}
