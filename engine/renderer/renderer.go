package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/genesis/engine/renderer/shader"
	"github.com/Carmen-Shannon/genesis/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// MaxMeshVertices is the capacity of the mesh vertex buffer.
	MaxMeshVertices = 4 * 128
	// MaxMeshIndices is the capacity of the mesh index buffer.
	MaxMeshIndices = 6 * 128
	// MaxBillboards is the capacity of the billboard instance buffer.
	MaxBillboards = 64

	meshPipelineKey      = "mesh"
	billboardPipelineKey = "billboard"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	logger  *log.Logger

	meshPipeline      pipeline.Pipeline
	billboardPipeline pipeline.Pipeline

	// width and height always hold the last size passed to Resize
	width, height int
	released      bool

	indexCount    uint32
	instanceCount uint32

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
}

// Renderer owns the GPU device, the window surface and every GPU resource used to draw a frame:
// one indexed mesh followed by up to MaxBillboards camera-facing quads, viewed through a single camera.
//
// A Renderer is created once per process and must be released before its window is destroyed.
// All calls must come from the thread that created it.
type Renderer interface {
	// Resize records the new surface size and reconfigures the surface.
	// A zero width or height suspends presentation until a non-zero size arrives.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// LoadMesh replaces the mesh geometry drawn each frame.
	//
	// Parameters:
	//   - vertices: at most MaxMeshVertices vertices
	//   - indices: at most MaxMeshIndices u16 indices into vertices
	//
	// Returns:
	//   - error: a *CapacityError if either slice exceeds its buffer, nothing is written in that case
	LoadMesh(vertices []Vertex, indices []uint16) error

	// LoadBillboards replaces the billboard instances drawn each frame.
	//
	// Parameters:
	//   - instances: at most MaxBillboards instances
	//
	// Returns:
	//   - error: a *CapacityError if instances exceeds the buffer, nothing is written in that case
	LoadBillboards(instances []Billboard) error

	// LoadCamera uploads the camera's view matrix and its projection for the current surface size.
	//
	// Parameters:
	//   - cam: the camera to upload
	//
	// Returns:
	//   - error: ErrSurfaceSuspended while the surface has a zero dimension
	LoadCamera(cam *camera.Camera) error

	// Draw renders and presents one frame: the mesh pass followed by the billboard pass in a single
	// render pass cleared to the clear color. A failed surface acquisition reconfigures the surface and
	// retries once. Draw does nothing while presentation is suspended.
	//
	// Returns:
	//   - error: an error if the frame could not be drawn, the renderer stays usable
	Draw() error

	// Release releases every GPU resource. Further calls are no-ops.
	Release()

	// Size returns the last size passed to Resize.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (width, height int)

	// Suspended reports whether presentation is suspended by a zero-sized surface.
	//
	// Returns:
	//   - bool: true while suspended
	Suspended() bool

	// IndexCount returns the number of mesh indices drawn per frame.
	//
	// Returns:
	//   - int: the active index count
	IndexCount() int

	// InstanceCount returns the number of billboard instances drawn per frame.
	//
	// Returns:
	//   - int: the active instance count
	InstanceCount() int

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device for the window's surface and allocates every pipeline and buffer.
// Any failure is returned; the application cannot render without a Renderer.
//
// Parameters:
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: an error if any GPU object could not be created
func NewRenderer(win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer backend: %w", err)
	}

	if err := r.init(backend, win.Width(), win.Height()); err != nil {
		return nil, err
	}
	return r, nil
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      log.Default(),
		presentMode: PresentModeVSync,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}

	for _, opt := range options {
		opt(r)
	}
	return r
}

// init configures the surface and creates all GPU resources on the backend.
// On failure everything created so far is released.
func (r *renderer) init(backend RendererBackend, width, height int) error {
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	r.width, r.height = width, height
	if r.suspended() {
		r.logger.Printf("[Renderer] surface is %dx%d, presentation suspended", width, height)
	} else {
		r.backend.ConfigureSurface(width, height)
	}

	if err := r.createResources(); err != nil {
		r.backend.Release()
		r.released = true
		return err
	}
	return nil
}

func (r *renderer) createResources() error {
	cameraUniform := camera.GPUCameraUniform{}
	vertexSize := uint64((&Vertex{}).Size())
	billboardSize := uint64((&Billboard{}).Size())

	buffers := []struct {
		target BufferTarget
		size   uint64
	}{
		{BufferTargetCamera, uint64(cameraUniform.Size())},
		{BufferTargetMeshVertex, vertexSize * MaxMeshVertices},
		{BufferTargetMeshIndex, uint64(len(indexBytes(make([]uint16, MaxMeshIndices))))},
		{BufferTargetQuadVertex, vertexSize * uint64(len(quadVertices))},
		{BufferTargetQuadIndex, uint64(len(indexBytes(quadIndices)))},
		{BufferTargetBillboardInstance, billboardSize * MaxBillboards},
	}
	for _, b := range buffers {
		if err := r.backend.CreateBuffer(b.target, b.size); err != nil {
			return fmt.Errorf("failed to create %s: %w", b.target, err)
		}
	}

	if err := r.backend.InitCameraBindGroup(); err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	meshPipeline, billboardPipeline, err := buildPipelines()
	if err != nil {
		return err
	}
	for _, p := range []pipeline.Pipeline{meshPipeline, billboardPipeline} {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to create %s pipeline: %w", p.PipelineKey(), err)
		}
	}
	r.meshPipeline = meshPipeline
	r.billboardPipeline = billboardPipeline

	r.backend.WriteBuffer(BufferTargetQuadVertex, 0, vertexBytes(quadVertices))
	r.backend.WriteBuffer(BufferTargetQuadIndex, 0, indexBytes(quadIndices))
	return nil
}

// buildPipelines expands the embedded shaders and describes the mesh and billboard pipelines.
// Both bind the camera uniform at group 0.
func buildPipelines() (mesh, billboard pipeline.Pipeline, err error) {
	pp := shader.NewPreProcessor(
		shader.WithStruct("vertex", GPUVertexSource, "VertexInput"),
		shader.WithStruct("billboard", GPUBillboardSource, "BillboardInput"),
	)

	meshSource, err := pp.Process(meshShaderSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to process mesh shader: %w", err)
	}
	mesh = pipeline.NewPipeline(meshPipelineKey,
		pipeline.WithSource(meshSource),
		pipeline.WithVertexLayouts(VertexLayout()),
		pipeline.WithFrontFace(wgpu.FrontFaceCW),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)

	billboardSource, err := pp.Process(billboardShaderSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to process billboard shader: %w", err)
	}
	billboard = pipeline.NewPipeline(billboardPipelineKey,
		pipeline.WithSource(billboardSource),
		pipeline.WithVertexLayouts(VertexLayout(), BillboardLayout()),
		pipeline.WithFrontFace(wgpu.FrontFaceCW),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)

	return mesh, billboard, nil
}

func (r *renderer) suspended() bool {
	return r.width == 0 || r.height == 0
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasSuspended := r.suspended()
	r.width, r.height = width, height
	if r.released {
		return
	}

	if r.suspended() {
		if !wasSuspended {
			r.logger.Printf("[Renderer] surface is %dx%d, presentation suspended", width, height)
		}
		return
	}
	if wasSuspended {
		r.logger.Printf("[Renderer] surface is %dx%d, presentation resumed", width, height)
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) LoadMesh(vertices []Vertex, indices []uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrRendererReleased
	}
	if len(vertices) > MaxMeshVertices {
		return &CapacityError{Resource: "mesh vertices", Requested: len(vertices), Capacity: MaxMeshVertices}
	}
	if len(indices) > MaxMeshIndices {
		return &CapacityError{Resource: "mesh indices", Requested: len(indices), Capacity: MaxMeshIndices}
	}

	if len(vertices) > 0 {
		r.backend.WriteBuffer(BufferTargetMeshVertex, 0, vertexBytes(vertices))
	}
	if len(indices) > 0 {
		r.backend.WriteBuffer(BufferTargetMeshIndex, 0, indexBytes(indices))
	}
	r.indexCount = uint32(len(indices))
	return nil
}

func (r *renderer) LoadBillboards(instances []Billboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrRendererReleased
	}
	if len(instances) > MaxBillboards {
		return &CapacityError{Resource: "billboards", Requested: len(instances), Capacity: MaxBillboards}
	}

	if len(instances) > 0 {
		r.backend.WriteBuffer(BufferTargetBillboardInstance, 0, billboardBytes(instances))
	}
	r.instanceCount = uint32(len(instances))
	return nil
}

func (r *renderer) LoadCamera(cam *camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrRendererReleased
	}
	if r.suspended() {
		return ErrSurfaceSuspended
	}

	uniform := cam.Uniform(float32(r.width), float32(r.height))
	r.backend.WriteBuffer(BufferTargetCamera, 0, uniform.Marshal())
	return nil
}

func (r *renderer) Draw() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrRendererReleased
	}
	if r.suspended() {
		return nil
	}

	err := r.backend.BeginFrame(r.clearColor)
	if errors.Is(err, ErrSurfaceAcquire) {
		r.logger.Printf("[Renderer] %v, reconfiguring surface %dx%d", err, r.width, r.height)
		r.backend.ConfigureSurface(r.width, r.height)
		err = r.backend.BeginFrame(r.clearColor)
	}
	if err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	r.backend.DrawCall(r.meshPipeline, DrawCommand{
		VertexBuffers: []BufferTarget{BufferTargetMeshVertex},
		IndexBuffer:   BufferTargetMeshIndex,
		IndexCount:    r.indexCount,
		InstanceCount: 1,
	})
	r.backend.DrawCall(r.billboardPipeline, DrawCommand{
		VertexBuffers: []BufferTarget{BufferTargetQuadVertex, BufferTargetBillboardInstance},
		IndexBuffer:   BufferTargetQuadIndex,
		IndexCount:    uint32(len(quadIndices)),
		InstanceCount: r.instanceCount,
	})

	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("failed to end frame: %w", err)
	}
	r.backend.Present()
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Suspended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suspended()
}

func (r *renderer) IndexCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.indexCount)
}

func (r *renderer) InstanceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.instanceCount)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	if r.released {
		return
	}
	r.backend.SetPresentMode(mode)
	if !r.suspended() {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}
