package renderer

import (
	"github.com/Carmen-Shannon/genesis/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BufferTarget identifies one of the renderer's fixed GPU buffers.
type BufferTarget int

const (
	BufferTargetCamera BufferTarget = iota
	BufferTargetMeshVertex
	BufferTargetMeshIndex
	BufferTargetQuadVertex
	BufferTargetQuadIndex
	BufferTargetBillboardInstance
)

func (t BufferTarget) String() string {
	switch t {
	case BufferTargetCamera:
		return "Camera Uniform Buffer"
	case BufferTargetMeshVertex:
		return "Mesh Vertex Buffer"
	case BufferTargetMeshIndex:
		return "Mesh Index Buffer"
	case BufferTargetQuadVertex:
		return "Quad Vertex Buffer"
	case BufferTargetQuadIndex:
		return "Quad Index Buffer"
	case BufferTargetBillboardInstance:
		return "Billboard Instance Buffer"
	default:
		return "Unknown Buffer"
	}
}

// DrawCommand describes one indexed draw within the frame's render pass.
// VertexBuffers are bound to slots in order; indices are u16.
type DrawCommand struct {
	VertexBuffers []BufferTarget
	IndexBuffer   BufferTarget
	IndexCount    uint32
	InstanceCount uint32
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	// ConfigureSurface configures the surface for the given size with the current present mode.
	// Both dimensions must be non-zero.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// CreateBuffer allocates the GPU buffer for a target. Usage flags are derived from the target.
	//
	// Parameters:
	//   - target: the buffer to create
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	CreateBuffer(target BufferTarget, size uint64) error

	// InitCameraBindGroup creates the group 0 layout and bind group over the camera uniform buffer.
	// CreateBuffer(BufferTargetCamera, ...) must have been called first.
	//
	// Returns:
	//   - error: an error if the layout or bind group could not be created
	InitCameraBindGroup() error

	// RegisterRenderPipeline creates the shader module, pipeline layout and render pipeline for p,
	// and stores the GPU pipeline on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// WriteBuffer queues a write into a target buffer. The data length must be a multiple of 4.
	//
	// Parameters:
	//   - target: the destination buffer
	//   - offset: the byte offset into the buffer
	//   - data: the bytes to write
	WriteBuffer(target BufferTarget, offset uint64, data []byte)

	// BeginFrame acquires the next surface image, creates a command encoder and begins a render pass
	// cleared to the given color. Acquisition failures wrap ErrSurfaceAcquire.
	//
	// Parameters:
	//   - clear: the clear color
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame(clear wgpu.Color) error

	// DrawCall encodes one indexed draw with p and the camera bind group at group 0.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - cmd: the buffers and counts to draw
	DrawCall(p pipeline.Pipeline, cmd DrawCommand)

	// EndFrame ends the render pass and submits the command buffer.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the acquired surface image and releases frame resources.
	Present()

	// Release releases every GPU object in reverse creation order.
	Release()
}
