package renderer

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/genesis/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the WGSL definition of the VertexInput struct (locations 0 and 1).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUBillboardSource is the WGSL definition of the BillboardInput struct (locations 2 and 3).
//
//go:embed assets/billboard_instance.wgsl
var GPUBillboardSource string

//go:embed assets/mesh.wgsl
var meshShaderSource string

//go:embed assets/billboard.wgsl
var billboardShaderSource string

// Vertex is a single mesh vertex. Size: 24 bytes, tightly packed.
type Vertex struct {
	Position mgl32.Vec3 // offset  0: vec3<f32> @location(0)
	Color    mgl32.Vec3 // offset 12: vec3<f32> @location(1)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (24)
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// VertexLayout returns the per-vertex buffer layout for Vertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 24, locations 0 and 1
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

// Billboard is a single camera-facing quad instance. Size: 24 bytes, tightly packed.
// The quad corner colors are multiplied by Color.
type Billboard struct {
	Position mgl32.Vec3 // offset  0: vec3<f32> @location(2)
	Color    mgl32.Vec3 // offset 12: vec3<f32> @location(3)
}

// Size returns the size of the Billboard struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (24)
func (b *Billboard) Size() int {
	return int(unsafe.Sizeof(*b))
}

// BillboardLayout returns the per-instance buffer layout for Billboard.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 24, locations 2 and 3, instance step mode
func BillboardLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Billboard{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 3},
		},
	}
}

// quadVertices are the corners of the shared billboard quad, centered on the instance position.
var quadVertices = []Vertex{
	{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: mgl32.Vec3{1, 1, 1}},
	{Position: mgl32.Vec3{-0.5, 0.5, 0}, Color: mgl32.Vec3{0.1, 0.1, 0.1}},
	{Position: mgl32.Vec3{0.5, 0.5, 0}, Color: mgl32.Vec3{1, 1, 1}},
	{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: mgl32.Vec3{0.1, 0.1, 0.1}},
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

func vertexBytes(vertices []Vertex) []byte {
	return common.SliceToBytes(vertices)
}

func billboardBytes(instances []Billboard) []byte {
	return common.SliceToBytes(instances)
}

// indexBytes returns the index data padded to a 4-byte multiple for queue writes.
func indexBytes(indices []uint16) []byte {
	return common.PadToWordSize(common.SliceToBytes(indices))
}
