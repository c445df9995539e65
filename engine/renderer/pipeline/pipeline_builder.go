package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithSource sets the WGSL source of the shader module.
//
// Parameters:
//   - source: the pre-processed WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader source for this pipeline
func WithSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
	}
}

// WithVertexEntryPoint sets the vertex stage entry point.
//
// Parameters:
//   - entryPoint: the WGSL function name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex entry point for this pipeline
func WithVertexEntryPoint(entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntryPoint = entryPoint
	}
}

// WithFragmentEntryPoint sets the fragment stage entry point.
//
// Parameters:
//   - entryPoint: the WGSL function name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment entry point for this pipeline
func WithFragmentEntryPoint(entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentEntryPoint = entryPoint
	}
}

// WithVertexLayouts sets the vertex buffer layouts in slot order.
//
// Parameters:
//   - layouts: one layout per vertex buffer slot
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layouts for this pipeline
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face winding order to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face winding order for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBlendState sets the blend state used when blending is enabled.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}
