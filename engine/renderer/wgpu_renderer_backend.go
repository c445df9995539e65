package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/genesis/engine/camera"
	"github.com/Carmen-Shannon/genesis/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRenderPipeline groups the GPU objects created for one pipeline so they can be released together.
type wgpuRenderPipeline struct {
	module   *wgpu.ShaderModule
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode

	buffers     map[BufferTarget]*wgpu.Buffer
	bufferOrder []BufferTarget

	cameraBindGroupLayout *wgpu.BindGroupLayout
	cameraBindGroup       *wgpu.BindGroup

	pipelines []wgpuRenderPipeline

	// Frame state for a single render pass shared by every draw call
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter, device and queue.
// Adapter and device requests block until the driver answers.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (RendererBackend, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("window has no surface descriptor")
	}

	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		buffers:     make(map[BufferTarget]*wgpu.Buffer),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		b.Release()
		return nil, errors.New("surface is not supported by the adapter")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) CreateBuffer(target BufferTarget, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var usage wgpu.BufferUsage
	switch target {
	case BufferTargetCamera:
		usage = wgpu.BufferUsageUniform
	case BufferTargetMeshIndex, BufferTargetQuadIndex:
		usage = wgpu.BufferUsageIndex
	default:
		usage = wgpu.BufferUsageVertex
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            target.String(),
		Size:             size,
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}

	if old, ok := b.buffers[target]; ok && old != nil {
		old.Release()
	} else {
		b.bufferOrder = append(b.bufferOrder, target)
	}
	b.buffers[target] = buf
	return nil
}

func (b *wgpuRendererBackendImpl) InitCameraBindGroup() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.buffers[BufferTargetCamera]
	if buf == nil {
		return errors.New("camera uniform buffer has not been created")
	}

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&camera.GPUCameraUniform{}).Size()),
				},
			},
		},
	})
	if err != nil {
		return err
	}
	b.cameraBindGroupLayout = layout

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return err
	}
	b.cameraBindGroup = bindGroup
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Source() == "" {
		return fmt.Errorf("pipeline %q has no shader source", p.PipelineKey())
	}
	if b.cameraBindGroupLayout == nil {
		return errors.New("camera bind group layout has not been created")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return err
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey() + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.cameraBindGroupLayout},
	})
	if err != nil {
		module.Release()
		return err
	}

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return err
	}

	p.SetRenderPipeline(created)
	b.pipelines = append(b.pipelines, wgpuRenderPipeline{module: module, layout: layout, pipeline: created})
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(target BufferTarget, offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.buffers[target]
	if buf == nil || len(data) == 0 {
		return
	}
	b.queue.WriteBuffer(buf, offset, data)
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// a held surface texture means the previous frame was never presented
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceAcquire, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clear,
			},
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, cmd DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || p.RenderPipeline() == nil {
		return
	}

	b.framePass.SetPipeline(p.RenderPipeline())
	b.framePass.SetBindGroup(0, b.cameraBindGroup, nil)
	for slot, target := range cmd.VertexBuffers {
		b.framePass.SetVertexBuffer(uint32(slot), b.buffers[target], 0, wgpu.WholeSize)
	}
	b.framePass.SetIndexBuffer(b.buffers[cmd.IndexBuffer], wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(cmd.IndexCount, cmd.InstanceCount, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("no frame in progress")
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return err
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.pipelines) - 1; i >= 0; i-- {
		p := b.pipelines[i]
		p.pipeline.Release()
		p.layout.Release()
		p.module.Release()
	}
	b.pipelines = nil

	if b.cameraBindGroup != nil {
		b.cameraBindGroup.Release()
		b.cameraBindGroup = nil
	}
	if b.cameraBindGroupLayout != nil {
		b.cameraBindGroupLayout.Release()
		b.cameraBindGroupLayout = nil
	}

	for i := len(b.bufferOrder) - 1; i >= 0; i-- {
		target := b.bufferOrder[i]
		if buf := b.buffers[target]; buf != nil {
			buf.Release()
		}
		delete(b.buffers, target)
	}
	b.bufferOrder = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
