package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing. This is the default since a clear-only
	// frame has no edges to smooth.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing for pipelines drawn into the frame.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU API surface the Renderer drives each frame.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and any multisample target for a new size.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode changes the present mode used on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour the next frame is cleared to.
	SetClearColor(c wgpu.Color)

	// BeginFrame acquires the next surface texture and opens the clearing render pass.
	BeginFrame() error

	// EndFrame closes the render pass and submits the command buffer.
	EndFrame()

	// Present shows the acquired surface texture.
	Present()

	// Release frees every GPU object held by the backend.
	Release()
}
