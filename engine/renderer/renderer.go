package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/Carmen-Shannon/oxy-controls/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	horizon Horizon

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer presents one frame per call, cleared to a colour derived from the camera's view
// direction.
type Renderer interface {
	// RenderFrame presents a frame cleared to the horizon colour for the camera's current
	// view direction.
	//
	// Parameters:
	//   - cam: the camera to render from
	//
	// Returns:
	//   - error: an error if the frame could not be acquired
	RenderFrame(cam camera.Camera) error

	// Resize reconfigures the surface after a window resize.
	//
	// Parameters:
	//   - width: new framebuffer width in pixels
	//   - height: new framebuffer height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode; applied on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetHorizon replaces the clear colour gradient.
	//
	// Parameters:
	//   - h: the new gradient
	SetHorizon(h Horizon)

	// Release frees the GPU resources held by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window whose surface is rendered to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		horizon:     DefaultHorizon(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r
}

func (r *renderer) RenderFrame(cam camera.Camera) error {
	r.mu.Lock()
	h := r.horizon
	r.mu.Unlock()

	c := h.Color(cam.Direction())
	r.backend.SetClearColor(wgpu.Color{R: c.R, G: c.G, B: c.B, A: c.A})

	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetHorizon(h Horizon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.horizon = h
}

func (r *renderer) Release() {
	r.backend.Release()
}
