package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records the calls the renderer makes in order.
type fakeBackend struct {
	calls    []string
	clear    wgpu.Color
	beginErr error
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) { f.calls = append(f.calls, "configure") }
func (f *fakeBackend) SetPresentMode(mode PresentMode)    { f.calls = append(f.calls, "present mode") }
func (f *fakeBackend) SetClearColor(c wgpu.Color) {
	f.calls = append(f.calls, "clear")
	f.clear = c
}
func (f *fakeBackend) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}
func (f *fakeBackend) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeBackend) Present()  { f.calls = append(f.calls, "present") }
func (f *fakeBackend) Release()  { f.calls = append(f.calls, "release") }

func newTestRenderer(b RendererBackend) *renderer {
	return &renderer{mu: &sync.Mutex{}, backend: b, horizon: DefaultHorizon()}
}

func TestRenderer_RenderFrameClearsToHorizon(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(b)

	// looking straight down at the origin
	cam := camera.NewCamera(camera.WithPosition(0, 10, 0.0001), camera.WithLookAt(0, 0, 0))
	require.NoError(t, r.RenderFrame(cam))

	assert.Equal(t, []string{"clear", "begin", "end", "present"}, b.calls)
	want := DefaultHorizon().Color(cam.Direction())
	assert.InDelta(t, want.R, b.clear.R, 1e-12)
	assert.InDelta(t, want.G, b.clear.G, 1e-12)
	assert.InDelta(t, want.B, b.clear.B, 1e-12)
	assert.InDelta(t, DefaultGroundColor.R, b.clear.R, 1e-3)
}

func TestRenderer_SetHorizon(t *testing.T) {
	b := &fakeBackend{}
	r := newTestRenderer(b)

	flat := Color{R: 0.5, G: 0.25, B: 0.125, A: 1}
	r.SetHorizon(Horizon{Sky: flat, Level: flat, Ground: flat})
	require.NoError(t, r.RenderFrame(camera.NewCamera()))

	assert.Equal(t, wgpu.Color{R: 0.5, G: 0.25, B: 0.125, A: 1}, b.clear)
}

func TestRenderer_RenderFrameSkipsFrameOnAcquireError(t *testing.T) {
	b := &fakeBackend{beginErr: errors.New("surface lost")}
	r := newTestRenderer(b)

	require.Error(t, r.RenderFrame(camera.NewCamera()))
	assert.Equal(t, []string{"clear", "begin"}, b.calls, "nothing is submitted without a surface texture")

	r.Resize(640, 480)
	r.SetPresentMode(PresentModeUncapped)
	r.Release()
	assert.Equal(t, []string{"clear", "begin", "configure", "present mode", "release"}, b.calls)
}
