package controls

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

type listenable interface {
	AddEventListener(t EventType, fn Listener) ListenerID
}

// recordEvents collects every event of the given types dispatched by c.
func recordEvents(c listenable, types ...EventType) *[]EventType {
	got := &[]EventType{}
	for _, et := range types {
		c.AddEventListener(et, func(e Event) { *got = append(*got, e.Type) })
	}
	return got
}

func newOrbitFixture(t *testing.T, camOpts []camera.CameraBuilderOption, opts ...OrbitControlsOption) (OrbitControls, camera.Camera, *input.Virtual) {
	t.Helper()
	cam := camera.NewCamera(camOpts...)
	src := input.NewVirtual(800, 600)
	oc := NewOrbitControls(cam, src, opts...)
	t.Cleanup(oc.Dispose)
	return oc, cam, src
}

func TestOrbitControls_DollyInConvergesToMinDistance(t *testing.T) {
	oc, cam, _ := newOrbitFixture(t, nil, WithDistanceBounds(1, 50))

	prev := oc.GetDistance()
	require.InDelta(t, 10, prev, tolerance)

	for range 10 {
		oc.DollyIn(0.9)
		oc.Update()
		d := oc.GetDistance()
		assert.LessOrEqual(t, d, prev+tolerance)
		assert.GreaterOrEqual(t, d, 1-tolerance)
		prev = d
	}
	assert.InDelta(t, 10*math.Pow(0.9, 10), prev, 1e-6)

	for range 100 {
		oc.DollyIn(0.9)
		oc.Update()
	}
	assert.InDelta(t, 1, oc.GetDistance(), 1e-6)
	assert.InDelta(t, 1, cam.Position().Len(), 1e-6)
}

func TestOrbitControls_DistanceBoundsHoldForAnyZoom(t *testing.T) {
	oc, _, _ := newOrbitFixture(t, nil, WithDistanceBounds(2, 20))
	rng := rand.New(rand.NewSource(7))

	for range 500 {
		s := 0.5 + rng.Float64()*0.49
		if rng.Intn(2) == 0 {
			oc.DollyIn(s)
		} else {
			oc.DollyOut(s)
		}
		oc.Update()
		d := oc.GetDistance()
		require.GreaterOrEqual(t, d, 2-1e-6)
		require.LessOrEqual(t, d, 20+1e-6)
	}
}

func TestOrbitControls_PolarBoundsHold(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{name: "default full range", min: 0, max: math.Pi},
		{name: "upper hemisphere", min: 0, max: math.Pi / 2},
		{name: "narrow band", min: 1.2, max: 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc, _, _ := newOrbitFixture(t, nil, WithPolarAngleBounds(tt.min, tt.max))
			rng := rand.New(rand.NewSource(42))

			for range 300 {
				oc.Rotate(rng.Float64()*2-1, rng.Float64()*4-2)
				oc.Update()
				phi := oc.GetPolarAngle()
				require.GreaterOrEqual(t, phi, tt.min-tolerance)
				require.LessOrEqual(t, phi, tt.max+tolerance)
			}
		})
	}
}

func TestOrbitControls_AzimuthBoundsHold(t *testing.T) {
	t.Run("finite range", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, nil, WithAzimuthAngleBounds(-math.Pi/4, math.Pi/4))
		rng := rand.New(rand.NewSource(3))

		for range 300 {
			oc.Rotate(rng.Float64()*2-1, 0)
			oc.Update()
			theta := oc.GetAzimuthalAngle()
			require.GreaterOrEqual(t, theta, -math.Pi/4-tolerance)
			require.LessOrEqual(t, theta, math.Pi/4+tolerance)
		}
	})

	t.Run("range wrapping through pi", func(t *testing.T) {
		min, max := 3*math.Pi/4, -3*math.Pi/4
		oc, cam, _ := newOrbitFixture(t,
			[]camera.CameraBuilderOption{camera.WithPosition(0, 0, -10)},
			WithAzimuthAngleBounds(min, max),
		)
		rng := rand.New(rand.NewSource(11))

		for range 300 {
			oc.Rotate(rng.Float64()-0.5, 0)
			oc.Update()
			p := cam.Position()
			theta := math.Atan2(p[0], p[2])
			inRange := theta >= min-1e-6 || theta <= max+1e-6
			require.True(t, inRange, "azimuth %f outside wrapped range", theta)
		}
	})
}

func TestOrbitControls_UpdateIsIdempotentWithoutInput(t *testing.T) {
	oc, cam, _ := newOrbitFixture(t, []camera.CameraBuilderOption{camera.WithPosition(3, 4, 5)})
	changes := recordEvents(oc, EventChange)

	// the first update orients the camera toward the target
	assert.True(t, oc.Update())
	require.Len(t, *changes, 1)

	pos, rot := cam.Position(), cam.Quaternion()
	for range 100 {
		assert.False(t, oc.Update())
	}
	assert.Len(t, *changes, 1)
	assert.InDelta(t, 0, cam.Position().Sub(pos).Len(), 1e-9)
	assert.InDelta(t, 1, math.Abs(cam.Quaternion().Dot(rot)), 1e-12)
}

func TestOrbitControls_DampingDecaysDelta(t *testing.T) {
	oc, _, _ := newOrbitFixture(t, nil, WithDamping(0.1))

	oc.Rotate(1, 0)
	require.True(t, oc.Update())
	assert.InDelta(t, -0.1, oc.GetAzimuthalAngle(), 1e-9)

	oc.Update()
	assert.InDelta(t, -0.19, oc.GetAzimuthalAngle(), 1e-9)

	// motion continues with no further input, then settles
	for range 300 {
		oc.Update()
	}
	assert.InDelta(t, -1, oc.GetAzimuthalAngle(), 1e-6)
	assert.False(t, oc.Update())
}

func TestOrbitControls_AutoRotate(t *testing.T) {
	t.Run("per frame", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, nil, WithAutoRotate(2))
		oc.Update()
		assert.InDelta(t, -2*math.Pi/60/60*2, oc.GetAzimuthalAngle(), 1e-9)
	})

	t.Run("time based", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, nil, WithAutoRotate(2))
		oc.UpdateDelta(0.5)
		assert.InDelta(t, -2*math.Pi/60*2*0.5, oc.GetAzimuthalAngle(), 1e-9)
	})

	t.Run("clamped by azimuth bounds", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, nil, WithAutoRotate(30), WithAzimuthAngleBounds(-0.1, 0.1))
		for range 200 {
			oc.Update()
		}
		assert.InDelta(t, -0.1, oc.GetAzimuthalAngle(), 1e-9)
	})

	t.Run("paused during gestures", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil, WithAutoRotate(2))
		src.EmitPointerDown(input.PointerEvent{Button: common.MouseButtonLeft, X: 10, Y: 10})
		oc.Update()
		assert.InDelta(t, 0, oc.GetAzimuthalAngle(), 1e-9)
	})
}

func TestOrbitControls_NonYUpCamera(t *testing.T) {
	oc, cam, _ := newOrbitFixture(t, []camera.CameraBuilderOption{
		camera.WithUp(0, 0, 1),
		camera.WithPosition(10, 0, 0),
	})

	oc.Update()
	assert.InDelta(t, math.Pi/2, oc.GetPolarAngle(), 1e-9)

	oc.Rotate(0, 0.5)
	oc.Update()
	p := cam.Position()
	assert.InDelta(t, 10*math.Cos(0.5), p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)
	assert.InDelta(t, 10*math.Sin(0.5), p[2], 1e-9)
}

func TestOrbitControls_MouseRotate(t *testing.T) {
	oc, cam, src := newOrbitFixture(t, nil)
	events := recordEvents(oc, EventStart, EventChange, EventEnd)

	src.EmitPointerDown(input.PointerEvent{Button: common.MouseButtonLeft, X: 400, Y: 300})
	assert.Equal(t, StateRotate, oc.State())

	src.EmitPointerMove(input.PointerEvent{X: 500, Y: 300})
	assert.InDelta(t, -2*math.Pi*100/600, oc.GetAzimuthalAngle(), 1e-9)
	assert.InDelta(t, 10, cam.Position().Len(), 1e-9)

	src.EmitPointerUp(input.PointerEvent{Button: common.MouseButtonLeft, X: 500, Y: 300})
	assert.Equal(t, StateNone, oc.State())
	assert.Equal(t, []EventType{EventStart, EventChange, EventEnd}, *events)
}

func TestOrbitControls_MouseButtonBindings(t *testing.T) {
	tests := []struct {
		name   string
		button common.MouseButton
		mods   common.ModifierKey
		want   State
	}{
		{name: "left rotates", button: common.MouseButtonLeft, want: StateRotate},
		{name: "middle dollies", button: common.MouseButtonMiddle, want: StateDolly},
		{name: "right pans", button: common.MouseButtonRight, want: StatePan},
		{name: "shift left pans", button: common.MouseButtonLeft, mods: common.ModShift, want: StatePan},
		{name: "ctrl left pans", button: common.MouseButtonLeft, mods: common.ModControl, want: StatePan},
		{name: "super left pans", button: common.MouseButtonLeft, mods: common.ModSuper, want: StatePan},
		{name: "alt left rotates", button: common.MouseButtonLeft, mods: common.ModAlt, want: StateRotate},
		{name: "shift right rotates", button: common.MouseButtonRight, mods: common.ModShift, want: StateRotate},
		{name: "unknown button ignored", button: common.MouseButton(7), want: StateNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc, _, src := newOrbitFixture(t, nil)
			src.EmitPointerDown(input.PointerEvent{Button: tt.button, Modifiers: tt.mods})
			assert.Equal(t, tt.want, oc.State())
		})
	}
}

func TestOrbitControls_MouseDollyDrag(t *testing.T) {
	oc, _, src := newOrbitFixture(t, nil)

	src.EmitPointerDown(input.PointerEvent{Button: common.MouseButtonMiddle, X: 0, Y: 0})
	src.EmitPointerMove(input.PointerEvent{X: 0, Y: 10})
	assert.InDelta(t, 10/0.95, oc.GetDistance(), 1e-9)

	src.EmitPointerMove(input.PointerEvent{X: 0, Y: 0})
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)
}

func TestOrbitControls_Wheel(t *testing.T) {
	oc, _, src := newOrbitFixture(t, nil)
	events := recordEvents(oc, EventStart, EventChange, EventEnd)

	src.EmitWheel(input.WheelEvent{DeltaY: -1})
	assert.InDelta(t, 9.5, oc.GetDistance(), 1e-9)
	assert.Equal(t, []EventType{EventStart, EventChange, EventEnd}, *events)

	src.EmitWheel(input.WheelEvent{DeltaY: 1})
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)

	oc.Configure(WithZoom(false, 1))
	src.EmitWheel(input.WheelEvent{DeltaY: -1})
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)
}

func TestOrbitControls_KeyPan(t *testing.T) {
	// perspective: 7px at 600px height, 10 units away with a 45° fov
	step := 2 * 7 * 10 * math.Tan(math.Pi/8) / 600

	tests := []struct {
		name string
		key  uint32
		want mgl64.Vec3
	}{
		{name: "up", key: common.KeyUp, want: mgl64.Vec3{0, step, 0}},
		{name: "bottom", key: common.KeyDown, want: mgl64.Vec3{0, -step, 0}},
		{name: "left", key: common.KeyLeft, want: mgl64.Vec3{-step, 0, 0}},
		{name: "right", key: common.KeyRight, want: mgl64.Vec3{step, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc, cam, src := newOrbitFixture(t, nil)
			changes := recordEvents(oc, EventChange)

			src.EmitKeyDown(input.KeyEvent{Code: tt.key})

			target := oc.Target()
			for i := range 3 {
				assert.InDelta(t, tt.want[i], target[i], 1e-9)
			}
			assert.InDelta(t, 10, cam.Position().Sub(target).Len(), 1e-9)
			assert.Len(t, *changes, 1)
		})
	}

	t.Run("disabled keys ignored", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil, WithoutKeys())
		src.EmitKeyDown(input.KeyEvent{Code: common.KeyUp})
		assert.Equal(t, mgl64.Vec3{}, oc.Target())
	})

	t.Run("unbound key ignored", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil)
		src.EmitKeyDown(input.KeyEvent{Code: common.KeyW})
		assert.Equal(t, mgl64.Vec3{}, oc.Target())
	})
}

func TestOrbitControls_GroundPlanePanning(t *testing.T) {
	oc, _, _ := newOrbitFixture(t,
		[]camera.CameraBuilderOption{camera.WithPosition(0, 10, 10)},
		WithScreenSpacePanning(false),
	)
	oc.Update()

	oc.Pan(0, 100)
	oc.Update()
	target := oc.Target()
	assert.InDelta(t, 0, target[1], 1e-9, "target stays on the ground plane")
	assert.Less(t, target[2], 0.0, "panning up moves the target away from the camera")
}

func TestOrbitControls_Orthographic(t *testing.T) {
	camOpts := []camera.CameraBuilderOption{
		camera.WithProjection(camera.ProjectionOrthographic),
		camera.WithAspect(800.0 / 600.0),
		camera.WithOrthoHeight(10),
	}

	t.Run("pan", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, camOpts)
		oc.Pan(80, 0)
		oc.Update()
		// 80px of an 800px viewport spanning 13.33 units
		assert.InDelta(t, -80*(20.0*4/3)/2/800, oc.Target()[0], 1e-9)
	})

	t.Run("zoom clamped", func(t *testing.T) {
		oc, cam, _ := newOrbitFixture(t, camOpts, WithZoomBounds(0.5, 2))
		changes := recordEvents(oc, EventChange)

		oc.DollyIn(0.5)
		assert.True(t, oc.Update())
		assert.InDelta(t, 2, cam.Zoom(), 1e-9)

		oc.DollyIn(0.5)
		oc.Update()
		assert.InDelta(t, 2, cam.Zoom(), 1e-9)

		for range 10 {
			oc.DollyOut(0.5)
		}
		oc.Update()
		assert.InDelta(t, 0.5, cam.Zoom(), 1e-9)
		assert.InDelta(t, 10, oc.GetDistance(), 1e-9, "orthographic dolly never moves the camera")
		assert.Len(t, *changes, 3)
		assert.False(t, oc.Update())
	})
}

func TestOrbitControls_DollyIgnoresInvalidScale(t *testing.T) {
	invalid := []float64{0, -1, math.NaN(), math.Inf(1)}

	t.Run("orthographic", func(t *testing.T) {
		oc, cam, _ := newOrbitFixture(t, []camera.CameraBuilderOption{
			camera.WithProjection(camera.ProjectionOrthographic),
			camera.WithOrthoHeight(10),
		})
		oc.Update()
		for _, s := range invalid {
			oc.DollyIn(s)
			oc.DollyOut(s)
		}
		assert.False(t, oc.Update())
		assert.Equal(t, 1.0, cam.Zoom())
		assert.False(t, math.IsInf(cam.ProjectionMatrix().At(0, 0), 0))
	})

	t.Run("perspective", func(t *testing.T) {
		oc, _, _ := newOrbitFixture(t, nil, WithoutDamping())
		oc.Update()
		for _, s := range invalid {
			oc.DollyIn(s)
			oc.DollyOut(s)
		}
		assert.False(t, oc.Update())
		assert.InDelta(t, 10, oc.GetDistance(), tolerance)
	})
}

func TestOrbitControls_UnsupportedProjectionDisablesPanAndZoom(t *testing.T) {
	oc, cam, _ := newOrbitFixture(t, nil)
	cam.SetCustomProjection(mgl64.Ident4())

	oc.Pan(10, 10)
	oc.DollyIn(0.5)
	oc.Update()

	cfg := oc.Config()
	assert.False(t, cfg.EnablePan)
	assert.False(t, cfg.EnableZoom)
	assert.Equal(t, mgl64.Vec3{}, oc.Target())
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)
}

func TestOrbitControls_Touch(t *testing.T) {
	t.Run("one finger rotates", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil)
		events := recordEvents(oc, EventStart, EventEnd)

		src.EmitTouchStart(input.TouchEvent{Touches: []input.Touch{{ID: 1, X: 100, Y: 100}}})
		assert.Equal(t, StateTouchRotate, oc.State())

		src.EmitTouchMove(input.TouchEvent{Touches: []input.Touch{{ID: 1, X: 100, Y: 160}}})
		assert.InDelta(t, math.Pi/2-2*math.Pi*60/600, oc.GetPolarAngle(), 1e-9)

		src.EmitTouchEnd(input.TouchEvent{})
		assert.Equal(t, StateNone, oc.State())
		assert.Equal(t, []EventType{EventStart, EventEnd}, *events)
	})

	t.Run("pinch dollies", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil)
		src.EmitTouchStart(input.TouchEvent{Touches: []input.Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}}})
		assert.Equal(t, StateTouchDolly, oc.State())

		src.EmitTouchMove(input.TouchEvent{Touches: []input.Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 200, Y: 0}}})
		assert.InDelta(t, 5, oc.GetDistance(), 1e-9)
	})

	t.Run("three fingers pan", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil)
		touches := []input.Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 30, Y: 0}, {ID: 3, X: 60, Y: 0}}
		src.EmitTouchStart(input.TouchEvent{Touches: touches})
		assert.Equal(t, StateTouchPan, oc.State())

		moved := make([]input.Touch, len(touches))
		for i, tc := range touches {
			moved[i] = input.Touch{ID: tc.ID, X: tc.X, Y: tc.Y + 30}
		}
		src.EmitTouchMove(input.TouchEvent{Touches: moved})
		assert.Greater(t, oc.Target()[1], 0.0)
	})

	t.Run("lifting a finger continues with the remaining gesture", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil)
		events := recordEvents(oc, EventStart, EventEnd)

		src.EmitTouchStart(input.TouchEvent{Touches: []input.Touch{{ID: 1}, {ID: 2, X: 50}}})
		src.EmitTouchEnd(input.TouchEvent{Touches: []input.Touch{{ID: 1}}})
		assert.Equal(t, StateTouchRotate, oc.State())
		assert.Equal(t, []EventType{EventStart}, *events)

		src.EmitTouchEnd(input.TouchEvent{})
		assert.Equal(t, []EventType{EventStart, EventEnd}, *events)
	})

	t.Run("disabled gesture stays idle", func(t *testing.T) {
		oc, _, src := newOrbitFixture(t, nil, WithRotate(false, 1))
		src.EmitTouchStart(input.TouchEvent{Touches: []input.Touch{{ID: 1}}})
		assert.Equal(t, StateNone, oc.State())
	})
}

func TestOrbitControls_DisabledIgnoresInput(t *testing.T) {
	oc, _, src := newOrbitFixture(t, nil, WithEnabled(false))
	events := recordEvents(oc, EventStart, EventChange, EventEnd)

	src.EmitPointerDown(input.PointerEvent{Button: common.MouseButtonLeft})
	src.EmitPointerMove(input.PointerEvent{X: 100})
	src.EmitWheel(input.WheelEvent{DeltaY: -1})
	src.EmitKeyDown(input.KeyEvent{Code: common.KeyUp})
	src.EmitTouchStart(input.TouchEvent{Touches: []input.Touch{{ID: 1}}})

	assert.Equal(t, StateNone, oc.State())
	assert.Empty(t, *events)
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)
}

func TestOrbitControls_ConnectLifecycle(t *testing.T) {
	cam := camera.NewCamera()
	src := input.NewVirtual(800, 600)
	oc := NewOrbitControls(cam, src)
	require.Equal(t, 1, src.Len())

	oc.Connect(src)
	assert.Equal(t, 1, src.Len(), "reconnecting replaces the subscription")

	oc.Disconnect()
	oc.Disconnect()
	assert.Zero(t, src.Len())

	src.EmitWheel(input.WheelEvent{DeltaY: -1})
	assert.InDelta(t, 10, oc.GetDistance(), 1e-9)

	other := input.NewVirtual(400, 400)
	oc.Connect(other)
	other.EmitWheel(input.WheelEvent{DeltaY: -1})
	assert.InDelta(t, 9.5, oc.GetDistance(), 1e-9)

	oc.AddEventListener(EventChange, func(Event) {})
	oc.Dispose()
	assert.Zero(t, other.Len())
	assert.False(t, oc.HasEventListener(EventChange))
}

func TestOrbitControls_SaveStateAndReset(t *testing.T) {
	oc, cam, _ := newOrbitFixture(t, nil, WithTarget(1, 0, 0))
	oc.Update()
	oc.SaveState()
	saved := cam.Position()

	oc.Rotate(0.5, 0.3)
	oc.Pan(40, 40)
	oc.DollyOut(0.5)
	oc.Update()
	require.Greater(t, cam.Position().Sub(saved).Len(), 0.1)

	changes := recordEvents(oc, EventChange)
	oc.Reset()

	assert.Equal(t, mgl64.Vec3{1, 0, 0}, oc.Target())
	assert.InDelta(t, 0, cam.Position().Sub(saved).Len(), 1e-9)
	assert.Equal(t, StateNone, oc.State())
	assert.Len(t, *changes, 1)
}

func TestOrbitControls_ListenerMayCallBack(t *testing.T) {
	oc, _, src := newOrbitFixture(t, nil)
	var distances []float64
	oc.AddEventListener(EventChange, func(e Event) {
		distances = append(distances, e.Target.(OrbitControls).GetDistance())
	})

	src.EmitWheel(input.WheelEvent{DeltaY: -1})
	require.Len(t, distances, 1)
	assert.InDelta(t, 9.5, distances[0], 1e-9)
}

func TestClampAzimuth(t *testing.T) {
	tests := []struct {
		name            string
		theta, min, max float64
		want            float64
	}{
		{name: "unbounded", theta: 5, min: math.Inf(-1), max: math.Inf(1), want: 5},
		{name: "half bounded", theta: -3, min: -1, max: math.Inf(1), want: -1},
		{name: "inside", theta: 0.2, min: -0.5, max: 0.5, want: 0.2},
		{name: "above", theta: 1, min: -0.5, max: 0.5, want: 0.5},
		{name: "bounds normalized", theta: 0, min: 2 * math.Pi, max: 2*math.Pi + 0.5, want: 0},
		{name: "wrapped near min", theta: 2, min: 2.5, max: -2.5, want: 2.5},
		{name: "wrapped near max", theta: -2, min: 2.5, max: -2.5, want: -2.5},
		{name: "wrapped inside", theta: 3, min: 2.5, max: -2.5, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, clampAzimuth(tt.theta, tt.min, tt.max), 1e-12)
		})
	}
}
