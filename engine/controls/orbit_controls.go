package controls

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/go-gl/mathgl/mgl64"
)

// changeEpsilon is the squared-distance / quaternion threshold below which an update
// is not reported as a change.
const changeEpsilon = 0.000001

// OrbitConfig holds every tunable of the orbit controls.
type OrbitConfig struct {
	// Enabled gates all input handling. Update still runs when disabled.
	Enabled bool

	// How far the camera can dolly (perspective cameras).
	MinDistance float64
	MaxDistance float64

	// How far the camera can zoom (orthographic cameras).
	MinZoom float64
	MaxZoom float64

	// Vertical orbit limits in radians, a subset of [0, π].
	MinPolarAngle float64
	MaxPolarAngle float64

	// Horizontal orbit limits in radians. Finite limits must span less than 2π;
	// min > max selects the wrap-around range through ±π.
	MinAzimuthAngle float64
	MaxAzimuthAngle float64

	// Damping gives motion inertia; Update must then be called every frame.
	EnableDamping bool
	DampingFactor float64

	EnableZoom bool
	ZoomSpeed  float64

	EnableRotate bool
	RotateSpeed  float64

	EnablePan bool
	PanSpeed  float64
	// ScreenSpacePanning pans along the camera's up axis; otherwise panning
	// stays in the plane orthogonal to the camera's up vector.
	ScreenSpacePanning bool
	// KeyPanSpeed is the number of pixels moved per key press.
	KeyPanSpeed float64

	// AutoRotate orbits the target while no gesture is active.
	// AutoRotateSpeed 2.0 completes an orbit in 30 seconds at 60 updates per second.
	AutoRotate      bool
	AutoRotateSpeed float64

	EnableKeys   bool
	Keys         Keys
	MouseButtons MouseButtons
	Touches      Touches
}

// DefaultOrbitConfig returns the default orbit configuration: unbounded distance and
// azimuth, full polar range, no damping and the standard button/touch/key bindings.
//
// Returns:
//   - OrbitConfig: the defaults
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		Enabled:            true,
		MinDistance:        0,
		MaxDistance:        math.Inf(1),
		MinZoom:            0,
		MaxZoom:            math.Inf(1),
		MinPolarAngle:      0,
		MaxPolarAngle:      math.Pi,
		MinAzimuthAngle:    math.Inf(-1),
		MaxAzimuthAngle:    math.Inf(1),
		EnableDamping:      false,
		DampingFactor:      0.05,
		EnableZoom:         true,
		ZoomSpeed:          1.0,
		EnableRotate:       true,
		RotateSpeed:        1.0,
		EnablePan:          true,
		PanSpeed:           1.0,
		ScreenSpacePanning: true,
		KeyPanSpeed:        7.0,
		AutoRotate:         false,
		AutoRotateSpeed:    2.0,
		EnableKeys:         true,
		Keys: Keys{
			Left:   common.KeyLeft,
			Up:     common.KeyUp,
			Right:  common.KeyRight,
			Bottom: common.KeyDown,
		},
		MouseButtons: MouseButtons{Left: MouseRotate, Middle: MouseDolly, Right: MousePan},
		Touches:      Touches{One: TouchRotate, Two: TouchDolly, Three: TouchPan},
	}
}

// OrbitControls orbits a camera around a target point. Rotation and dolly happen in
// spherical coordinates relative to the target; panning moves the target itself.
type OrbitControls interface {
	// AddEventListener registers fn for change/start/end events.
	AddEventListener(t EventType, fn Listener) ListenerID

	// RemoveEventListener unregisters a listener.
	RemoveEventListener(t EventType, id ListenerID)

	// HasEventListener reports whether a listener exists for t.
	HasEventListener(t EventType) bool

	// Camera returns the controlled camera.
	Camera() camera.Camera

	// Config returns a copy of the current configuration.
	Config() OrbitConfig

	// Configure applies options under the controls' lock.
	//
	// Parameters:
	//   - options: functional options to apply
	Configure(options ...OrbitControlsOption)

	// Target returns the orbit pivot.
	Target() mgl64.Vec3

	// SetTarget moves the orbit pivot. The camera follows on the next Update.
	//
	// Parameters:
	//   - t: new world-space pivot
	SetTarget(t mgl64.Vec3)

	// State returns the active interaction mode.
	State() State

	// GetPolarAngle returns the vertical angle measured from the up axis, in radians.
	GetPolarAngle() float64

	// GetAzimuthalAngle returns the horizontal angle in radians.
	GetAzimuthalAngle() float64

	// GetDistance returns the distance from the camera to the target.
	GetDistance() float64

	// SaveState stores the current target, position and zoom for Reset.
	SaveState()

	// Reset restores the state stored by SaveState (or the construction state).
	Reset()

	// Rotate queues an orbit of left radians around the up axis and up radians toward the pole.
	//
	// Parameters:
	//   - left: azimuth change in radians (positive orbits left)
	//   - up: polar change in radians (positive tilts up)
	Rotate(left, up float64)

	// Pan queues a pan of the target by a screen-space delta in pixels of the connected source.
	// Without a source the delta is a fraction of a unit viewport.
	//
	// Parameters:
	//   - dx, dy: screen-space delta
	Pan(dx, dy float64)

	// DollyIn queues a move toward the target (perspective) or a zoom in (orthographic).
	//
	// Parameters:
	//   - scale: dolly factor in (0, 1); the radius is multiplied by it. Non-positive,
	//     NaN or infinite scales are ignored.
	DollyIn(scale float64)

	// DollyOut queues a move away from the target (perspective) or a zoom out (orthographic).
	//
	// Parameters:
	//   - scale: dolly factor in (0, 1); the radius is divided by it. Non-positive,
	//     NaN or infinite scales are ignored.
	DollyOut(scale float64)

	// Update applies queued deltas to the camera. Call once per frame.
	//
	// Returns:
	//   - bool: true when the camera moved and a change event was dispatched
	Update() bool

	// UpdateDelta is Update with the elapsed frame time, used for time-based auto-rotation.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous update (<= 0 falls back to per-frame steps)
	//
	// Returns:
	//   - bool: true when the camera moved and a change event was dispatched
	UpdateDelta(deltaTime float64) bool

	// Connect subscribes to an input source. A previous connection is released first.
	//
	// Parameters:
	//   - src: the host input source
	Connect(src input.Source)

	// Disconnect releases the input subscription. Safe to call when not connected.
	Disconnect()

	// Dispose disconnects and removes every event listener.
	Dispose()
}

type orbitControlsImpl struct {
	EventDispatcher

	mu *sync.Mutex

	camera camera.Camera
	cfg    OrbitConfig
	target mgl64.Vec3

	// state saved for Reset
	target0   mgl64.Vec3
	position0 mgl64.Vec3
	zoom0     float64

	spherical      common.Spherical
	sphericalDelta common.Spherical
	scale          float64
	panOffset      mgl64.Vec3
	zoomChanged    bool

	// quat rotates the camera's up vector onto +Y so the spherical math can assume a Y-up frame
	quat        mgl64.Quat
	quatInverse mgl64.Quat

	lastPosition   mgl64.Vec3
	lastQuaternion mgl64.Quat

	mode mode

	source input.Source
	sub    input.Subscription
}

var _ OrbitControls = &orbitControlsImpl{}

// NewOrbitControls creates orbit controls for cam. When src is non-nil the controls
// connect to it immediately.
//
// Parameters:
//   - cam: the camera to move
//   - src: the input source to listen to (may be nil)
//   - options: functional options to configure the controls
//
// Returns:
//   - OrbitControls: the newly created controls
func NewOrbitControls(cam camera.Camera, src input.Source, options ...OrbitControlsOption) OrbitControls {
	oc := &orbitControlsImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		cfg:    DefaultOrbitConfig(),
		scale:  1,
		mode:   modeIdle{},
	}
	for _, option := range options {
		option(oc)
	}

	oc.quat = common.QuatFromUnitVectors(cam.Up(), mgl64.Vec3{0, 1, 0})
	oc.quatInverse = oc.quat.Inverse()
	oc.lastPosition = cam.Position()
	oc.lastQuaternion = cam.Quaternion()
	oc.target0 = oc.target
	oc.position0 = cam.Position()
	oc.zoom0 = cam.Zoom()

	if src != nil {
		oc.Connect(src)
	}
	return oc
}

// --- internal helpers ---

// emit dispatches events of the given types in order. Must be called without the mutex.
func (oc *orbitControlsImpl) emit(types ...EventType) {
	for _, t := range types {
		oc.DispatchEvent(Event{Type: t, Target: oc})
	}
}

// locked runs fn under the mutex and dispatches the events it returns afterwards.
func (oc *orbitControlsImpl) locked(fn func() []EventType) {
	oc.mu.Lock()
	events := fn()
	oc.mu.Unlock()
	oc.emit(events...)
}

// update applies queued deltas. Caller must hold the mutex.
func (oc *orbitControlsImpl) update(deltaTime float64) bool {
	position := oc.camera.Position()
	offset := oc.quat.Rotate(position.Sub(oc.target))
	oc.spherical = common.SphericalFromVec3(offset)

	if oc.cfg.AutoRotate && oc.mode.state() == StateNone {
		oc.rotateLeft(oc.autoRotationAngle(deltaTime))
	}

	if oc.cfg.EnableDamping {
		oc.spherical.Theta += oc.sphericalDelta.Theta * oc.cfg.DampingFactor
		oc.spherical.Phi += oc.sphericalDelta.Phi * oc.cfg.DampingFactor
	} else {
		oc.spherical.Theta += oc.sphericalDelta.Theta
		oc.spherical.Phi += oc.sphericalDelta.Phi
	}

	oc.spherical.Theta = clampAzimuth(oc.spherical.Theta, oc.cfg.MinAzimuthAngle, oc.cfg.MaxAzimuthAngle)
	oc.spherical.Phi = common.ClampInf(oc.spherical.Phi, oc.cfg.MinPolarAngle, oc.cfg.MaxPolarAngle)
	oc.spherical = oc.spherical.MakeSafe()

	oc.spherical.Radius = common.ClampInf(oc.spherical.Radius*oc.scale, oc.cfg.MinDistance, oc.cfg.MaxDistance)

	if oc.cfg.EnableDamping {
		oc.target = oc.target.Add(oc.panOffset.Mul(oc.cfg.DampingFactor))
	} else {
		oc.target = oc.target.Add(oc.panOffset)
	}

	offset = oc.quatInverse.Rotate(oc.spherical.Vec3())
	position = oc.target.Add(offset)
	oc.camera.SetPosition(position)
	oc.camera.LookAt(oc.target)

	if oc.cfg.EnableDamping {
		decay := 1 - oc.cfg.DampingFactor
		oc.sphericalDelta.Theta *= decay
		oc.sphericalDelta.Phi *= decay
		oc.panOffset = oc.panOffset.Mul(decay)
	} else {
		oc.sphericalDelta = common.Spherical{}
		oc.panOffset = mgl64.Vec3{}
	}
	oc.scale = 1

	quaternion := oc.camera.Quaternion()
	if oc.zoomChanged ||
		oc.lastPosition.Sub(position).LenSqr() > changeEpsilon ||
		8*(1-oc.lastQuaternion.Dot(quaternion)) > changeEpsilon {
		oc.lastPosition = position
		oc.lastQuaternion = quaternion
		oc.zoomChanged = false
		return true
	}
	return false
}

// clampAzimuth restricts theta to [min, max]. Finite bounds are normalized into [-π, π]
// and may describe a range wrapping through ±π (min > max).
func clampAzimuth(theta, min, max float64) float64 {
	if math.IsInf(min, 0) || math.IsInf(max, 0) {
		return common.ClampInf(theta, min, max)
	}
	const twoPi = 2 * math.Pi
	if min < -math.Pi {
		min += twoPi
	} else if min > math.Pi {
		min -= twoPi
	}
	if max < -math.Pi {
		max += twoPi
	} else if max > math.Pi {
		max -= twoPi
	}
	if min <= max {
		return math.Max(min, math.Min(max, theta))
	}
	if theta > (min+max)/2 {
		return math.Max(min, theta)
	}
	return math.Min(max, theta)
}

func (oc *orbitControlsImpl) autoRotationAngle(deltaTime float64) float64 {
	if deltaTime > 0 {
		return 2 * math.Pi / 60 * oc.cfg.AutoRotateSpeed * deltaTime
	}
	return 2 * math.Pi / 60 / 60 * oc.cfg.AutoRotateSpeed
}

func (oc *orbitControlsImpl) zoomScale() float64 {
	return math.Pow(0.95, oc.cfg.ZoomSpeed)
}

func (oc *orbitControlsImpl) rotateLeft(angle float64) {
	oc.sphericalDelta.Theta -= angle
}

func (oc *orbitControlsImpl) rotateUp(angle float64) {
	oc.sphericalDelta.Phi -= angle
}

// panLeft moves the target along the camera's local X axis.
func (oc *orbitControlsImpl) panLeft(distance float64) {
	v := oc.camera.Quaternion().Rotate(mgl64.Vec3{1, 0, 0})
	oc.panOffset = oc.panOffset.Add(v.Mul(-distance))
}

// panUp moves the target along the camera's up axis, or across the ground plane when
// screen-space panning is off.
func (oc *orbitControlsImpl) panUp(distance float64) {
	var v mgl64.Vec3
	if oc.cfg.ScreenSpacePanning {
		v = oc.camera.Quaternion().Rotate(mgl64.Vec3{0, 1, 0})
	} else {
		right := oc.camera.Quaternion().Rotate(mgl64.Vec3{1, 0, 0})
		v = oc.camera.Up().Cross(right)
	}
	oc.panOffset = oc.panOffset.Add(v.Mul(distance))
}

// clientSize returns the connected source's size, or a unit viewport when disconnected.
func (oc *orbitControlsImpl) clientSize() (width, height float64) {
	if oc.source == nil {
		return 1, 1
	}
	w, h := oc.source.Size()
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(w), float64(h)
}

// pan converts a screen-space delta into a target offset.
func (oc *orbitControlsImpl) pan(deltaX, deltaY float64) {
	width, height := oc.clientSize()
	switch p := oc.camera.Projection(); p {
	case camera.ProjectionPerspective:
		offset := oc.camera.Position().Sub(oc.target)
		// half of the fov is center to top of screen
		targetDistance := offset.Len() * math.Tan(oc.camera.Fov()/2)
		oc.panLeft(2 * deltaX * targetDistance / height)
		oc.panUp(2 * deltaY * targetDistance / height)
	case camera.ProjectionOrthographic:
		left, right, top, bottom := oc.camera.OrthoBounds()
		zoom := oc.camera.Zoom()
		oc.panLeft(deltaX * (right - left) / zoom / width)
		oc.panUp(deltaY * (top - bottom) / zoom / height)
	default:
		log.Printf("[OrbitControls] unsupported camera projection %q, pan disabled", p)
		oc.cfg.EnablePan = false
	}
}

// validDollyScale reports whether scale is a finite positive dolly factor. Anything else
// would collapse the radius or zoom to zero or infinity, so it is ignored.
func validDollyScale(scale float64) bool {
	return scale > 0 && !math.IsInf(scale, 1)
}

func (oc *orbitControlsImpl) dollyOut(dollyScale float64) {
	if !validDollyScale(dollyScale) {
		return
	}
	switch p := oc.camera.Projection(); p {
	case camera.ProjectionPerspective:
		oc.scale /= dollyScale
	case camera.ProjectionOrthographic:
		zoom := common.ClampInf(oc.camera.Zoom()*dollyScale, oc.cfg.MinZoom, oc.cfg.MaxZoom)
		oc.camera.SetZoom(zoom)
		oc.camera.UpdateProjectionMatrix()
		oc.zoomChanged = true
	default:
		log.Printf("[OrbitControls] unsupported camera projection %q, dolly/zoom disabled", p)
		oc.cfg.EnableZoom = false
	}
}

func (oc *orbitControlsImpl) dollyIn(dollyScale float64) {
	if !validDollyScale(dollyScale) {
		return
	}
	switch p := oc.camera.Projection(); p {
	case camera.ProjectionPerspective:
		oc.scale *= dollyScale
	case camera.ProjectionOrthographic:
		zoom := common.ClampInf(oc.camera.Zoom()/dollyScale, oc.cfg.MinZoom, oc.cfg.MaxZoom)
		oc.camera.SetZoom(zoom)
		oc.camera.UpdateProjectionMatrix()
		oc.zoomChanged = true
	default:
		log.Printf("[OrbitControls] unsupported camera projection %q, dolly/zoom disabled", p)
		oc.cfg.EnableZoom = false
	}
}

// --- OrbitControls implementation ---

func (oc *orbitControlsImpl) Camera() camera.Camera {
	return oc.camera
}

func (oc *orbitControlsImpl) Config() OrbitConfig {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.cfg
}

func (oc *orbitControlsImpl) Configure(options ...OrbitControlsOption) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	for _, option := range options {
		option(oc)
	}
}

func (oc *orbitControlsImpl) Target() mgl64.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitControlsImpl) SetTarget(t mgl64.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = t
}

func (oc *orbitControlsImpl) State() State {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.mode.state()
}

func (oc *orbitControlsImpl) GetPolarAngle() float64 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical.Phi
}

func (oc *orbitControlsImpl) GetAzimuthalAngle() float64 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical.Theta
}

func (oc *orbitControlsImpl) GetDistance() float64 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.camera.Position().Sub(oc.target).Len()
}

func (oc *orbitControlsImpl) SaveState() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target0 = oc.target
	oc.position0 = oc.camera.Position()
	oc.zoom0 = oc.camera.Zoom()
}

func (oc *orbitControlsImpl) Reset() {
	oc.locked(func() []EventType {
		oc.target = oc.target0
		oc.camera.SetPosition(oc.position0)
		oc.camera.SetZoom(oc.zoom0)
		oc.camera.UpdateProjectionMatrix()
		oc.sphericalDelta = common.Spherical{}
		oc.panOffset = mgl64.Vec3{}
		oc.scale = 1
		oc.mode = modeIdle{}
		oc.update(0)
		// Reset always notifies, even when the restored pose matches the current one.
		return []EventType{EventChange}
	})
}

func (oc *orbitControlsImpl) Rotate(left, up float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.rotateLeft(left)
	oc.rotateUp(up)
}

func (oc *orbitControlsImpl) Pan(dx, dy float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.pan(dx, dy)
}

func (oc *orbitControlsImpl) DollyIn(scale float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.dollyIn(scale)
}

func (oc *orbitControlsImpl) DollyOut(scale float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.dollyOut(scale)
}

func (oc *orbitControlsImpl) Update() bool {
	return oc.UpdateDelta(0)
}

func (oc *orbitControlsImpl) UpdateDelta(deltaTime float64) bool {
	var changed bool
	oc.locked(func() []EventType {
		if changed = oc.update(deltaTime); changed {
			return []EventType{EventChange}
		}
		return nil
	})
	return changed
}

func (oc *orbitControlsImpl) Connect(src input.Source) {
	oc.Disconnect()
	sub := src.Subscribe(input.Handlers{
		PointerDown: oc.onPointerDown,
		PointerMove: oc.onPointerMove,
		PointerUp:   oc.onPointerUp,
		Wheel:       oc.onWheel,
		KeyDown:     oc.onKeyDown,
		TouchStart:  oc.onTouchStart,
		TouchMove:   oc.onTouchMove,
		TouchEnd:    oc.onTouchEnd,
	})
	oc.mu.Lock()
	oc.source = src
	oc.sub = sub
	oc.mu.Unlock()
}

func (oc *orbitControlsImpl) Disconnect() {
	oc.mu.Lock()
	sub := oc.sub
	oc.sub = nil
	oc.source = nil
	oc.mode = modeIdle{}
	oc.mu.Unlock()
	if sub != nil {
		sub.Release()
	}
}

func (oc *orbitControlsImpl) Dispose() {
	oc.Disconnect()
	oc.RemoveAllEventListeners()
}
