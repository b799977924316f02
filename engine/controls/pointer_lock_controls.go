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

// lookSensitivity is radians of rotation per pixel of pointer movement at PointerSpeed 1.
const lookSensitivity = 0.002

// PointerLockConfig holds the tunables of the pointer-lock look controls.
type PointerLockConfig struct {
	// PointerSpeed scales the look sensitivity.
	PointerSpeed float64

	// Pitch range expressed as polar angles from the up axis. The defaults (0, π) allow
	// looking straight up and straight down.
	MinPolarAngle float64
	MaxPolarAngle float64
}

// DefaultPointerLockConfig returns the default look configuration.
func DefaultPointerLockConfig() PointerLockConfig {
	return PointerLockConfig{
		PointerSpeed:  1.0,
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
	}
}

// PointerLockControls rotates a camera in place from raw pointer movement while the
// host has the pointer captured, the way first-person views do.
type PointerLockControls interface {
	// AddEventListener registers fn for change/lock/unlock events.
	AddEventListener(t EventType, fn Listener) ListenerID

	// RemoveEventListener unregisters a listener.
	RemoveEventListener(t EventType, id ListenerID)

	// HasEventListener reports whether a listener exists for t.
	HasEventListener(t EventType) bool

	// Camera returns the controlled camera.
	Camera() camera.Camera

	// Config returns a copy of the current configuration.
	Config() PointerLockConfig

	// Configure applies options under the controls' lock.
	Configure(options ...PointerLockControlsOption)

	// IsLocked reports whether the host last reported the pointer as captured.
	IsLocked() bool

	// Lock asks the connected source to capture the pointer. The result arrives
	// asynchronously as a lock event; failures are logged.
	Lock()

	// Unlock asks the connected source to release the pointer.
	Unlock()

	// GetDirection returns the unit vector the camera is looking along.
	GetDirection() mgl64.Vec3

	// MoveForward moves the camera parallel to the ground plane along its view direction.
	//
	// Parameters:
	//   - distance: world units to move (negative moves backward)
	MoveForward(distance float64)

	// MoveRight moves the camera along its local X axis.
	//
	// Parameters:
	//   - distance: world units to move (negative moves left)
	MoveRight(distance float64)

	// Connect subscribes to an input source. A previous connection is released first.
	Connect(src input.Source)

	// Disconnect releases the input subscription. Safe to call when not connected.
	Disconnect()

	// Dispose disconnects and removes every event listener.
	Dispose()
}

type pointerLockControlsImpl struct {
	EventDispatcher

	mu *sync.Mutex

	camera   camera.Camera
	cfg      PointerLockConfig
	isLocked bool

	source input.Source
	sub    input.Subscription
}

var _ PointerLockControls = &pointerLockControlsImpl{}

// NewPointerLockControls creates look controls for cam. When src is non-nil the controls
// connect to it immediately.
//
// Parameters:
//   - cam: the camera to rotate
//   - src: the input source to listen to (may be nil)
//   - options: functional options to configure the controls
//
// Returns:
//   - PointerLockControls: the newly created controls
func NewPointerLockControls(cam camera.Camera, src input.Source, options ...PointerLockControlsOption) PointerLockControls {
	pc := &pointerLockControlsImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		cfg:    DefaultPointerLockConfig(),
	}
	for _, option := range options {
		option(pc)
	}
	if src != nil {
		pc.Connect(src)
	}
	return pc
}

func (pc *pointerLockControlsImpl) onPointerMove(e input.PointerEvent) {
	pc.mu.Lock()
	if !pc.isLocked {
		pc.mu.Unlock()
		return
	}

	euler := common.EulerYXZFromQuat(pc.camera.Quaternion())
	euler.Y -= e.MovementX * lookSensitivity * pc.cfg.PointerSpeed
	euler.X -= e.MovementY * lookSensitivity * pc.cfg.PointerSpeed
	euler.X = math.Max(math.Pi/2-pc.cfg.MaxPolarAngle, math.Min(math.Pi/2-pc.cfg.MinPolarAngle, euler.X))
	pc.camera.SetQuaternion(euler.Quat())
	pc.mu.Unlock()

	pc.DispatchEvent(Event{Type: EventChange, Target: pc})
}

func (pc *pointerLockControlsImpl) onPointerLockChange(locked bool) {
	pc.mu.Lock()
	pc.isLocked = locked
	pc.mu.Unlock()

	if locked {
		pc.DispatchEvent(Event{Type: EventLock, Target: pc})
	} else {
		pc.DispatchEvent(Event{Type: EventUnlock, Target: pc})
	}
}

func (pc *pointerLockControlsImpl) onPointerLockError(err error) {
	log.Printf("[PointerLockControls] unable to use pointer lock: %v", err)
}

func (pc *pointerLockControlsImpl) Camera() camera.Camera {
	return pc.camera
}

func (pc *pointerLockControlsImpl) Config() PointerLockConfig {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.cfg
}

func (pc *pointerLockControlsImpl) Configure(options ...PointerLockControlsOption) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for _, option := range options {
		option(pc)
	}
}

func (pc *pointerLockControlsImpl) IsLocked() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.isLocked
}

func (pc *pointerLockControlsImpl) Lock() {
	pc.mu.Lock()
	src := pc.source
	pc.mu.Unlock()

	if src == nil {
		log.Printf("[PointerLockControls] lock requested while disconnected")
		return
	}
	if err := src.RequestPointerLock(); err != nil {
		log.Printf("[PointerLockControls] unable to use pointer lock: %v", err)
	}
}

func (pc *pointerLockControlsImpl) Unlock() {
	pc.mu.Lock()
	src := pc.source
	pc.mu.Unlock()

	if src != nil {
		src.ExitPointerLock()
	}
}

func (pc *pointerLockControlsImpl) GetDirection() mgl64.Vec3 {
	return pc.camera.Quaternion().Rotate(mgl64.Vec3{0, 0, -1})
}

func (pc *pointerLockControlsImpl) MoveForward(distance float64) {
	right := pc.camera.Quaternion().Rotate(mgl64.Vec3{1, 0, 0})
	forward := pc.camera.Up().Cross(right)
	pc.camera.SetPosition(pc.camera.Position().Add(forward.Mul(distance)))
}

func (pc *pointerLockControlsImpl) MoveRight(distance float64) {
	right := pc.camera.Quaternion().Rotate(mgl64.Vec3{1, 0, 0})
	pc.camera.SetPosition(pc.camera.Position().Add(right.Mul(distance)))
}

func (pc *pointerLockControlsImpl) Connect(src input.Source) {
	pc.Disconnect()
	sub := src.Subscribe(input.Handlers{
		PointerMove:       pc.onPointerMove,
		PointerLockChange: pc.onPointerLockChange,
		PointerLockError:  pc.onPointerLockError,
	})
	pc.mu.Lock()
	pc.source = src
	pc.sub = sub
	pc.mu.Unlock()
}

func (pc *pointerLockControlsImpl) Disconnect() {
	pc.mu.Lock()
	sub := pc.sub
	pc.sub = nil
	pc.source = nil
	pc.mu.Unlock()
	if sub != nil {
		sub.Release()
	}
}

func (pc *pointerLockControlsImpl) Dispose() {
	pc.Disconnect()
	pc.RemoveAllEventListeners()
}
