package replay

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/Carmen-Shannon/oxy-controls/engine/controls"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/go-gl/mathgl/mgl64"
)

// Result is the camera state after a trace has been replayed.
type Result struct {
	Name string `yaml:"name"`

	Position [3]float64 `yaml:"position"`
	// Quaternion is stored as w, x, y, z.
	Quaternion [4]float64 `yaml:"quaternion"`
	Direction  [3]float64 `yaml:"direction"`
	Zoom       float64    `yaml:"zoom"`

	// Orbit traces only.
	Target   [3]float64 `yaml:"target,omitempty"`
	Distance float64    `yaml:"distance,omitempty"`
	Polar    float64    `yaml:"polar,omitempty"`
	Azimuth  float64    `yaml:"azimuth,omitempty"`
	State    string     `yaml:"state,omitempty"`

	// Pointer lock traces only.
	Locked bool `yaml:"locked,omitempty"`

	// Events counts dispatched control events by type.
	Events map[string]int `yaml:"events"`
}

// player owns one replay: a headless source, the camera and the controls under test.
type player struct {
	trace Trace
	src   *input.Virtual
	cam   camera.Camera

	orbit       controls.OrbitControls
	pointerLock controls.PointerLockControls

	events map[string]int
}

// Run replays a trace against freshly constructed controls and reports the final camera
// state. Traces share nothing, so Run is safe to call concurrently.
//
// Parameters:
//   - tr: the trace to replay
//
// Returns:
//   - Result: the final camera state
//   - error: an error if the trace is invalid
func Run(tr Trace) (Result, error) {
	if err := tr.Validate(); err != nil {
		return Result{}, fmt.Errorf("replay: %s: %w", tr.Name, err)
	}

	p, err := newPlayer(tr)
	if err != nil {
		return Result{}, fmt.Errorf("replay: %s: %w", tr.Name, err)
	}
	defer p.dispose()

	for i, st := range tr.Steps {
		if err := p.step(st); err != nil {
			return Result{}, fmt.Errorf("replay: %s: step %d (%s): %w", tr.Name, i, st.Op, err)
		}
		// lock changes are delivered between steps, like a host between frames
		p.src.Flush()
	}
	return p.result(), nil
}

func newPlayer(tr Trace) (*player, error) {
	pose := tr.Camera
	opts := []camera.CameraBuilderOption{
		camera.WithPosition(pose.Position[0], pose.Position[1], pose.Position[2]),
		camera.WithUp(pose.Up[0], pose.Up[1], pose.Up[2]),
		camera.WithFov(mgl64.DegToRad(pose.Fov)),
		camera.WithZoom(pose.Zoom),
		camera.WithOrthoHeight(pose.OrthoHeight),
		camera.WithAspect(float64(tr.Viewport.Width) / float64(tr.Viewport.Height)),
	}
	if pose.Projection == "orthographic" {
		opts = append(opts, camera.WithProjection(camera.ProjectionOrthographic))
	}
	if mgl64.Vec3(pose.Position) != mgl64.Vec3(pose.Target) {
		opts = append(opts, camera.WithLookAt(pose.Target[0], pose.Target[1], pose.Target[2]))
	}

	p := &player{
		trace:  tr,
		src:    input.NewVirtual(tr.Viewport.Width, tr.Viewport.Height),
		cam:    camera.NewCamera(opts...),
		events: make(map[string]int),
	}

	count := func(e controls.Event) { p.events[string(e.Type)]++ }
	switch tr.Controls {
	case KindOrbit:
		orbitOpts, err := tr.Orbit.Options()
		if err != nil {
			return nil, err
		}
		orbitOpts = append(orbitOpts, controls.WithTarget(pose.Target[0], pose.Target[1], pose.Target[2]))
		p.orbit = controls.NewOrbitControls(p.cam, p.src, orbitOpts...)
		for _, t := range []controls.EventType{controls.EventChange, controls.EventStart, controls.EventEnd} {
			p.orbit.AddEventListener(t, count)
		}
	case KindPointerLock:
		p.pointerLock = controls.NewPointerLockControls(p.cam, p.src, tr.PointerLock.Options()...)
		for _, t := range []controls.EventType{controls.EventChange, controls.EventLock, controls.EventUnlock} {
			p.pointerLock.AddEventListener(t, count)
		}
	}
	return p, nil
}

func (p *player) dispose() {
	if p.orbit != nil {
		p.orbit.Dispose()
	}
	if p.pointerLock != nil {
		p.pointerLock.Dispose()
	}
}

func (p *player) step(st Step) error {
	mods, err := parseMods(st.Mods)
	if err != nil {
		return err
	}

	switch st.Op {
	case OpPointerDown, OpPointerUp:
		button, err := parseButton(st.Button)
		if err != nil {
			return err
		}
		e := input.PointerEvent{Button: button, X: st.X, Y: st.Y, Modifiers: mods}
		if st.Op == OpPointerDown {
			p.src.EmitPointerDown(e)
		} else {
			p.src.EmitPointerUp(e)
		}
	case OpPointerMove:
		p.src.EmitPointerMove(input.PointerEvent{
			Button:    common.MouseButtonNone,
			X:         st.X,
			Y:         st.Y,
			MovementX: st.DX,
			MovementY: st.DY,
			Modifiers: mods,
		})
	case OpWheel:
		p.src.EmitWheel(input.WheelEvent{DeltaX: st.DX, DeltaY: st.DY})
	case OpKey:
		code, err := parseKey(st.Key)
		if err != nil {
			return err
		}
		p.src.EmitKeyDown(input.KeyEvent{Code: code, Modifiers: mods})
	case OpTouchStart:
		p.src.EmitTouchStart(touchEvent(st.Touches))
	case OpTouchMove:
		p.src.EmitTouchMove(touchEvent(st.Touches))
	case OpTouchEnd:
		p.src.EmitTouchEnd(touchEvent(st.Touches))
	case OpLock:
		p.pointerLock.Lock()
	case OpUnlock:
		p.pointerLock.Unlock()
	case OpMoveForward:
		p.pointerLock.MoveForward(st.Distance)
	case OpMoveRight:
		p.pointerLock.MoveRight(st.Distance)
	case OpSaveState:
		p.orbit.SaveState()
	case OpReset:
		p.orbit.Reset()
	case OpResize:
		p.src.Resize(st.Width, st.Height)
		if p.cam.Projection() == camera.ProjectionPerspective {
			p.cam.SetAspect(float64(st.Width) / float64(st.Height))
		}
	case OpUpdate:
		if p.orbit == nil {
			return nil
		}
		n := max(st.Repeat, 1)
		for range n {
			if st.DT > 0 {
				p.orbit.UpdateDelta(st.DT)
			} else {
				p.orbit.Update()
			}
		}
	default:
		return fmt.Errorf("unknown op: %w", ErrInvalidTrace)
	}
	return nil
}

func touchEvent(points [][2]float64) input.TouchEvent {
	touches := make([]input.Touch, len(points))
	for i, pt := range points {
		touches[i] = input.Touch{ID: i, X: pt[0], Y: pt[1]}
	}
	return input.TouchEvent{Touches: touches}
}

func (p *player) result() Result {
	pos := p.cam.Position()
	q := p.cam.Quaternion()
	dir := p.cam.Direction()
	r := Result{
		Name:       p.trace.Name,
		Position:   pos,
		Quaternion: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
		Direction:  dir,
		Zoom:       p.cam.Zoom(),
		Events:     p.events,
	}
	if p.orbit != nil {
		r.Target = p.orbit.Target()
		r.Distance = p.orbit.GetDistance()
		r.Polar = p.orbit.GetPolarAngle()
		r.Azimuth = p.orbit.GetAzimuthalAngle()
		r.State = p.orbit.State().String()
	}
	if p.pointerLock != nil {
		r.Locked = p.pointerLock.IsLocked()
	}
	return r
}

// Pose returns the final camera position and orientation as math types.
func (r Result) Pose() (position mgl64.Vec3, quaternion mgl64.Quat) {
	return mgl64.Vec3(r.Position), mgl64.Quat{W: r.Quaternion[0], V: mgl64.Vec3{r.Quaternion[1], r.Quaternion[2], r.Quaternion[3]}}
}

// ApproxEqual reports whether two results describe the same camera pose within eps.
// Event counts and names are ignored.
func (r Result) ApproxEqual(o Result, eps float64) bool {
	for i := range 3 {
		if math.Abs(r.Position[i]-o.Position[i]) > eps || math.Abs(r.Target[i]-o.Target[i]) > eps {
			return false
		}
	}
	// q and -q are the same rotation
	var dot float64
	for i := range 4 {
		dot += r.Quaternion[i] * o.Quaternion[i]
	}
	return math.Abs(math.Abs(dot)-1) <= eps && math.Abs(r.Zoom-o.Zoom) <= eps
}
