package controls

import "github.com/go-gl/mathgl/mgl64"

// State is the observable interaction mode of the orbit controls.
type State int

const (
	StateNone State = iota
	StateRotate
	StateDolly
	StatePan
	StateTouchRotate
	StateTouchDolly
	StateTouchPan
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateRotate:
		return "rotate"
	case StateDolly:
		return "dolly"
	case StatePan:
		return "pan"
	case StateTouchRotate:
		return "touch_rotate"
	case StateTouchDolly:
		return "touch_dolly"
	case StateTouchPan:
		return "touch_pan"
	default:
		return "unknown"
	}
}

// mode is the active gesture. Each case holds only what its gesture tracks between events.
type mode interface {
	state() State
}

type modeIdle struct{}

type modeRotate struct{ last mgl64.Vec2 }

type modeDolly struct{ last mgl64.Vec2 }

type modePan struct{ last mgl64.Vec2 }

type modeTouchRotate struct{ last mgl64.Vec2 }

// modeTouchDolly tracks the previous pinch distance between the first two contacts.
type modeTouchDolly struct{ distance float64 }

// modeTouchPan tracks the previous centroid of the active contacts.
type modeTouchPan struct{ last mgl64.Vec2 }

func (modeIdle) state() State        { return StateNone }
func (modeRotate) state() State      { return StateRotate }
func (modeDolly) state() State       { return StateDolly }
func (modePan) state() State         { return StatePan }
func (modeTouchRotate) state() State { return StateTouchRotate }
func (modeTouchDolly) state() State  { return StateTouchDolly }
func (modeTouchPan) state() State    { return StateTouchPan }

// MouseAction is the gesture bound to a mouse button.
type MouseAction int

const (
	MouseNone MouseAction = iota
	MouseRotate
	MouseDolly
	MousePan
)

// TouchAction is the gesture bound to a number of simultaneous touches.
type TouchAction int

const (
	TouchNone TouchAction = iota
	TouchRotate
	TouchDolly
	TouchPan
)

// MouseButtons binds each mouse button to a gesture.
type MouseButtons struct {
	Left   MouseAction
	Middle MouseAction
	Right  MouseAction
}

// Touches binds one, two and three finger contacts to a gesture.
type Touches struct {
	One   TouchAction
	Two   TouchAction
	Three TouchAction
}

// Keys holds the key codes that pan the target.
type Keys struct {
	Left   uint32
	Up     uint32
	Right  uint32
	Bottom uint32
}
