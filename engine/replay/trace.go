// Package replay drives real camera controls from recorded input traces. A trace fixes the
// camera start pose, the viewport and a list of input steps, so replaying it always yields
// the same camera pose.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/config"
	"gopkg.in/yaml.v3"
)

// Controls kinds a trace can drive.
const (
	KindOrbit       = "orbit"
	KindPointerLock = "pointer_lock"
)

// Step operations.
const (
	OpPointerDown = "pointer_down"
	OpPointerMove = "pointer_move"
	OpPointerUp   = "pointer_up"
	OpWheel       = "wheel"
	OpKey         = "key"
	OpTouchStart  = "touch_start"
	OpTouchMove   = "touch_move"
	OpTouchEnd    = "touch_end"
	OpLock        = "lock"
	OpUnlock      = "unlock"
	OpUpdate      = "update"
	OpMoveForward = "move_forward"
	OpMoveRight   = "move_right"
	OpSaveState   = "save_state"
	OpReset       = "reset"
	OpResize      = "resize"
)

// Trace is a replayable input recording.
type Trace struct {
	Name     string   `yaml:"name"`
	Controls string   `yaml:"controls"`
	Viewport Viewport `yaml:"viewport"`
	Camera   Pose     `yaml:"camera"`

	Orbit       config.OrbitSettings       `yaml:"orbit"`
	PointerLock config.PointerLockSettings `yaml:"pointer_lock"`

	Steps []Step `yaml:"steps"`
}

// Viewport is the client size pointer deltas are normalized against.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Pose is the camera state a trace starts from.
type Pose struct {
	Position   [3]float64 `yaml:"position"`
	Target     [3]float64 `yaml:"target"`
	Up         [3]float64 `yaml:"up"`
	Projection string     `yaml:"projection"`
	// Fov is the vertical field of view in degrees.
	Fov         float64 `yaml:"fov"`
	Zoom        float64 `yaml:"zoom"`
	OrthoHeight float64 `yaml:"ortho_height"`
}

// Step is one input operation. Only the fields its Op uses are read.
type Step struct {
	Op string `yaml:"op"`

	Button string   `yaml:"button,omitempty"`
	X      float64  `yaml:"x,omitempty"`
	Y      float64  `yaml:"y,omitempty"`
	DX     float64  `yaml:"dx,omitempty"`
	DY     float64  `yaml:"dy,omitempty"`
	Mods   []string `yaml:"mods,omitempty"`
	Key    string   `yaml:"key,omitempty"`

	Touches [][2]float64 `yaml:"touches,omitempty"`

	// Repeat runs an update step this many times (default once).
	Repeat int `yaml:"repeat,omitempty"`
	// DT is the update delta in seconds; zero calls the frame-based Update.
	DT float64 `yaml:"dt,omitempty"`

	Distance float64 `yaml:"distance,omitempty"`
	Width    int     `yaml:"width,omitempty"`
	Height   int     `yaml:"height,omitempty"`
}

// ErrInvalidTrace is wrapped by every trace validation failure.
var ErrInvalidTrace = errors.New("invalid trace")

// defaultTrace is the document every trace file is decoded onto.
func defaultTrace() Trace {
	s := config.DefaultSettings()
	return Trace{
		Controls: KindOrbit,
		Viewport: Viewport{Width: 800, Height: 600},
		Camera: Pose{
			Position:    [3]float64{0, 0, 10},
			Up:          [3]float64{0, 1, 0},
			Projection:  "perspective",
			Fov:         45,
			Zoom:        1,
			OrthoHeight: 10,
		},
		Orbit:       s.Orbit,
		PointerLock: s.PointerLock,
	}
}

// LoadTrace reads and validates a trace file.
//
// Parameters:
//   - path: the YAML trace file
//
// Returns:
//   - Trace: the trace
//   - error: a wrapped read, decode or validation error
func LoadTrace(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("replay: read %s: %w", path, err)
	}
	tr, err := ParseTrace(data)
	if err != nil {
		return Trace{}, fmt.Errorf("replay: %s: %w", path, err)
	}
	if tr.Name == "" {
		tr.Name = path
	}
	return tr, nil
}

// ParseTrace decodes and validates a trace document. Fields absent from the document keep
// their defaults: an 800x600 orbit trace with the camera at (0, 0, 10) looking at the origin.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Trace: the trace
//   - error: a decode or validation error
func ParseTrace(data []byte) (Trace, error) {
	tr := defaultTrace()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tr); err != nil && !errors.Is(err, io.EOF) {
		return Trace{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return Trace{}, err
	}
	return tr, nil
}

// Validate checks the trace header and every step.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidTrace
func (tr Trace) Validate() error {
	if tr.Controls != KindOrbit && tr.Controls != KindPointerLock {
		return fmt.Errorf("controls %q (want %s or %s): %w", tr.Controls, KindOrbit, KindPointerLock, ErrInvalidTrace)
	}
	if tr.Viewport.Width <= 0 || tr.Viewport.Height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", tr.Viewport.Width, tr.Viewport.Height, ErrInvalidTrace)
	}
	switch tr.Camera.Projection {
	case "perspective", "orthographic":
	default:
		return fmt.Errorf("projection %q: %w", tr.Camera.Projection, ErrInvalidTrace)
	}
	if _, err := tr.Orbit.Config(); err != nil {
		return fmt.Errorf("orbit: %w", err)
	}
	for i, st := range tr.Steps {
		if err := st.validate(tr.Controls); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		}
	}
	return nil
}

func (st Step) validate(kind string) error {
	switch st.Op {
	case OpPointerDown, OpPointerUp:
		if _, err := parseButton(st.Button); err != nil {
			return err
		}
	case OpKey:
		if _, err := parseKey(st.Key); err != nil {
			return err
		}
	case OpTouchStart, OpTouchMove, OpTouchEnd:
		if kind != KindOrbit {
			return fmt.Errorf("touch input needs orbit controls: %w", ErrInvalidTrace)
		}
	case OpLock, OpUnlock, OpMoveForward, OpMoveRight:
		if kind != KindPointerLock {
			return fmt.Errorf("needs pointer_lock controls: %w", ErrInvalidTrace)
		}
	case OpSaveState, OpReset:
		if kind != KindOrbit {
			return fmt.Errorf("needs orbit controls: %w", ErrInvalidTrace)
		}
	case OpResize:
		if st.Width <= 0 || st.Height <= 0 {
			return fmt.Errorf("size %dx%d: %w", st.Width, st.Height, ErrInvalidTrace)
		}
	case OpPointerMove, OpWheel, OpUpdate:
	default:
		return fmt.Errorf("unknown op: %w", ErrInvalidTrace)
	}
	if st.Repeat < 0 {
		return fmt.Errorf("repeat %d: %w", st.Repeat, ErrInvalidTrace)
	}
	if _, err := parseMods(st.Mods); err != nil {
		return err
	}
	return nil
}

func parseButton(name string) (common.MouseButton, error) {
	switch name {
	case "left", "":
		return common.MouseButtonLeft, nil
	case "middle":
		return common.MouseButtonMiddle, nil
	case "right":
		return common.MouseButtonRight, nil
	}
	return common.MouseButtonNone, fmt.Errorf("button %q: %w", name, ErrInvalidTrace)
}

var keyNames = map[string]uint32{
	"left":  common.KeyLeft,
	"up":    common.KeyUp,
	"right": common.KeyRight,
	"down":  common.KeyDown,
	"w":     common.KeyW,
	"a":     common.KeyA,
	"s":     common.KeyS,
	"d":     common.KeyD,
}

// parseKey accepts a key name or a decimal GLFW key code.
func parseKey(name string) (uint32, error) {
	if code, ok := keyNames[strings.ToLower(name)]; ok {
		return code, nil
	}
	code, err := strconv.ParseUint(name, 10, 32)
	if err != nil || code == 0 {
		return 0, fmt.Errorf("key %q: %w", name, ErrInvalidTrace)
	}
	return uint32(code), nil
}

func parseMods(names []string) (common.ModifierKey, error) {
	var mods common.ModifierKey
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			mods |= common.ModShift
		case "control", "ctrl":
			mods |= common.ModControl
		case "alt":
			mods |= common.ModAlt
		case "super", "meta":
			mods |= common.ModSuper
		default:
			return 0, fmt.Errorf("modifier %q: %w", n, ErrInvalidTrace)
		}
	}
	return mods, nil
}
