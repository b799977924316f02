// Package config loads camera control and engine settings from YAML files, applies
// OXY_-prefixed environment overrides and hot reloads the file when it changes.
package config

import (
	"math"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/controls"
)

// EnvPrefix is prepended to every environment variable name, e.g. OXY_ORBIT_DAMPING_FACTOR.
const EnvPrefix = "OXY_"

// Settings is the root of a settings file.
type Settings struct {
	Orbit       OrbitSettings       `yaml:"orbit" envPrefix:"ORBIT_"`
	PointerLock PointerLockSettings `yaml:"pointer_lock" envPrefix:"POINTER_LOCK_"`
	Engine      EngineSettings      `yaml:"engine" envPrefix:"ENGINE_"`
}

// OrbitSettings mirrors controls.OrbitConfig. Angles are radians; bounds accept .inf.
type OrbitSettings struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	MinDistance float64 `yaml:"min_distance" env:"MIN_DISTANCE"`
	MaxDistance float64 `yaml:"max_distance" env:"MAX_DISTANCE"`
	MinZoom     float64 `yaml:"min_zoom" env:"MIN_ZOOM"`
	MaxZoom     float64 `yaml:"max_zoom" env:"MAX_ZOOM"`

	MinPolarAngle   float64 `yaml:"min_polar_angle" env:"MIN_POLAR_ANGLE"`
	MaxPolarAngle   float64 `yaml:"max_polar_angle" env:"MAX_POLAR_ANGLE"`
	MinAzimuthAngle float64 `yaml:"min_azimuth_angle" env:"MIN_AZIMUTH_ANGLE"`
	MaxAzimuthAngle float64 `yaml:"max_azimuth_angle" env:"MAX_AZIMUTH_ANGLE"`

	EnableDamping bool    `yaml:"enable_damping" env:"ENABLE_DAMPING"`
	DampingFactor float64 `yaml:"damping_factor" env:"DAMPING_FACTOR"`

	EnableZoom   bool    `yaml:"enable_zoom" env:"ENABLE_ZOOM"`
	ZoomSpeed    float64 `yaml:"zoom_speed" env:"ZOOM_SPEED"`
	EnableRotate bool    `yaml:"enable_rotate" env:"ENABLE_ROTATE"`
	RotateSpeed  float64 `yaml:"rotate_speed" env:"ROTATE_SPEED"`
	EnablePan    bool    `yaml:"enable_pan" env:"ENABLE_PAN"`
	PanSpeed     float64 `yaml:"pan_speed" env:"PAN_SPEED"`

	ScreenSpacePanning bool    `yaml:"screen_space_panning" env:"SCREEN_SPACE_PANNING"`
	KeyPanSpeed        float64 `yaml:"key_pan_speed" env:"KEY_PAN_SPEED"`

	AutoRotate      bool    `yaml:"auto_rotate" env:"AUTO_ROTATE"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed" env:"AUTO_ROTATE_SPEED"`

	EnableKeys   bool                 `yaml:"enable_keys" env:"ENABLE_KEYS"`
	Keys         KeySettings          `yaml:"keys" envPrefix:"KEYS_"`
	MouseButtons MouseButtonsSettings `yaml:"mouse_buttons" envPrefix:"MOUSE_BUTTONS_"`
	Touches      TouchesSettings      `yaml:"touches" envPrefix:"TOUCHES_"`
}

// KeySettings holds the pan key codes (GLFW key codes).
type KeySettings struct {
	Left   uint32 `yaml:"left" env:"LEFT"`
	Up     uint32 `yaml:"up" env:"UP"`
	Right  uint32 `yaml:"right" env:"RIGHT"`
	Bottom uint32 `yaml:"bottom" env:"BOTTOM"`
}

// MouseButtonsSettings binds mouse buttons to action names: rotate, dolly, pan or none.
type MouseButtonsSettings struct {
	Left   string `yaml:"left" env:"LEFT"`
	Middle string `yaml:"middle" env:"MIDDLE"`
	Right  string `yaml:"right" env:"RIGHT"`
}

// TouchesSettings binds contact counts to action names: rotate, dolly, pan or none.
type TouchesSettings struct {
	One   string `yaml:"one" env:"ONE"`
	Two   string `yaml:"two" env:"TWO"`
	Three string `yaml:"three" env:"THREE"`
}

// PointerLockSettings mirrors controls.PointerLockConfig.
type PointerLockSettings struct {
	PointerSpeed  float64 `yaml:"pointer_speed" env:"POINTER_SPEED"`
	MinPolarAngle float64 `yaml:"min_polar_angle" env:"MIN_POLAR_ANGLE"`
	MaxPolarAngle float64 `yaml:"max_polar_angle" env:"MAX_POLAR_ANGLE"`
}

// EngineSettings configures the host window and loops the demos run in.
type EngineSettings struct {
	TickRate         float64        `yaml:"tick_rate" env:"TICK_RATE"`
	RenderFrameLimit float64        `yaml:"render_frame_limit" env:"RENDER_FRAME_LIMIT"`
	Profiling        bool           `yaml:"profiling" env:"PROFILING"`
	PresentMode      string         `yaml:"present_mode" env:"PRESENT_MODE"`
	MSAA             int            `yaml:"msaa" env:"MSAA"`
	Window           WindowSettings `yaml:"window" envPrefix:"WINDOW_"`
}

// WindowSettings configures the GLFW window.
type WindowSettings struct {
	Title          string `yaml:"title" env:"TITLE"`
	Width          int    `yaml:"width" env:"WIDTH"`
	Height         int    `yaml:"height" env:"HEIGHT"`
	RawMouseMotion bool   `yaml:"raw_mouse_motion" env:"RAW_MOUSE_MOTION"`
	EscapeCloses   bool   `yaml:"escape_closes" env:"ESCAPE_CLOSES"`
}

// DefaultSettings returns the settings every file is layered onto.
//
// Returns:
//   - Settings: controls defaults plus a 1280x720 vsync window ticking at 60Hz
func DefaultSettings() Settings {
	return Settings{
		Orbit:       OrbitFromConfig(controls.DefaultOrbitConfig()),
		PointerLock: PointerLockFromConfig(controls.DefaultPointerLockConfig()),
		Engine: EngineSettings{
			TickRate:    60,
			PresentMode: PresentModeVSync,
			MSAA:        1,
			Window: WindowSettings{
				Title:          "oxy-controls",
				Width:          1280,
				Height:         720,
				RawMouseMotion: true,
				EscapeCloses:   true,
			},
		},
	}
}

// Present mode names accepted by EngineSettings.PresentMode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// OrbitFromConfig converts a controls configuration into its settings form.
//
// Parameters:
//   - cfg: the orbit configuration
//
// Returns:
//   - OrbitSettings: the equivalent settings
func OrbitFromConfig(cfg controls.OrbitConfig) OrbitSettings {
	return OrbitSettings{
		Enabled:            cfg.Enabled,
		MinDistance:        cfg.MinDistance,
		MaxDistance:        cfg.MaxDistance,
		MinZoom:            cfg.MinZoom,
		MaxZoom:            cfg.MaxZoom,
		MinPolarAngle:      cfg.MinPolarAngle,
		MaxPolarAngle:      cfg.MaxPolarAngle,
		MinAzimuthAngle:    cfg.MinAzimuthAngle,
		MaxAzimuthAngle:    cfg.MaxAzimuthAngle,
		EnableDamping:      cfg.EnableDamping,
		DampingFactor:      cfg.DampingFactor,
		EnableZoom:         cfg.EnableZoom,
		ZoomSpeed:          cfg.ZoomSpeed,
		EnableRotate:       cfg.EnableRotate,
		RotateSpeed:        cfg.RotateSpeed,
		EnablePan:          cfg.EnablePan,
		PanSpeed:           cfg.PanSpeed,
		ScreenSpacePanning: cfg.ScreenSpacePanning,
		KeyPanSpeed:        cfg.KeyPanSpeed,
		AutoRotate:         cfg.AutoRotate,
		AutoRotateSpeed:    cfg.AutoRotateSpeed,
		EnableKeys:         cfg.EnableKeys,
		Keys: KeySettings{
			Left:   cfg.Keys.Left,
			Up:     cfg.Keys.Up,
			Right:  cfg.Keys.Right,
			Bottom: cfg.Keys.Bottom,
		},
		MouseButtons: MouseButtonsSettings{
			Left:   mouseActionNames[cfg.MouseButtons.Left],
			Middle: mouseActionNames[cfg.MouseButtons.Middle],
			Right:  mouseActionNames[cfg.MouseButtons.Right],
		},
		Touches: TouchesSettings{
			One:   touchActionNames[cfg.Touches.One],
			Two:   touchActionNames[cfg.Touches.Two],
			Three: touchActionNames[cfg.Touches.Three],
		},
	}
}

// PointerLockFromConfig converts a pointer lock configuration into its settings form.
//
// Parameters:
//   - cfg: the pointer lock configuration
//
// Returns:
//   - PointerLockSettings: the equivalent settings
func PointerLockFromConfig(cfg controls.PointerLockConfig) PointerLockSettings {
	return PointerLockSettings{
		PointerSpeed:  cfg.PointerSpeed,
		MinPolarAngle: cfg.MinPolarAngle,
		MaxPolarAngle: cfg.MaxPolarAngle,
	}
}

// Config converts the settings into an orbit configuration.
// Empty action names fall back to the default binding for that slot.
//
// Returns:
//   - controls.OrbitConfig: the configuration
//   - error: an error if an action name is unknown
func (s OrbitSettings) Config() (controls.OrbitConfig, error) {
	def := controls.DefaultOrbitConfig()

	var buttons [3]controls.MouseAction
	for i, name := range []string{s.MouseButtons.Left, s.MouseButtons.Middle, s.MouseButtons.Right} {
		a, err := parseMouseAction(name)
		if err != nil {
			return controls.OrbitConfig{}, err
		}
		buttons[i] = a
	}
	var touches [3]controls.TouchAction
	for i, name := range []string{s.Touches.One, s.Touches.Two, s.Touches.Three} {
		a, err := parseTouchAction(name)
		if err != nil {
			return controls.OrbitConfig{}, err
		}
		touches[i] = a
	}

	cfg := controls.OrbitConfig{
		Enabled:            s.Enabled,
		MinDistance:        s.MinDistance,
		MaxDistance:        s.MaxDistance,
		MinZoom:            s.MinZoom,
		MaxZoom:            s.MaxZoom,
		MinPolarAngle:      s.MinPolarAngle,
		MaxPolarAngle:      s.MaxPolarAngle,
		MinAzimuthAngle:    s.MinAzimuthAngle,
		MaxAzimuthAngle:    s.MaxAzimuthAngle,
		EnableDamping:      s.EnableDamping,
		DampingFactor:      s.DampingFactor,
		EnableZoom:         s.EnableZoom,
		ZoomSpeed:          s.ZoomSpeed,
		EnableRotate:       s.EnableRotate,
		RotateSpeed:        s.RotateSpeed,
		EnablePan:          s.EnablePan,
		PanSpeed:           s.PanSpeed,
		ScreenSpacePanning: s.ScreenSpacePanning,
		KeyPanSpeed:        s.KeyPanSpeed,
		AutoRotate:         s.AutoRotate,
		AutoRotateSpeed:    s.AutoRotateSpeed,
		EnableKeys:         s.EnableKeys,
		Keys: controls.Keys{
			Left:   common.Coalesce(s.Keys.Left, def.Keys.Left),
			Up:     common.Coalesce(s.Keys.Up, def.Keys.Up),
			Right:  common.Coalesce(s.Keys.Right, def.Keys.Right),
			Bottom: common.Coalesce(s.Keys.Bottom, def.Keys.Bottom),
		},
		MouseButtons: controls.MouseButtons{
			Left:   common.Coalesce(buttons[0], def.MouseButtons.Left),
			Middle: common.Coalesce(buttons[1], def.MouseButtons.Middle),
			Right:  common.Coalesce(buttons[2], def.MouseButtons.Right),
		},
		Touches: controls.Touches{
			One:   common.Coalesce(touches[0], def.Touches.One),
			Two:   common.Coalesce(touches[1], def.Touches.Two),
			Three: common.Coalesce(touches[2], def.Touches.Three),
		},
	}
	// "none" parses to the zero action, which Coalesce would replace with the default.
	applyNone(s.MouseButtons.Left, &cfg.MouseButtons.Left)
	applyNone(s.MouseButtons.Middle, &cfg.MouseButtons.Middle)
	applyNone(s.MouseButtons.Right, &cfg.MouseButtons.Right)
	applyNoneTouch(s.Touches.One, &cfg.Touches.One)
	applyNoneTouch(s.Touches.Two, &cfg.Touches.Two)
	applyNoneTouch(s.Touches.Three, &cfg.Touches.Three)
	return cfg, nil
}

// Options converts the settings into orbit controls options, ready for NewOrbitControls or Configure.
//
// Returns:
//   - []controls.OrbitControlsOption: the options
//   - error: an error if an action name is unknown
func (s OrbitSettings) Options() ([]controls.OrbitControlsOption, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	return []controls.OrbitControlsOption{controls.WithConfig(cfg)}, nil
}

// Config converts the settings into a pointer lock configuration.
//
// Returns:
//   - controls.PointerLockConfig: the configuration
func (s PointerLockSettings) Config() controls.PointerLockConfig {
	return controls.PointerLockConfig{
		PointerSpeed:  s.PointerSpeed,
		MinPolarAngle: s.MinPolarAngle,
		MaxPolarAngle: s.MaxPolarAngle,
	}
}

// Options converts the settings into pointer lock controls options.
//
// Returns:
//   - []controls.PointerLockControlsOption: the options
func (s PointerLockSettings) Options() []controls.PointerLockControlsOption {
	return []controls.PointerLockControlsOption{controls.WithPointerLockConfig(s.Config())}
}

var mouseActionNames = map[controls.MouseAction]string{
	controls.MouseNone:   "none",
	controls.MouseRotate: "rotate",
	controls.MouseDolly:  "dolly",
	controls.MousePan:    "pan",
}

var touchActionNames = map[controls.TouchAction]string{
	controls.TouchNone:   "none",
	controls.TouchRotate: "rotate",
	controls.TouchDolly:  "dolly",
	controls.TouchPan:    "pan",
}

func parseMouseAction(name string) (controls.MouseAction, error) {
	if name == "" {
		return controls.MouseNone, nil
	}
	for a, n := range mouseActionNames {
		if n == name {
			return a, nil
		}
	}
	return controls.MouseNone, &ActionError{Kind: "mouse", Name: name}
}

func parseTouchAction(name string) (controls.TouchAction, error) {
	if name == "" {
		return controls.TouchNone, nil
	}
	for a, n := range touchActionNames {
		if n == name {
			return a, nil
		}
	}
	return controls.TouchNone, &ActionError{Kind: "touch", Name: name}
}

func applyNone(name string, dst *controls.MouseAction) {
	if name == "none" {
		*dst = controls.MouseNone
	}
}

func applyNoneTouch(name string, dst *controls.TouchAction) {
	if name == "none" {
		*dst = controls.TouchNone
	}
}

// isInterval reports whether lo <= hi, treating NaN as invalid.
func isInterval(lo, hi float64) bool {
	return !math.IsNaN(lo) && !math.IsNaN(hi) && lo <= hi
}

// Apply reconfigures live controls with the settings, e.g. after a hot reload. Either
// controls may be nil.
//
// Parameters:
//   - orbit: orbit controls to reconfigure, or nil
//   - pointerLock: pointer lock controls to reconfigure, or nil
//
// Returns:
//   - error: an error if an action name is unknown; nothing is applied in that case
func (s Settings) Apply(orbit controls.OrbitControls, pointerLock controls.PointerLockControls) error {
	opts, err := s.Orbit.Options()
	if err != nil {
		return err
	}
	if orbit != nil {
		orbit.Configure(opts...)
	}
	if pointerLock != nil {
		pointerLock.Configure(s.PointerLock.Options()...)
	}
	return nil
}
