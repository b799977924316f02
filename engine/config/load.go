package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid setting")

// ActionError reports an unknown mouse or touch action name.
type ActionError struct {
	Kind string
	Name string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("unknown %s action %q (want rotate, dolly, pan or none)", e.Kind, e.Name)
}

// Load reads a settings file, layers it onto DefaultSettings, applies environment overrides
// and validates the result.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Settings: the effective settings
//   - error: a wrapped read, decode, environment or validation error
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := ApplyEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Parse decodes YAML onto DefaultSettings. Fields absent from the document keep their
// defaults; unknown fields are rejected. Environment overrides are not applied.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Settings: the decoded settings
//   - error: a decode error
func Parse(data []byte) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("unmarshal: %w", err)
	}
	return s, nil
}

// ApplyEnv overrides fields from OXY_-prefixed environment variables. Unset variables leave
// the field untouched.
//
// Parameters:
//   - s: the settings to update in place
//
// Returns:
//   - error: a wrapped parse error
func ApplyEnv(s *Settings) error {
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Marshal encodes settings as YAML.
//
// Returns:
//   - []byte: the YAML document
//   - error: an encode error
func (s Settings) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every bound and name. All problems are reported together.
//
// Returns:
//   - error: nil, or a "config: validate" error wrapping ErrInvalid and any ActionError
func (s Settings) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid))
	}

	o := s.Orbit
	if !isInterval(o.MinDistance, o.MaxDistance) || o.MinDistance < 0 {
		invalid("orbit distance bounds [%v, %v]", o.MinDistance, o.MaxDistance)
	}
	if !isInterval(o.MinZoom, o.MaxZoom) || o.MinZoom < 0 {
		invalid("orbit zoom bounds [%v, %v]", o.MinZoom, o.MaxZoom)
	}
	if !isInterval(o.MinPolarAngle, o.MaxPolarAngle) || o.MinPolarAngle < 0 || o.MaxPolarAngle > math.Pi {
		invalid("orbit polar bounds [%v, %v] outside [0, π]", o.MinPolarAngle, o.MaxPolarAngle)
	}
	if math.IsNaN(o.MinAzimuthAngle) || math.IsNaN(o.MaxAzimuthAngle) {
		invalid("orbit azimuth bounds [%v, %v]", o.MinAzimuthAngle, o.MaxAzimuthAngle)
	} else if !math.IsInf(o.MinAzimuthAngle, 0) && !math.IsInf(o.MaxAzimuthAngle, 0) &&
		math.Abs(o.MaxAzimuthAngle-o.MinAzimuthAngle) >= 2*math.Pi {
		invalid("orbit azimuth bounds [%v, %v] span a full turn", o.MinAzimuthAngle, o.MaxAzimuthAngle)
	}
	if !(o.DampingFactor > 0 && o.DampingFactor <= 1) {
		invalid("orbit damping factor %v outside (0, 1]", o.DampingFactor)
	}
	for name, v := range map[string]float64{
		"zoom_speed":        o.ZoomSpeed,
		"rotate_speed":      o.RotateSpeed,
		"pan_speed":         o.PanSpeed,
		"key_pan_speed":     o.KeyPanSpeed,
		"auto_rotate_speed": o.AutoRotateSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			invalid("orbit %s %v", name, v)
		}
	}
	if _, err := o.Config(); err != nil {
		errs = append(errs, err)
	}

	p := s.PointerLock
	if !isInterval(p.MinPolarAngle, p.MaxPolarAngle) || p.MinPolarAngle < 0 || p.MaxPolarAngle > math.Pi {
		invalid("pointer lock polar bounds [%v, %v] outside [0, π]", p.MinPolarAngle, p.MaxPolarAngle)
	}
	if math.IsNaN(p.PointerSpeed) || math.IsInf(p.PointerSpeed, 0) {
		invalid("pointer lock speed %v", p.PointerSpeed)
	}

	e := s.Engine
	if e.TickRate <= 0 {
		invalid("engine tick rate %v", e.TickRate)
	}
	if e.RenderFrameLimit < 0 {
		invalid("engine render frame limit %v", e.RenderFrameLimit)
	}
	if e.PresentMode != PresentModeVSync && e.PresentMode != PresentModeUncapped {
		invalid("engine present mode %q (want %s or %s)", e.PresentMode, PresentModeVSync, PresentModeUncapped)
	}
	if e.MSAA != 1 && e.MSAA != 4 {
		invalid("engine msaa %d (want 1 or 4)", e.MSAA)
	}
	if e.Window.Width <= 0 || e.Window.Height <= 0 {
		invalid("engine window size %dx%d", e.Window.Width, e.Window.Height)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validate: %w", errors.Join(errs...))
	}
	return nil
}
