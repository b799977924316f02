package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Lerp blends c toward o by t (0 returns c, 1 returns o).
//
// Parameters:
//   - o: the target colour
//   - t: blend factor, clamped to [0, 1]
//
// Returns:
//   - Color: the blended colour
func (c Color) Lerp(o Color, t float64) Color {
	t = mgl64.Clamp(t, 0, 1)
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

var (
	// DefaultSkyColor is the clear colour when looking straight up.
	DefaultSkyColor = Color{R: 0.35, G: 0.55, B: 0.85, A: 1}
	// DefaultHorizonColor is the clear colour when looking level.
	DefaultHorizonColor = Color{R: 0.8, G: 0.85, B: 0.9, A: 1}
	// DefaultGroundColor is the clear colour when looking straight down.
	DefaultGroundColor = Color{R: 0.2, G: 0.17, B: 0.14, A: 1}
)

// Horizon maps a view direction onto a sky/horizon/ground gradient. It gives an otherwise
// empty scene a visible response to camera orientation.
type Horizon struct {
	Sky    Color
	Level  Color
	Ground Color
}

// DefaultHorizon returns the default gradient.
func DefaultHorizon() Horizon {
	return Horizon{Sky: DefaultSkyColor, Level: DefaultHorizonColor, Ground: DefaultGroundColor}
}

// Color returns the gradient colour for a view direction. The elevation angle of dir
// selects the blend: level directions give Level, straight up gives Sky and straight
// down gives Ground. A zero direction returns Level.
//
// Parameters:
//   - dir: the view direction (need not be normalized)
//
// Returns:
//   - Color: the clear colour for that direction
func (h Horizon) Color(dir mgl64.Vec3) Color {
	l := dir.Len()
	if l == 0 {
		return h.Level
	}
	elevation := math.Asin(mgl64.Clamp(dir[1]/l, -1, 1)) / (math.Pi / 2)
	if elevation >= 0 {
		return h.Level.Lerp(h.Sky, elevation)
	}
	return h.Level.Lerp(h.Ground, -elevation)
}

// HorizonColor is DefaultHorizon().Color(dir).
//
// Parameters:
//   - dir: the view direction
//
// Returns:
//   - Color: the clear colour for that direction
func HorizonColor(dir mgl64.Vec3) Color {
	return DefaultHorizon().Color(dir)
}
