package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestHorizonColor(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl64.Vec3
		want Color
	}{
		{name: "level", dir: mgl64.Vec3{0, 0, -1}, want: DefaultHorizonColor},
		{name: "straight up", dir: mgl64.Vec3{0, 5, 0}, want: DefaultSkyColor},
		{name: "straight down", dir: mgl64.Vec3{0, -1, 0}, want: DefaultGroundColor},
		{name: "zero direction", dir: mgl64.Vec3{}, want: DefaultHorizonColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HorizonColor(tt.dir)
			assert.InDelta(t, tt.want.R, got.R, 1e-12)
			assert.InDelta(t, tt.want.G, got.G, 1e-12)
			assert.InDelta(t, tt.want.B, got.B, 1e-12)
			assert.InDelta(t, tt.want.A, got.A, 1e-12)
		})
	}
}

func TestHorizonColor_MonotonicInElevation(t *testing.T) {
	// the sky carries less red than the horizon, so red falls as the view tilts up
	prev := HorizonColor(mgl64.Vec3{0, 0, -1}).R
	for i := 1; i <= 10; i++ {
		dir := mgl64.Vec3{0, float64(i) / 10, -1}
		r := HorizonColor(dir).R
		assert.Less(t, r, prev)
		prev = r
	}
}

func TestColor_LerpClamps(t *testing.T) {
	a := Color{R: 0, G: 0, B: 0, A: 0}
	b := Color{R: 1, G: 1, B: 1, A: 1}
	assert.Equal(t, a, a.Lerp(b, -1))
	assert.Equal(t, b, a.Lerp(b, 2))
	assert.Equal(t, Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5}, a.Lerp(b, 0.5))
}
