package replay

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestTrace(t *testing.T, name string) Trace {
	t.Helper()
	tr, err := LoadTrace(filepath.Join("testdata", name))
	require.NoError(t, err)
	return tr
}

func TestRun_OrbitDrag(t *testing.T) {
	tr := loadTestTrace(t, "orbit_drag.yaml")
	assert.Equal(t, "orbit drag then dolly", tr.Name)

	res, err := Run(tr)
	require.NoError(t, err)

	// a drag of a quarter viewport height rotates a quarter turn
	assert.InDelta(t, math.Pi/2, res.Azimuth, 1e-9)
	assert.InDelta(t, math.Pi/2, res.Polar, 1e-9)
	assert.InDelta(t, 10*0.95*0.95, res.Distance, 1e-9)

	assert.Greater(t, res.Target[1], 0.0, "up key pans the target up")
	assert.InDelta(t, 0, res.Target[0], 1e-9)
	assert.InDelta(t, 0, res.Target[2], 1e-9)
	assert.InDelta(t, res.Distance, res.Position[0], 1e-9)
	assert.InDelta(t, res.Target[1], res.Position[1], 1e-9)

	assert.Equal(t, "none", res.State)
	assert.Equal(t, map[string]int{"start": 3, "change": 4, "end": 3}, res.Events)
}

func TestRun_PointerLockWalk(t *testing.T) {
	res, err := Run(loadTestTrace(t, "pointer_lock_walk.yaml"))
	require.NoError(t, err)

	s, c := math.Sin(0.2), math.Cos(0.2)
	assert.InDelta(t, 2*s+c, res.Position[0], 1e-9)
	assert.InDelta(t, 1.6, res.Position[1], 1e-9)
	assert.InDelta(t, 10-2*c+s, res.Position[2], 1e-9)
	assert.InDelta(t, s, res.Direction[0], 1e-9)
	assert.InDelta(t, -c, res.Direction[2], 1e-9)

	assert.False(t, res.Locked)
	assert.Equal(t, map[string]int{"lock": 1, "change": 1, "unlock": 1}, res.Events)
}

func TestRun_OrthographicZoom(t *testing.T) {
	tr, err := ParseTrace([]byte(`
camera:
  projection: orthographic
orbit:
  max_zoom: 1.5
steps:
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
  - {op: wheel, dy: -1}
`))
	require.NoError(t, err)

	res, err := Run(tr)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, res.Zoom, 1e-12)
	assert.InDelta(t, 10, res.Distance, 1e-9, "orthographic zoom leaves the distance alone")
}

func TestRun_TouchAndReset(t *testing.T) {
	tr, err := ParseTrace([]byte(`
viewport: {width: 600, height: 600}
steps:
  - {op: save_state}
  - {op: touch_start, touches: [[100, 300], [500, 300]]}
  - {op: touch_move, touches: [[200, 300], [400, 300]]}
  - {op: touch_end, touches: []}
  - {op: reset}
`))
	require.NoError(t, err)

	res, err := Run(tr)
	require.NoError(t, err)
	assert.InDelta(t, 10, res.Distance, 1e-9)
	assert.Equal(t, 1, res.Events["start"])
	assert.Equal(t, 1, res.Events["end"])
	// pinch plus the reset
	assert.Equal(t, 2, res.Events["change"])
}

func TestRun_ResizeChangesRotationScale(t *testing.T) {
	drag := func(height int) Trace {
		tr := defaultTrace()
		tr.Viewport = Viewport{Width: 800, Height: height}
		tr.Steps = []Step{
			{Op: OpPointerDown, Button: "left", X: 400, Y: 300},
			{Op: OpPointerMove, X: 300, Y: 300},
		}
		return tr
	}
	small, err := Run(drag(400))
	require.NoError(t, err)

	resized := drag(800)
	resized.Steps = append([]Step{{Op: OpResize, Width: 800, Height: 400}}, resized.Steps...)
	viaResize, err := Run(resized)
	require.NoError(t, err)

	assert.True(t, small.ApproxEqual(viaResize, 1e-9))
}

func TestParseTrace_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown op":             "steps: [{op: jump}]",
		"unknown controls":       "controls: fly",
		"bad viewport":           "viewport: {width: 0, height: 10}",
		"bad projection":         "camera: {projection: fisheye}",
		"bad key":                "steps: [{op: key, key: f13}]",
		"bad button":             "steps: [{op: pointer_down, button: back}]",
		"bad modifier":           "steps: [{op: pointer_down, mods: [hyper]}]",
		"touch with pointerlock": "controls: pointer_lock\nsteps: [{op: touch_start}]",
		"lock with orbit":        "steps: [{op: lock}]",
		"reset with pointerlock": "controls: pointer_lock\nsteps: [{op: reset}]",
		"bad resize":             "steps: [{op: resize}]",
		"negative repeat":        "steps: [{op: update, repeat: -1}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTrace([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTrace)
		})
	}

	_, err := ParseTrace([]byte("stepz: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestParseTrace_NumericKeyCode(t *testing.T) {
	tr, err := ParseTrace([]byte("steps: [{op: key, key: \"265\"}]"))
	require.NoError(t, err)

	res, err := Run(tr)
	require.NoError(t, err)
	assert.Greater(t, res.Target[1], 0.0)
}

func TestRunBatch_MatchesSequentialRuns(t *testing.T) {
	traces := []Trace{
		loadTestTrace(t, "orbit_drag.yaml"),
		loadTestTrace(t, "pointer_lock_walk.yaml"),
	}
	bad := defaultTrace()
	bad.Name = "broken"
	bad.Steps = []Step{{Op: "jump"}}
	traces = append(traces, bad)
	for i := range 5 {
		tr := defaultTrace()
		tr.Steps = []Step{{Op: OpWheel, DY: float64(i%2*2 - 1)}}
		traces = append(traces, tr)
	}

	outcomes := RunBatch(traces, 3)
	require.Len(t, outcomes, len(traces))

	for i, tr := range traces {
		want, wantErr := Run(tr)
		got := outcomes[i]
		if wantErr != nil {
			assert.ErrorIs(t, got.Err, ErrInvalidTrace, "trace %d", i)
			continue
		}
		require.NoError(t, got.Err, "trace %d", i)
		assert.True(t, want.ApproxEqual(got.Result, 1e-12), "trace %d", i)
		assert.Equal(t, want.Events, got.Result.Events, "trace %d", i)
	}
	assert.Empty(t, RunBatch(nil, 2))
}

func TestResult_ApproxEqualTreatsNegatedQuaternionAsEqual(t *testing.T) {
	a := Result{Quaternion: [4]float64{1, 0, 0, 0}}
	b := Result{Quaternion: [4]float64{-1, 0, 0, 0}}
	assert.True(t, a.ApproxEqual(b, 1e-12))

	b.Position[2] = 1
	assert.False(t, a.ApproxEqual(b, 1e-12))

	pos, q := a.Pose()
	assert.Equal(t, 0.0, pos.Len())
	assert.Equal(t, 1.0, q.W)
}
