package controls

import (
	"math"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/go-gl/mathgl/mgl64"
)

// panModifiers swap rotate and pan for the mouse button that starts the gesture.
const panModifiers = common.ModShift | common.ModControl | common.ModSuper

func (oc *orbitControlsImpl) mouseAction(b common.MouseButton) MouseAction {
	switch b {
	case common.MouseButtonLeft:
		return oc.cfg.MouseButtons.Left
	case common.MouseButtonMiddle:
		return oc.cfg.MouseButtons.Middle
	case common.MouseButtonRight:
		return oc.cfg.MouseButtons.Right
	default:
		return MouseNone
	}
}

func (oc *orbitControlsImpl) onPointerDown(e input.PointerEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled {
			return nil
		}
		if _, idle := oc.mode.(modeIdle); !idle {
			return nil
		}

		pos := mgl64.Vec2{e.X, e.Y}
		swapped := e.Modifiers&panModifiers != 0

		switch oc.mouseAction(e.Button) {
		case MouseDolly:
			if !oc.cfg.EnableZoom {
				return nil
			}
			oc.mode = modeDolly{last: pos}
		case MouseRotate:
			if swapped {
				if !oc.cfg.EnablePan {
					return nil
				}
				oc.mode = modePan{last: pos}
			} else {
				if !oc.cfg.EnableRotate {
					return nil
				}
				oc.mode = modeRotate{last: pos}
			}
		case MousePan:
			if swapped {
				if !oc.cfg.EnableRotate {
					return nil
				}
				oc.mode = modeRotate{last: pos}
			} else {
				if !oc.cfg.EnablePan {
					return nil
				}
				oc.mode = modePan{last: pos}
			}
		default:
			return nil
		}
		return []EventType{EventStart}
	})
}

func (oc *orbitControlsImpl) onPointerMove(e input.PointerEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled {
			return nil
		}
		pos := mgl64.Vec2{e.X, e.Y}

		switch m := oc.mode.(type) {
		case modeRotate:
			oc.rotateBy(pos.Sub(m.last))
			oc.mode = modeRotate{last: pos}
		case modeDolly:
			dy := pos[1] - m.last[1]
			if dy > 0 {
				oc.dollyOut(oc.zoomScale())
			} else if dy < 0 {
				oc.dollyIn(oc.zoomScale())
			}
			oc.mode = modeDolly{last: pos}
		case modePan:
			delta := pos.Sub(m.last).Mul(oc.cfg.PanSpeed)
			oc.pan(delta[0], delta[1])
			oc.mode = modePan{last: pos}
		default:
			return nil
		}
		return oc.changed()
	})
}

func (oc *orbitControlsImpl) onPointerUp(e input.PointerEvent) {
	oc.locked(func() []EventType {
		switch oc.mode.(type) {
		case modeRotate, modeDolly, modePan:
			oc.mode = modeIdle{}
			return []EventType{EventEnd}
		}
		return nil
	})
}

func (oc *orbitControlsImpl) onWheel(e input.WheelEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled || !oc.cfg.EnableZoom {
			return nil
		}
		switch oc.mode.(type) {
		case modeIdle, modeRotate:
		default:
			return nil
		}

		events := []EventType{EventStart}
		if e.DeltaY < 0 {
			oc.dollyIn(oc.zoomScale())
		} else if e.DeltaY > 0 {
			oc.dollyOut(oc.zoomScale())
		}
		events = append(events, oc.changed()...)
		return append(events, EventEnd)
	})
}

func (oc *orbitControlsImpl) onKeyDown(e input.KeyEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled || !oc.cfg.EnableKeys || !oc.cfg.EnablePan || e.Code == 0 {
			return nil
		}
		speed := oc.cfg.KeyPanSpeed
		switch e.Code {
		case oc.cfg.Keys.Up:
			oc.pan(0, speed)
		case oc.cfg.Keys.Bottom:
			oc.pan(0, -speed)
		case oc.cfg.Keys.Left:
			oc.pan(speed, 0)
		case oc.cfg.Keys.Right:
			oc.pan(-speed, 0)
		default:
			return nil
		}
		return oc.changed()
	})
}

func (oc *orbitControlsImpl) onTouchStart(e input.TouchEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled {
			return nil
		}
		_, wasIdle := oc.mode.(modeIdle)
		oc.mode = oc.beginTouch(e.Touches)
		if _, idle := oc.mode.(modeIdle); wasIdle && !idle {
			return []EventType{EventStart}
		}
		return nil
	})
}

func (oc *orbitControlsImpl) onTouchMove(e input.TouchEvent) {
	oc.locked(func() []EventType {
		if !oc.cfg.Enabled || len(e.Touches) == 0 {
			return nil
		}

		switch m := oc.mode.(type) {
		case modeTouchRotate:
			c := centroid(e.Touches)
			oc.rotateBy(c.Sub(m.last))
			oc.mode = modeTouchRotate{last: c}
		case modeTouchDolly:
			if len(e.Touches) < 2 {
				return nil
			}
			d := pinchDistance(e.Touches)
			if m.distance > 0 && d > 0 {
				oc.dollyOut(math.Pow(d/m.distance, oc.cfg.ZoomSpeed))
			}
			oc.mode = modeTouchDolly{distance: d}
		case modeTouchPan:
			c := centroid(e.Touches)
			delta := c.Sub(m.last).Mul(oc.cfg.PanSpeed)
			oc.pan(delta[0], delta[1])
			oc.mode = modeTouchPan{last: c}
		default:
			return nil
		}
		return oc.changed()
	})
}

func (oc *orbitControlsImpl) onTouchEnd(e input.TouchEvent) {
	oc.locked(func() []EventType {
		switch oc.mode.(type) {
		case modeTouchRotate, modeTouchDolly, modeTouchPan:
		default:
			return nil
		}
		if len(e.Touches) > 0 && oc.cfg.Enabled {
			// the remaining contacts continue as the gesture bound to their count
			oc.mode = oc.beginTouch(e.Touches)
			if _, idle := oc.mode.(modeIdle); !idle {
				return nil
			}
		}
		oc.mode = modeIdle{}
		return []EventType{EventEnd}
	})
}

// beginTouch returns the gesture bound to the number of active contacts, or idle when that
// gesture is disabled.
func (oc *orbitControlsImpl) beginTouch(touches []input.Touch) mode {
	var action TouchAction
	switch len(touches) {
	case 1:
		action = oc.cfg.Touches.One
	case 2:
		action = oc.cfg.Touches.Two
	case 3:
		action = oc.cfg.Touches.Three
	default:
		return modeIdle{}
	}

	switch action {
	case TouchRotate:
		if oc.cfg.EnableRotate {
			return modeTouchRotate{last: centroid(touches)}
		}
	case TouchDolly:
		if oc.cfg.EnableZoom && len(touches) >= 2 {
			return modeTouchDolly{distance: pinchDistance(touches)}
		}
	case TouchPan:
		if oc.cfg.EnablePan {
			return modeTouchPan{last: centroid(touches)}
		}
	}
	return modeIdle{}
}

// rotateBy converts a pixel delta into orbit angles. A drag across the full client height
// is one full revolution.
func (oc *orbitControlsImpl) rotateBy(delta mgl64.Vec2) {
	delta = delta.Mul(oc.cfg.RotateSpeed)
	_, height := oc.clientSize()
	oc.rotateLeft(2 * math.Pi * delta[0] / height)
	oc.rotateUp(2 * math.Pi * delta[1] / height)
}

// changed runs an update and reports the change event if the camera moved.
func (oc *orbitControlsImpl) changed() []EventType {
	if oc.update(0) {
		return []EventType{EventChange}
	}
	return nil
}

func centroid(touches []input.Touch) mgl64.Vec2 {
	var c mgl64.Vec2
	for _, t := range touches {
		c = c.Add(mgl64.Vec2{t.X, t.Y})
	}
	return c.Mul(1 / float64(len(touches)))
}

func pinchDistance(touches []input.Touch) float64 {
	return mgl64.Vec2{touches[0].X - touches[1].X, touches[0].Y - touches[1].Y}.Len()
}
