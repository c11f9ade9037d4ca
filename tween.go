package linden

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransformTween animates a Transform toward a target, invoking an apply
// callback with each interpolated value. Hosts drive it from their frame
// loop for cancelled-drag snap-back and safe-zone correction glides; the
// engine itself never animates committed state.
//
// There is no global animation manager — callers call Update themselves.
type TransformTween struct {
	tweens [5]*gween.Tween
	apply  func(Transform)
	Done   bool
}

// NewTransformTween creates a tween from one transform to another over the
// given duration (seconds) with the given easing function.
func NewTransformTween(from, to Transform, duration float32, fn ease.TweenFunc, apply func(Transform)) *TransformTween {
	t := &TransformTween{apply: apply}
	t.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	t.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	t.tweens[2] = gween.New(float32(from.Width), float32(to.Width), duration, fn)
	t.tweens[3] = gween.New(float32(from.Height), float32(to.Height), duration, fn)
	t.tweens[4] = gween.New(float32(from.Rotation), float32(to.Rotation), duration, fn)
	return t
}

// Update advances the tween by dt seconds and applies the interpolated
// transform. Safe to call after completion; it becomes a no-op.
func (t *TransformTween) Update(dt float32) {
	if t.Done {
		return
	}
	var vals [5]float32
	allDone := true
	for i, tw := range t.tweens {
		v, finished := tw.Update(dt)
		vals[i] = v
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone

	if t.apply != nil {
		t.apply(Transform{
			X:        float64(vals[0]),
			Y:        float64(vals[1]),
			Width:    float64(vals[2]),
			Height:   float64(vals[3]),
			Rotation: float64(vals[4]),
		})
	}
}

// snapBackDuration is the stock duration for drag-cancel rollback.
const snapBackDuration = 0.18 // seconds

// SnapBack creates a short ease-out tween returning a previewed transform
// to its original placement, the stock visual for a cancelled drag.
func SnapBack(from, to Transform, apply func(Transform)) *TransformTween {
	return NewTransformTween(from, to, snapBackDuration, ease.OutQuad, apply)
}
