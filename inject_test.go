package linden

import (
	"testing"
)

func TestInjectedDragGesture(t *testing.T) {
	s, _ := newTestSession(t)
	obj := addSticker(t, s, Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})
	s.EnterEditMode()

	s.InjectPress(500, 500)
	s.InjectMove(600, 550)
	s.InjectRelease(600, 550)

	// Nothing runs until Flush.
	assertApprox(t, "X before flush", obj.Transform.X, 0.4)

	s.Flush()
	assertApprox(t, "X after flush", obj.Transform.X, 0.5)
	assertApprox(t, "Y after flush", obj.Transform.Y, 0.45)
}

func TestInjectedClickSelects(t *testing.T) {
	s, _ := newTestSession(t)
	obj := addSticker(t, s, Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})
	s.EnterEditMode()

	s.InjectPress(500, 500)
	s.InjectRelease(500, 500)
	s.Flush()

	if !s.machine.IsSelected(obj.ID) {
		t.Error("injected click did not select")
	}
	assertApprox(t, "X", obj.Transform.X, 0.4)
}

func TestInjectCancelRollsBack(t *testing.T) {
	s, _ := newTestSession(t)
	obj := addSticker(t, s, Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})
	s.EnterEditMode()

	s.InjectPress(500, 500)
	s.InjectMove(650, 650)
	s.InjectCancel()
	s.Flush()

	assertApprox(t, "X", obj.Transform.X, 0.4)
	if s.drag.IsArmed() {
		t.Error("gesture survived injected cancel")
	}
}

func TestFlushRunsNestedInjections(t *testing.T) {
	s, _ := newTestSession(t)
	addSticker(t, s, Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2})
	s.EnterEditMode()

	// A handler injecting during the flush runs in the same pass.
	var selections int
	s.Bus().OnSelectionChanged(func(ev SelectionChangedEvent) {
		selections++
		if selections == 1 {
			s.InjectPress(100, 100)
			s.InjectRelease(100, 100)
		}
	})

	s.InjectPress(500, 500)
	s.InjectRelease(500, 500)
	s.Flush()

	// The nested empty-area click cleared the selection again.
	if got := len(s.machine.SelectedObjectIDs()); got != 0 {
		t.Errorf("selection = %d objects after nested flush, want 0", got)
	}
	if selections != 2 {
		t.Errorf("selection events = %d, want 2", selections)
	}
}
