package linden

import (
	"testing"
	"time"
)

func newHitTestSession(t *testing.T) *Session {
	t.Helper()
	root := &fixedElement{rect: Rect{Width: 1000, Height: 1000}}
	s := NewSession(SessionConfig{Root: root})
	s.AddPage("p1", &fixedElement{rect: Rect{Width: 1000, Height: 1000}})
	return s
}

func mustAddObject(t *testing.T, s *Session, pageID string, obj *PageObject) *PageObject {
	t.Helper()
	if err := s.AddObject(pageID, obj); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	return obj
}

// --- Click tracker ---

func TestClickTracker(t *testing.T) {
	var c clickTracker
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 500 * time.Millisecond

	if got := c.track("a", Vec2{X: 100, Y: 100}, base, window, 10); got != 1 {
		t.Errorf("first click count = %d", got)
	}
	if got := c.track("a", Vec2{X: 103, Y: 103}, base.Add(200*time.Millisecond), window, 10); got != 2 {
		t.Errorf("second click count = %d, want 2", got)
	}
	if got := c.track("a", Vec2{X: 103, Y: 103}, base.Add(400*time.Millisecond), window, 10); got != 3 {
		t.Errorf("third click count = %d, want 3", got)
	}
}

func TestClickTrackerResets(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 500 * time.Millisecond

	t.Run("window expiry", func(t *testing.T) {
		var c clickTracker
		c.track("a", Vec2{X: 100, Y: 100}, base, window, 10)
		if got := c.track("a", Vec2{X: 100, Y: 100}, base.Add(600*time.Millisecond), window, 10); got != 1 {
			t.Errorf("count = %d after window expiry, want 1", got)
		}
	})

	t.Run("radius exceeded", func(t *testing.T) {
		var c clickTracker
		c.track("a", Vec2{X: 100, Y: 100}, base, window, 10)
		if got := c.track("a", Vec2{X: 115, Y: 100}, base.Add(100*time.Millisecond), window, 10); got != 1 {
			t.Errorf("count = %d after 15px jump, want 1", got)
		}
	})

	t.Run("different object", func(t *testing.T) {
		var c clickTracker
		c.track("a", Vec2{X: 100, Y: 100}, base, window, 10)
		if got := c.track("b", Vec2{X: 100, Y: 100}, base.Add(100*time.Millisecond), window, 10); got != 1 {
			t.Errorf("count = %d after object switch, want 1", got)
		}
	})
}

// --- Hit testing ---

func TestHitTestMiss(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()

	hit := s.coordinator.HitTest(Vec2{X: 5000, Y: 5000}, PointerEvent{})
	if hit.PageID != "" || hit.Object != nil {
		t.Errorf("miss = %+v", hit)
	}
}

func TestHitTestEmptyPageArea(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})

	hit := s.coordinator.HitTest(Vec2{X: 100, Y: 100}, PointerEvent{})
	if hit.PageID != "p1" {
		t.Fatalf("PageID = %q", hit.PageID)
	}
	if hit.Object != nil || hit.Zone != nil {
		t.Errorf("empty area hit an object: %+v", hit)
	}
	assertApprox(t, "ViewportPoint.X", hit.ViewportPoint.X, 0.1)
	assertApprox(t, "ViewportPoint.Y", hit.ViewportPoint.Y, 0.1)
}

func TestHitTestObjectBody(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	obj := mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})

	hit := s.coordinator.HitTest(Vec2{X: 500, Y: 500}, PointerEvent{})
	if hit.Object == nil || hit.Object.ID != obj.ID {
		t.Fatalf("hit = %+v", hit)
	}
	if hit.Zone.Type != ZoneBody {
		t.Errorf("zone = %v, want body", hit.Zone.Type)
	}
	if hit.PagePoint != (Vec2{X: 500, Y: 500}) {
		t.Errorf("PagePoint = %+v", hit.PagePoint)
	}
}

func TestHitTestZOrder(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	under := mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectSticker,
		Transform: Transform{X: 0.3, Y: 0.3, Width: 0.4, Height: 0.4},
		ZIndex:    1,
	})
	over := mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
		ZIndex:    5,
	})

	hit := s.coordinator.HitTest(Vec2{X: 500, Y: 500}, PointerEvent{})
	if hit.Object.ID != over.ID {
		t.Errorf("hit %q, want topmost %q", hit.Object.ID, over.ID)
	}

	// Outside the top object, the lower one catches the point.
	hit = s.coordinator.HitTest(Vec2{X: 350, Y: 350}, PointerEvent{})
	if hit.Object == nil || hit.Object.ID != under.ID {
		t.Errorf("hit %+v, want underlying object", hit.Object)
	}
}

func TestHitTestEqualZIndexLaterWins(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	mustAddObject(t, s, "p1", &PageObject{
		ID:        "first",
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})
	mustAddObject(t, s, "p1", &PageObject{
		ID:        "second",
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})

	hit := s.coordinator.HitTest(Vec2{X: 500, Y: 500}, PointerEvent{})
	if hit.Object.ID != "second" {
		t.Errorf("hit %q; later-added object should sit on top", hit.Object.ID)
	}
}

func TestHitTestTopmostPageWins(t *testing.T) {
	root := &fixedElement{rect: Rect{Width: 1000, Height: 1000}}
	s := NewSession(SessionConfig{Root: root})
	defer s.Close()

	// Two pages covering the same screen area; the later-added is on top.
	s.AddPage("below", &fixedElement{rect: Rect{Width: 1000, Height: 1000}})
	s.AddPage("above", &fixedElement{rect: Rect{Width: 1000, Height: 1000}})

	hit := s.coordinator.HitTest(Vec2{X: 500, Y: 500}, PointerEvent{})
	if hit.PageID != "above" {
		t.Errorf("PageID = %q, want the topmost page", hit.PageID)
	}
}

func TestHitTestPrefersContentZone(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectText,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})

	// Dead center: inside both the content inset and the body.
	hit := s.coordinator.HitTest(Vec2{X: 500, Y: 500}, PointerEvent{})
	if hit.Zone.Type != ZoneContent {
		t.Errorf("zone = %v, want content", hit.Zone.Type)
	}

	// The border ring is body only.
	hit = s.coordinator.HitTest(Vec2{X: 410, Y: 500}, PointerEvent{})
	if hit.Zone.Type != ZoneBody {
		t.Errorf("zone = %v, want body", hit.Zone.Type)
	}
}

func TestHitTestHandlesRequireSelection(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	obj := mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectSticker,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})

	corner := Vec2{X: 600, Y: 600}
	hit := s.coordinator.HitTest(corner, PointerEvent{})
	if hit.Zone.Type == ZoneHandle {
		t.Fatal("unselected object exposed a handle zone")
	}

	s.EnterEditMode()
	s.machine.SelectObjects([]string{obj.ID}, false)
	hit = s.coordinator.HitTest(corner, PointerEvent{})
	if hit.Zone.Type != ZoneHandle || hit.Zone.Handle != HandleSE {
		t.Errorf("zone = %+v, want SE handle", hit.Zone)
	}
}

// --- Multi-click across presses ---

func TestEmptyAreaClickBreaksMultiClickRun(t *testing.T) {
	s := newHitTestSession(t)
	defer s.Close()
	mustAddObject(t, s, "p1", &PageObject{
		Type:      ObjectText,
		Transform: Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
	})
	s.EnterEditMode()

	var edits int
	s.Bus().OnTextEditStart(func(TextEditStartEvent) { edits++ })

	// Object click, empty-area click, object click: the run restarts at
	// one, so the last click must not read as a double-click.
	press(s, 500, 500)
	release(s, 500, 500)
	press(s, 100, 100)
	release(s, 100, 100)
	press(s, 500, 500)
	release(s, 500, 500)

	if edits != 0 {
		t.Errorf("content edit opened after an intervening empty-area click (%d events)", edits)
	}
	if s.machine.State() == StateEditingContent {
		t.Errorf("state = %v after a broken click run", s.machine.State())
	}
}
