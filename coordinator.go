package linden

import (
	"time"
)

const (
	defaultMultiClickWindow = 500 * time.Millisecond
	defaultMultiClickRadius = 10.0 // pixels
)

// HitResult describes what a pointer event landed on.
type HitResult struct {
	PageID        string
	Object        *PageObject // nil when the event hit empty page area
	Zone          *Zone       // nil when Object is nil
	Point         Vec2        // screen pixels
	PagePoint     Vec2        // pixels relative to the page origin
	ViewportPoint Vec2        // normalized page coordinates
	Event         PointerEvent
}

// clickTracker implements custom multi-click detection, independent of any
// platform double-click: a click on the same object within the window and
// radius increments the counter; anything else resets it to 1.
type clickTracker struct {
	objectID string
	point    Vec2
	at       time.Time
	count    int
}

func (c *clickTracker) track(objectID string, p Vec2, now time.Time, window time.Duration, radius float64) int {
	dx := p.X - c.point.X
	dy := p.Y - c.point.Y
	if objectID == c.objectID &&
		now.Sub(c.at) <= window &&
		dx*dx+dy*dy <= radius*radius {
		c.count++
	} else {
		c.count = 1
	}
	c.objectID = objectID
	c.point = p
	c.at = now
	return c.count
}

// strokeCapture is the in-flight freehand stroke while in the Drawing state.
type strokeCapture struct {
	objectID  string
	pageID    string
	pointerID int
	points    []Vec2 // object-local, 0..1
}

// Coordinator hit-tests pointer events against the session's page → object →
// zone model, routes hits to strategies, and drives the state machine and
// drag manager. Hit testing walks the engine's own spatial model — no UI
// tree involved — so it runs headlessly.
type Coordinator struct {
	session *Session

	clickWindow time.Duration
	clickRadius float64
	clicks      clickTracker
	now         func() time.Time // swappable clock for click-tracker tests

	stroke *strokeCapture
}

func newCoordinator(s *Session, window time.Duration, radius float64) *Coordinator {
	if window <= 0 {
		window = defaultMultiClickWindow
	}
	if radius <= 0 {
		radius = defaultMultiClickRadius
	}
	return &Coordinator{
		session:     s,
		clickWindow: window,
		clickRadius: radius,
		now:         time.Now,
	}
}

// --- Hit testing ---

// HitTest resolves a screen point to the topmost page, object, and zone
// under it. Pages added later sit on top; within a page, objects are tested
// in descending z-order and each object's zones most specific first.
func (c *Coordinator) HitTest(p Vec2, ev PointerEvent) HitResult {
	s := c.session
	for i := len(s.pages) - 1; i >= 0; i-- {
		pg := s.pages[i]
		b := s.viewport.PageBounds(pg.id, pg.element)
		if !b.Contains(p.X, p.Y) {
			continue
		}

		pagePoint := Vec2{X: p.X - b.X, Y: p.Y - b.Y}
		vp := Vec2{X: pagePoint.X / b.Width, Y: pagePoint.Y / b.Height}
		container := Size{Width: b.Width, Height: b.Height}

		for _, obj := range pg.objectsByZOrder() {
			strategy, ok := s.strategies.Lookup(obj.Type)
			if !ok {
				continue
			}
			abs := s.viewport.ViewportToAbsolute(obj.Transform, container)
			zones := strategy.Zones(obj, abs, s.machine.IsSelected(obj.ID), s.viewport)
			for i := range zones {
				if zones[i].Bounds.Contains(pagePoint.X, pagePoint.Y) {
					return HitResult{
						PageID:        pg.id,
						Object:        obj,
						Zone:          &zones[i],
						Point:         p,
						PagePoint:     pagePoint,
						ViewportPoint: vp,
						Event:         ev,
					}
				}
			}
		}

		return HitResult{PageID: pg.id, Point: p, PagePoint: pagePoint, ViewportPoint: vp, Event: ev}
	}
	return HitResult{Point: p, Event: ev}
}

// --- Pointer pipeline ---

// PointerDown routes a pointer-down event: tool creation, drawing capture,
// multi-click content editing, selection, and drag arming, in that order.
func (c *Coordinator) PointerDown(ev PointerEvent) {
	p := Vec2{X: ev.X, Y: ev.Y}
	if c.session.inOverlay(p) {
		// Floating UI: never deselect or start gestures mid-action.
		return
	}

	hit := c.HitTest(p, ev)
	machine := c.session.machine

	// Armed creation tool stamps an object wherever the page is hit.
	if machine.State() == StateToolActive && hit.PageID != "" && machine.Capabilities().CanCreateObjects {
		c.session.createObjectAt(hit.PageID, hit.ViewportPoint)
		return
	}

	if hit.Object == nil {
		c.endActiveInteraction()
		machine.ClearSelection()
		// An intervening empty-area press breaks any multi-click run.
		c.clicks = clickTracker{}
		return
	}

	// Freehand capture: pointer-down on a drawable object in Edit state.
	if hit.Object.Behavior.Drawable &&
		machine.Trigger(TriggerStartDrawing, TriggerContext{ObjectID: hit.Object.ID}) {
		c.beginStroke(hit, ev)
		return
	}

	clicks := c.clicks.track(hit.Object.ID, p, c.now(), c.clickWindow, c.clickRadius)
	if clicks >= 2 && hit.Zone.Type == ZoneContent && hit.Object.Behavior.Editable {
		if machine.Trigger(TriggerStartContentEdit, TriggerContext{ObjectID: hit.Object.ID}) {
			c.session.bus.emitTextEditStart(TextEditStartEvent{
				ObjectID: hit.Object.ID,
				PageID:   hit.PageID,
			})
			return
		}
	}

	strategy, ok := c.session.strategies.Lookup(hit.Object.Type)
	if !ok {
		return
	}
	if strategy.HandleInteraction(hit, machine) {
		return
	}
	// Strategy delegated gesture start to us.
	c.maybeStartDrag(hit, ev)
}

// PointerMove advances the in-flight gesture, if any.
func (c *Coordinator) PointerMove(ev PointerEvent) {
	if c.stroke != nil {
		c.appendStrokePoint(Vec2{X: ev.X, Y: ev.Y})
		return
	}
	c.session.drag.HandleMove(Vec2{X: ev.X, Y: ev.Y})
}

// PointerUp terminates the in-flight gesture: commits a stroke with at
// least two points, or hands the sample to the drag manager.
func (c *Coordinator) PointerUp(ev PointerEvent) {
	if c.stroke != nil {
		c.finishStroke(true)
		return
	}
	c.session.drag.HandleUp(Vec2{X: ev.X, Y: ev.Y})
}

// PointerCancel aborts the in-flight gesture, rolling back rather than
// committing.
func (c *Coordinator) PointerCancel(ev PointerEvent) {
	if c.stroke != nil {
		c.finishStroke(false)
		return
	}
	c.session.drag.Cancel()
}

// GlobalPointerDown handles capture-phase pointer-downs outside the canvas
// subtree: any such click ends the active interaction and clears the
// selection, unless it lands on registered floating UI.
func (c *Coordinator) GlobalPointerDown(ev PointerEvent) {
	p := Vec2{X: ev.X, Y: ev.Y}
	if c.session.inOverlay(p) {
		return
	}
	c.endActiveInteraction()
	c.session.machine.ClearSelection()
}

// endActiveInteraction closes an inline edit, drawing capture, or armed
// drag so a fresh interaction can begin.
func (c *Coordinator) endActiveInteraction() {
	if c.stroke != nil {
		c.finishStroke(false)
		return
	}
	machine := c.session.machine
	if machine.State() == StateEditingContent || machine.State() == StateDrawing {
		machine.Trigger(TriggerEndInteraction, TriggerContext{})
	}
	if c.session.drag.IsArmed() {
		c.session.drag.Cancel()
	}
}

// --- Drag arming ---

// maybeStartDrag begins a drag for a delegated hit when the current
// capabilities and the object's behavior allow it. Content zones never
// start drags; a second click there must reach the multi-click tracker.
func (c *Coordinator) maybeStartDrag(hit HitResult, ev PointerEvent) {
	if hit.Zone.Type == ZoneContent {
		return
	}
	machine := c.session.machine
	caps := machine.Capabilities()

	mode := DragMove
	handle := HandleNone
	switch hit.Zone.Interaction {
	case InteractionResize:
		if !caps.CanResizeObjects || !hit.Object.Behavior.Resizable {
			return
		}
		mode = DragResize
		handle = hit.Zone.Handle
	default:
		if !caps.CanDragObjects || !hit.Object.Behavior.Draggable {
			return
		}
	}

	c.session.bus.emitDragRequested(DragRequestedEvent{
		ObjectID: hit.Object.ID,
		PageID:   hit.PageID,
		Zone:     hit.Zone.Type,
		Handle:   handle,
		Point:    hit.Point,
	})

	// A move drag on a selected object moves the whole selection; resize
	// always targets the hit object alone.
	ids := []string{hit.Object.ID}
	if mode == DragMove && machine.IsSelected(hit.Object.ID) {
		if sel := machine.SelectedObjectIDs(); len(sel) > 1 {
			ids = sel
		}
	}

	originals := make(map[string]Transform, len(ids))
	for _, id := range ids {
		if obj, _, ok := c.session.findObject(id); ok {
			originals[id] = obj.Transform
		}
	}

	c.session.drag.StartDrag(ids, hit.PageID, ev.PointerID, hit.Point, originals, mode, handle)
}

// --- Freehand capture ---

// beginStroke captures the pointer and starts accumulating object-local
// points for the drawing object.
func (c *Coordinator) beginStroke(hit HitResult, ev PointerEvent) {
	if pc := c.session.capturer; pc != nil {
		if err := pc.Capture(ev.PointerID); err != nil {
			warnf("pointer capture failed for pointer %d: %v", ev.PointerID, err)
		}
	}
	c.stroke = &strokeCapture{
		objectID:  hit.Object.ID,
		pageID:    hit.PageID,
		pointerID: ev.PointerID,
	}
	c.stroke.points = append(c.stroke.points, c.toObjectLocal(hit.Object, hit.ViewportPoint))
}

// appendStrokePoint converts a screen sample into the drawing object's local
// 0..1 space and appends it.
func (c *Coordinator) appendStrokePoint(p Vec2) {
	st := c.stroke
	obj, pageID, ok := c.session.findObject(st.objectID)
	if !ok || pageID != st.pageID {
		// Object vanished mid-stroke (safe-zone cleanup or remote delete).
		c.finishStroke(false)
		return
	}
	vp, ok := c.session.convertPoint(st.pageID, p)
	if !ok {
		return
	}
	st.points = append(st.points, c.toObjectLocal(obj, vp))
}

// finishStroke ends drawing capture. A committed stroke needs at least two
// points and lands as a single undoable update; anything shorter is
// discarded without trace.
func (c *Coordinator) finishStroke(commit bool) {
	st := c.stroke
	c.stroke = nil
	if pc := c.session.capturer; pc != nil {
		pc.Release(st.pointerID)
	}

	machine := c.session.machine
	if commit && len(st.points) >= 2 {
		c.session.commitStroke(st.objectID, Stroke{Points: st.points})
		machine.Trigger(TriggerEndInteraction, TriggerContext{})
		return
	}
	machine.Trigger(TriggerCancelInteraction, TriggerContext{})
}

// toObjectLocal converts a viewport point into an object's local 0..1
// space. Degenerate object extents sanitize to the object origin.
func (c *Coordinator) toObjectLocal(obj *PageObject, vp Vec2) Vec2 {
	t := obj.Transform
	return Vec2{
		X: finiteOr((vp.X-t.X)/t.Width, 0),
		Y: finiteOr((vp.Y-t.Y)/t.Height, 0),
	}
}
