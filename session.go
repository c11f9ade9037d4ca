package linden

import (
	"fmt"
	"sort"
	"time"
)

// Persistence receives committed object mutations. Calls are fire-and-forget
// from the gesture's perspective: the session never waits on storage, and
// new pointer events may arrive before a prior write resolves.
type Persistence interface {
	HandleObjectUpdate(id string, patch ObjectPatch)
	HandleObjectDelete(id string)
}

// page is one registered page: its host element and its objects.
type page struct {
	id      string
	element PageElement
	objects []*PageObject
}

// objectsByZOrder returns the page's objects topmost first: descending
// ZIndex, later-added on top among equals.
func (p *page) objectsByZOrder() []*PageObject {
	cp := make([]*PageObject, len(p.objects))
	for i, obj := range p.objects {
		cp[len(p.objects)-1-i] = obj
	}
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].ZIndex > cp[j].ZIndex
	})
	return cp
}

// SessionConfig configures a session. Root is required; everything else
// defaults sensibly.
type SessionConfig struct {
	Root        PageElement // editor canvas element; required
	Persistence Persistence
	Capturer    PointerCapturer

	Viewport ViewportConfig
	Drag     DragConfig
	History  HistoryConfig
	SafeZone SafeZoneConfig

	MultiClickWindow time.Duration // default 500ms
	MultiClickRadius float64       // default 10px
}

// Session is one editor session: it constructs and owns the event bus,
// viewport engine, state machine, drag manager, safe-zone manager, history,
// and coordinator, and wires them together. Everything runs on the caller's
// (UI) goroutine.
type Session struct {
	bus         *EventBus
	viewport    *ViewportEngine
	machine     *StateMachine
	drag        *DragManager
	history     *HistoryManager
	safeZone    *SafeZoneManager
	coordinator *Coordinator
	tools       *ToolRegistry
	strategies  *StrategyRegistry
	persistence Persistence
	capturer    PointerCapturer

	pages []*page // order is stacking order; later pages sit on top

	overlays      map[int]Rect
	nextOverlayID int

	handles     []CallbackHandle // session-owned subscriptions, removed on Close
	injectQueue []PointerEvent
	closed      bool
}

// NewSession creates a fully wired session. Panics (via the viewport
// engine) if cfg.Root is nil or has zero extent.
func NewSession(cfg SessionConfig) *Session {
	bus := NewEventBus()

	dragCfg := cfg.Drag
	if dragCfg.Capturer == nil {
		dragCfg.Capturer = cfg.Capturer
	}

	s := &Session{
		bus:         bus,
		viewport:    NewViewportEngine(cfg.Root, cfg.Viewport),
		machine:     NewStateMachine(bus),
		drag:        NewDragManager(bus, dragCfg),
		history:     NewHistoryManager(bus, cfg.History),
		safeZone:    NewSafeZoneManager(bus, cfg.SafeZone),
		tools:       NewToolRegistry(),
		strategies:  DefaultStrategyRegistry(),
		persistence: cfg.Persistence,
		capturer:    dragCfg.Capturer,
		overlays:    make(map[int]Rect),
	}
	s.coordinator = newCoordinator(s, cfg.MultiClickWindow, cfg.MultiClickRadius)

	s.drag.SetConverter(s.convertPoint)
	s.drag.SetActivityHook(s.machine.SetDragActive)
	s.handles = append(s.handles, bus.OnDragEnd(s.applyDragEnd))

	return s
}

// Close cancels any live gesture, removes every bus subscription, and marks
// the session unusable. The capture-phase teardown mirrors setup: global
// listeners registered by the host must not outlive the session.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.coordinator.stroke != nil {
		s.coordinator.finishStroke(false)
	}
	s.drag.Cancel()
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = nil
	s.bus.RemoveAll()
}

// --- Accessors ---

// Bus returns the session's event bus.
func (s *Session) Bus() *EventBus { return s.bus }

// Viewport returns the coordinate engine.
func (s *Session) Viewport() *ViewportEngine { return s.viewport }

// StateMachine returns the interaction state machine.
func (s *Session) StateMachine() *StateMachine { return s.machine }

// Drag returns the drag manager. Renderers poll GetLiveTransform on it per
// frame during an active drag.
func (s *Session) Drag() *DragManager { return s.drag }

// History returns the undo/redo manager.
func (s *Session) History() *HistoryManager { return s.history }

// Coordinator returns the interaction coordinator.
func (s *Session) Coordinator() *Coordinator { return s.coordinator }

// Tools returns the tool registry.
func (s *Session) Tools() *ToolRegistry { return s.tools }

// Strategies returns the strategy registry.
func (s *Session) Strategies() *StrategyRegistry { return s.strategies }

// --- Pages and objects ---

// AddPage registers a page at the top of the stacking order.
// Panics on a duplicate page ID.
func (s *Session) AddPage(id string, el PageElement) {
	if s.findPage(id) != nil {
		panic("linden: duplicate page ID " + id)
	}
	s.pages = append(s.pages, &page{id: id, element: el})
}

// RemovePage unregisters a page and forgets its cached bounds.
// No-op for an unknown ID.
func (s *Session) RemovePage(id string) {
	for i, pg := range s.pages {
		if pg.id == id {
			s.pages = append(s.pages[:i], s.pages[i+1:]...)
			s.viewport.InvalidatePage(id)
			return
		}
	}
}

// AddObject places an object on a page, assigning an ID and stock behavior
// when missing. This is the load path, not an undoable edit.
func (s *Session) AddObject(pageID string, obj *PageObject) error {
	pg := s.findPage(pageID)
	if pg == nil {
		return fmt.Errorf("linden: unknown page %q", pageID)
	}
	if obj.ID == "" {
		obj.ID = NewObjectID()
	}
	if obj.Behavior == (ObjectBehavior{}) {
		obj.Behavior = DefaultBehavior(obj.Type)
	}
	pg.objects = append(pg.objects, obj)
	return nil
}

// Objects returns a copy of a page's object list in insertion order.
func (s *Session) Objects(pageID string) []*PageObject {
	pg := s.findPage(pageID)
	if pg == nil {
		return nil
	}
	return append([]*PageObject(nil), pg.objects...)
}

// RegisterTool adds a creation tool.
func (s *Session) RegisterTool(def ToolDefinition) {
	s.tools.Register(def)
}

// AddOverlay registers a floating-UI rectangle (screen pixels). Pointer
// events inside any overlay never deselect or start gestures. Returns a
// handle for RemoveOverlay.
func (s *Session) AddOverlay(r Rect) int {
	s.nextOverlayID++
	s.overlays[s.nextOverlayID] = r
	return s.nextOverlayID
}

// RemoveOverlay unregisters a floating-UI rectangle.
func (s *Session) RemoveOverlay(id int) {
	delete(s.overlays, id)
}

// --- Pointer entry points ---

// Pointer routes a host pointer event by phase. The single entry point the
// host input layer feeds.
func (s *Session) Pointer(ev PointerEvent) {
	if s.closed {
		return
	}
	switch ev.Phase {
	case PhaseDown:
		s.coordinator.PointerDown(ev)
	case PhaseMove:
		s.coordinator.PointerMove(ev)
	case PhaseUp:
		s.coordinator.PointerUp(ev)
	case PhaseCancel:
		s.coordinator.PointerCancel(ev)
	}
}

// GlobalPointer feeds a capture-phase pointer-down from outside the canvas
// subtree (window-level listener).
func (s *Session) GlobalPointer(ev PointerEvent) {
	if s.closed || ev.Phase != PhaseDown {
		return
	}
	s.coordinator.GlobalPointerDown(ev)
}

// --- Mode conveniences ---

// EnterEditMode moves View → Edit.
func (s *Session) EnterEditMode() bool {
	return s.machine.Trigger(TriggerEnterEditMode, TriggerContext{})
}

// EnterViewMode returns to the read-only View state from any editing state.
func (s *Session) EnterViewMode() bool {
	return s.machine.Trigger(TriggerEnterViewMode, TriggerContext{})
}

// SelectTool arms a registered creation tool. Returns false for unknown
// tools or from states that cannot arm one.
func (s *Session) SelectTool(id ToolID) bool {
	def, ok := s.tools.Lookup(id)
	if !ok {
		return false
	}
	return s.machine.Trigger(TriggerSelectTool, TriggerContext{Tool: def.ID, ToolCategory: def.Category})
}

// CancelInteraction backs out of the current tool, edit, or drawing.
func (s *Session) CancelInteraction() bool {
	return s.machine.Trigger(TriggerCancelInteraction, TriggerContext{})
}

// Undo reverses the latest command.
func (s *Session) Undo() bool { return s.history.Undo() }

// Redo re-applies the latest undone command.
func (s *Session) Redo() bool { return s.history.Redo() }

// --- Editing operations ---

// DeleteSelectedObjects removes the current selection as one undoable step.
// A no-op unless the current state allows deletion.
func (s *Session) DeleteSelectedObjects() bool {
	if !s.machine.Capabilities().CanDeleteObjects {
		return false
	}
	ids := s.machine.SelectedObjectIDs()
	if len(ids) == 0 {
		return false
	}

	var cmds []Command
	for _, id := range ids {
		obj, pageID, ok := s.findObject(id)
		if !ok {
			continue
		}
		obj, pageID, id := obj, pageID, id
		cmds = append(cmds, NewCommand("delete "+obj.Type.String(),
			func() {
				s.removeObject(pageID, id)
				if s.persistence != nil {
					s.persistence.HandleObjectDelete(id)
				}
			},
			func() {
				pg := s.findPage(pageID)
				if pg == nil {
					return
				}
				pg.objects = append(pg.objects, obj)
				s.bus.emitObjectCreated(ObjectCreatedEvent{PageID: pageID, Object: obj})
			},
		))
	}
	if len(cmds) == 0 {
		return false
	}

	s.machine.ClearSelection()
	return s.history.ExecuteCommand(NewCompositeCommand(fmt.Sprintf("delete %d object(s)", len(cmds)), cmds...))
}

// AuditPage runs the safe-zone audit over a page and swaps in the clean
// object set: corrections persist as transform updates, irrecoverable
// objects as deletes.
func (s *Session) AuditPage(pageID string) (SafeZoneReport, bool) {
	pg := s.findPage(pageID)
	if pg == nil {
		return SafeZoneReport{}, false
	}
	report, clean := s.safeZone.AuditPageObjects(pageID, pg.objects, s.viewport)
	pg.objects = clean

	if s.persistence != nil {
		for _, id := range report.CorrectedObjectIDs {
			if obj, _, ok := s.findObject(id); ok {
				t := obj.Transform
				s.persistence.HandleObjectUpdate(id, ObjectPatch{Transform: &t})
			}
		}
		for _, id := range report.RemovedObjectIDs {
			s.persistence.HandleObjectDelete(id)
		}
	}
	return report, true
}

// --- Internal wiring ---

func (s *Session) findPage(id string) *page {
	for _, pg := range s.pages {
		if pg.id == id {
			return pg
		}
	}
	return nil
}

func (s *Session) findObject(id string) (*PageObject, string, bool) {
	for _, pg := range s.pages {
		for _, obj := range pg.objects {
			if obj.ID == id {
				return obj, pg.id, true
			}
		}
	}
	return nil, "", false
}

func (s *Session) removeObject(pageID, id string) {
	pg := s.findPage(pageID)
	if pg == nil {
		return
	}
	for i, obj := range pg.objects {
		if obj.ID == id {
			pg.objects = append(pg.objects[:i], pg.objects[i+1:]...)
			return
		}
	}
}

// inOverlay reports whether a screen point lands on registered floating UI.
func (s *Session) inOverlay(p Vec2) bool {
	for _, r := range s.overlays {
		if r.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

// convertPoint maps a screen point into a page's viewport space using the
// cached page bounds.
func (s *Session) convertPoint(pageID string, p Vec2) (Vec2, bool) {
	pg := s.findPage(pageID)
	if pg == nil {
		return Vec2{}, false
	}
	b := s.viewport.PageBounds(pageID, pg.element)
	if b.Width <= 0 || b.Height <= 0 {
		return Vec2{}, false
	}
	return Vec2{
		X: finiteOr((p.X-b.X)/b.Width, 0),
		Y: finiteOr((p.Y-b.Y)/b.Height, 0),
	}, true
}

// applyTransform writes a transform to an object and persists the patch.
func (s *Session) applyTransform(id string, t Transform) {
	obj, _, ok := s.findObject(id)
	if !ok {
		return
	}
	patch := ObjectPatch{Transform: &t}
	obj.Apply(patch)
	if s.persistence != nil {
		s.persistence.HandleObjectUpdate(id, patch)
	}
}

// applyDragEnd turns a committed drag into one undoable command: move drags
// translate every dragged object by the gesture delta, resize drags rebuild
// the primary object's geometry from its handle. Every result is
// re-constrained to the safe zone before it lands.
func (s *Session) applyDragEnd(ev DragEndEvent) {
	delta := Vec2{X: ev.End.X - ev.Start.X, Y: ev.End.Y - ev.Start.Y}

	var cmds []Command
	switch ev.Mode {
	case DragResize:
		if len(ev.ObjectIDs) == 0 {
			return
		}
		id := ev.ObjectIDs[0]
		orig, ok := ev.OriginalTransforms[id]
		if !ok {
			return
		}
		obj, _, found := s.findObject(id)
		if !found {
			return
		}
		next := s.viewport.ConstrainToSafeZone(
			resizeTransform(orig, ev.Handle, delta, obj.Constraints, s.viewport.MinExtent()))
		cmds = append(cmds, s.transformCommand("resize "+obj.Type.String(), id, orig, next))

	default:
		for _, id := range ev.ObjectIDs {
			orig, ok := ev.OriginalTransforms[id]
			if !ok {
				continue
			}
			next := s.viewport.ConstrainToSafeZone(orig.Translated(delta.X, delta.Y))
			cmds = append(cmds, s.transformCommand("move object", id, orig, next))
		}
	}

	if len(cmds) == 0 {
		return
	}
	if len(cmds) == 1 {
		s.history.ExecuteCommand(cmds[0])
		return
	}
	s.history.ExecuteCommand(NewCompositeCommand(fmt.Sprintf("move %d objects", len(cmds)), cmds...))
}

// transformCommand builds a reversible transform change for one object.
func (s *Session) transformCommand(desc, id string, from, to Transform) Command {
	return NewCommand(desc,
		func() { s.applyTransform(id, to) },
		func() { s.applyTransform(id, from) },
	)
}

// commitStroke appends a finished freehand stroke to a drawing object as a
// single undoable update.
func (s *Session) commitStroke(objectID string, stroke Stroke) {
	obj, _, ok := s.findObject(objectID)
	if !ok {
		return
	}
	s.history.ExecuteCommand(NewCommand("draw stroke",
		func() {
			patch := ObjectPatch{AddStrokes: []Stroke{stroke}}
			obj.Apply(patch)
			if s.persistence != nil {
				s.persistence.HandleObjectUpdate(objectID, patch)
			}
		},
		func() {
			patch := ObjectPatch{RemoveStrokes: 1}
			obj.Apply(patch)
			if s.persistence != nil {
				s.persistence.HandleObjectUpdate(objectID, patch)
			}
		},
	))
}

// createObjectAt stamps a new object from the armed tool, centered on the
// pointer, constrained into the safe zone, as one undoable command.
func (s *Session) createObjectAt(pageID string, vp Vec2) {
	def, ok := s.tools.Lookup(s.machine.Context().ActiveTool)
	if !ok {
		return
	}

	size := def.DefaultSize
	if size.X <= 0 || size.Y <= 0 {
		size = Vec2{X: 0.2, Y: 0.2}
	}
	t := s.viewport.ConstrainToSafeZone(Transform{
		X:      vp.X - size.X/2,
		Y:      vp.Y - size.Y/2,
		Width:  size.X,
		Height: size.Y,
	})

	obj, err := def.CreateObject(t, nil)
	if err != nil || obj == nil {
		warnf("tool %q failed to create object: %v", def.ID, err)
		return
	}
	if obj.ID == "" {
		obj.ID = NewObjectID()
	}
	if obj.Behavior == (ObjectBehavior{}) {
		obj.Behavior = def.Behavior
	}
	if obj.Behavior == (ObjectBehavior{}) {
		obj.Behavior = DefaultBehavior(obj.Type)
	}
	if obj.Constraints == (ObjectConstraints{}) {
		obj.Constraints = def.Constraints
	}
	obj.Transform = s.viewport.ConstrainToSafeZone(obj.Transform)
	obj.ZIndex = s.nextZIndex(pageID)

	id := obj.ID
	s.history.ExecuteCommand(NewCommand("create "+obj.Type.String(),
		func() {
			pg := s.findPage(pageID)
			if pg == nil {
				return
			}
			pg.objects = append(pg.objects, obj)
			s.bus.emitObjectCreated(ObjectCreatedEvent{PageID: pageID, Tool: def.ID, Object: obj})
		},
		func() {
			s.removeObject(pageID, id)
			if s.persistence != nil {
				s.persistence.HandleObjectDelete(id)
			}
		},
	))
}

// nextZIndex returns one past the highest z-index on the page.
func (s *Session) nextZIndex(pageID string) int {
	pg := s.findPage(pageID)
	if pg == nil {
		return 0
	}
	max := -1
	for _, obj := range pg.objects {
		if obj.ZIndex > max {
			max = obj.ZIndex
		}
	}
	return max + 1
}

// resizeTransform rebuilds a transform from a resize handle displacement.
// Corner handles on aspect-locked objects keep the original ratio, anchored
// at the opposite corner. The dragged edge stops at the minimum extent.
func resizeTransform(orig Transform, handle HandleKind, delta Vec2, constraints ObjectConstraints, minExtent float64) Transform {
	minW := constraints.MinWidth
	if minW <= 0 {
		minW = minExtent
	}
	minH := constraints.MinHeight
	if minH <= 0 {
		minH = minExtent
	}

	x1 := orig.X
	y1 := orig.Y
	x2 := orig.X + orig.Width
	y2 := orig.Y + orig.Height

	switch handle {
	case HandleNW, HandleW, HandleSW:
		x1 = clamp(x1+delta.X, x1-1, x2-minW)
	case HandleNE, HandleE, HandleSE:
		x2 = clamp(x2+delta.X, x1+minW, x2+1)
	}
	switch handle {
	case HandleNW, HandleN, HandleNE:
		y1 = clamp(y1+delta.Y, y1-1, y2-minH)
	case HandleSW, HandleS, HandleSE:
		y2 = clamp(y2+delta.Y, y1+minH, y2+1)
	}

	out := Transform{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1, Rotation: orig.Rotation}

	if constraints.KeepAspect && orig.Width > 0 && isCornerHandle(handle) {
		ratio := orig.Height / orig.Width
		out.Height = out.Width * ratio
		// Re-anchor the corner opposite the handle.
		switch handle {
		case HandleNW, HandleNE:
			out.Y = y2 - out.Height
		default:
			out.Y = y1
		}
	}
	return out
}

func isCornerHandle(h HandleKind) bool {
	switch h {
	case HandleNW, HandleNE, HandleSE, HandleSW:
		return true
	default:
		return false
	}
}
