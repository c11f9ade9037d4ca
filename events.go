package linden

// --- Event payloads ---

// SelectionChangedEvent fires when the ordered selection set changes.
type SelectionChangedEvent struct {
	ObjectIDs []string
}

// StateChangedEvent fires on every successful state-machine transition.
type StateChangedEvent struct {
	From    State
	To      State
	Trigger Trigger
}

// DragStartEvent fires once per gesture, when movement first exceeds the
// drag threshold.
type DragStartEvent struct {
	ObjectIDs []string
	PageID    string
	Mode      DragMode
	Handle    HandleKind
	Start     Vec2
}

// DragUpdateEvent fires on every pointer move while dragging. Current is in
// viewport space when a converter is installed, screen space otherwise.
type DragUpdateEvent struct {
	ObjectIDs []string
	PageID    string
	Current   Vec2
	Delta     Vec2 // screen-pixel displacement from the gesture start
}

// DragEndEvent fires when a drag commits. The caller applies the delta to
// each original transform and persists; the drag manager never mutates
// object data itself.
type DragEndEvent struct {
	ObjectIDs          []string
	PageID             string
	Mode               DragMode
	Handle             HandleKind
	Start              Vec2
	End                Vec2
	OriginalTransforms map[string]Transform
}

// DragCancelEvent fires when a drag is aborted; OriginalTransforms support
// caller-side rollback.
type DragCancelEvent struct {
	ObjectIDs          []string
	PageID             string
	OriginalTransforms map[string]Transform
}

// TextEditStartEvent asks the host to open inline content editing.
type TextEditStartEvent struct {
	ObjectID string
	PageID   string
}

// ObjectCreatedEvent fires after a tool factory produced an object and the
// session committed it.
type ObjectCreatedEvent struct {
	PageID string
	Tool   ToolID
	Object *PageObject
}

// DragRequestedEvent fires when a strategy delegates gesture start back to
// the coordinator. Exposed on the bus so hosts can observe or veto drags.
type DragRequestedEvent struct {
	ObjectID string
	PageID   string
	Zone     ZoneType
	Handle   HandleKind
	Point    Vec2
}

// SafeZoneReportEvent carries the outcome of a page audit that found at
// least one violation.
type SafeZoneReportEvent struct {
	Report SafeZoneReport
}

// HistoryEventKind identifies what moved the undo/redo stack.
type HistoryEventKind uint8

const (
	HistoryExecuted HistoryEventKind = iota
	HistoryUndone
	HistoryRedone
	HistoryChanged // eviction, restore, or clear
)

// HistoryEvent fires whenever the undo/redo stack moves.
type HistoryEvent struct {
	Kind        HistoryEventKind
	Description string
	CanUndo     bool
	CanRedo     bool
}

// --- Bus ---

// busHandler pairs a removable id with a typed callback.
type busHandler[T any] struct {
	id uint32
	fn func(T)
}

// EventBus is a session-scoped publish/subscribe hub linking the interaction
// core to renderers and persistence. It is explicitly constructed and owned
// by one session — never a package global — so concurrent editors (and
// tests) cannot cross-talk. Not safe for concurrent use; everything runs on
// the UI goroutine.
type EventBus struct {
	selectionChanged []busHandler[SelectionChangedEvent]
	stateChanged     []busHandler[StateChangedEvent]
	dragStart        []busHandler[DragStartEvent]
	dragUpdate       []busHandler[DragUpdateEvent]
	dragEnd          []busHandler[DragEndEvent]
	dragCancel       []busHandler[DragCancelEvent]
	textEditStart    []busHandler[TextEditStartEvent]
	objectCreated    []busHandler[ObjectCreatedEvent]
	dragRequested    []busHandler[DragRequestedEvent]
	safeZoneReport   []busHandler[SafeZoneReportEvent]
	history          []busHandler[HistoryEvent]
	nextID           uint32
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	bus   *EventBus
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.bus == nil {
		return
	}
	b := h.bus
	switch h.event {
	case EventSelectionChanged:
		b.selectionChanged = removeBusHandler(b.selectionChanged, h.id)
	case EventStateChanged:
		b.stateChanged = removeBusHandler(b.stateChanged, h.id)
	case EventDragStart:
		b.dragStart = removeBusHandler(b.dragStart, h.id)
	case EventDragUpdate:
		b.dragUpdate = removeBusHandler(b.dragUpdate, h.id)
	case EventDragEnd:
		b.dragEnd = removeBusHandler(b.dragEnd, h.id)
	case EventDragCancel:
		b.dragCancel = removeBusHandler(b.dragCancel, h.id)
	case EventTextEditStart:
		b.textEditStart = removeBusHandler(b.textEditStart, h.id)
	case EventObjectCreated:
		b.objectCreated = removeBusHandler(b.objectCreated, h.id)
	case EventDragRequested:
		b.dragRequested = removeBusHandler(b.dragRequested, h.id)
	case EventSafeZoneReport:
		b.safeZoneReport = removeBusHandler(b.safeZoneReport, h.id)
	case EventHistoryChanged:
		b.history = removeBusHandler(b.history, h.id)
	}
}

func removeBusHandler[T any](s []busHandler[T], id uint32) []busHandler[T] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = busHandler[T]{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (b *EventBus) newID() uint32 {
	b.nextID++
	return b.nextID
}

// --- Subscriptions ---

// OnSelectionChanged registers a callback for selection changes.
func (b *EventBus) OnSelectionChanged(fn func(SelectionChangedEvent)) CallbackHandle {
	id := b.newID()
	b.selectionChanged = append(b.selectionChanged, busHandler[SelectionChangedEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventSelectionChanged}
}

// OnStateChanged registers a callback for state-machine transitions.
func (b *EventBus) OnStateChanged(fn func(StateChangedEvent)) CallbackHandle {
	id := b.newID()
	b.stateChanged = append(b.stateChanged, busHandler[StateChangedEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventStateChanged}
}

// OnDragStart registers a callback for drag start events.
func (b *EventBus) OnDragStart(fn func(DragStartEvent)) CallbackHandle {
	id := b.newID()
	b.dragStart = append(b.dragStart, busHandler[DragStartEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventDragStart}
}

// OnDragUpdate registers a callback for drag update events.
func (b *EventBus) OnDragUpdate(fn func(DragUpdateEvent)) CallbackHandle {
	id := b.newID()
	b.dragUpdate = append(b.dragUpdate, busHandler[DragUpdateEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventDragUpdate}
}

// OnDragEnd registers a callback for drag end events.
func (b *EventBus) OnDragEnd(fn func(DragEndEvent)) CallbackHandle {
	id := b.newID()
	b.dragEnd = append(b.dragEnd, busHandler[DragEndEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventDragEnd}
}

// OnDragCancel registers a callback for drag cancel events.
func (b *EventBus) OnDragCancel(fn func(DragCancelEvent)) CallbackHandle {
	id := b.newID()
	b.dragCancel = append(b.dragCancel, busHandler[DragCancelEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventDragCancel}
}

// OnTextEditStart registers a callback for inline-edit requests.
func (b *EventBus) OnTextEditStart(fn func(TextEditStartEvent)) CallbackHandle {
	id := b.newID()
	b.textEditStart = append(b.textEditStart, busHandler[TextEditStartEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventTextEditStart}
}

// OnObjectCreated registers a callback for tool-created objects.
func (b *EventBus) OnObjectCreated(fn func(ObjectCreatedEvent)) CallbackHandle {
	id := b.newID()
	b.objectCreated = append(b.objectCreated, busHandler[ObjectCreatedEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventObjectCreated}
}

// OnDragRequested registers a callback for strategy drag delegation.
func (b *EventBus) OnDragRequested(fn func(DragRequestedEvent)) CallbackHandle {
	id := b.newID()
	b.dragRequested = append(b.dragRequested, busHandler[DragRequestedEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventDragRequested}
}

// OnSafeZoneReport registers a callback for page audit reports.
func (b *EventBus) OnSafeZoneReport(fn func(SafeZoneReportEvent)) CallbackHandle {
	id := b.newID()
	b.safeZoneReport = append(b.safeZoneReport, busHandler[SafeZoneReportEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventSafeZoneReport}
}

// OnHistory registers a callback for undo/redo stack movement.
func (b *EventBus) OnHistory(fn func(HistoryEvent)) CallbackHandle {
	id := b.newID()
	b.history = append(b.history, busHandler[HistoryEvent]{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: EventHistoryChanged}
}

// RemoveAll drops every registered callback. Called on session teardown.
func (b *EventBus) RemoveAll() {
	b.selectionChanged = nil
	b.stateChanged = nil
	b.dragStart = nil
	b.dragUpdate = nil
	b.dragEnd = nil
	b.dragCancel = nil
	b.textEditStart = nil
	b.objectCreated = nil
	b.dragRequested = nil
	b.safeZoneReport = nil
	b.history = nil
}

// --- Dispatch ---

func (b *EventBus) emitSelectionChanged(ev SelectionChangedEvent) {
	for _, h := range b.selectionChanged {
		h.fn(ev)
	}
}

func (b *EventBus) emitStateChanged(ev StateChangedEvent) {
	for _, h := range b.stateChanged {
		h.fn(ev)
	}
}

func (b *EventBus) emitDragStart(ev DragStartEvent) {
	for _, h := range b.dragStart {
		h.fn(ev)
	}
}

func (b *EventBus) emitDragUpdate(ev DragUpdateEvent) {
	for _, h := range b.dragUpdate {
		h.fn(ev)
	}
}

func (b *EventBus) emitDragEnd(ev DragEndEvent) {
	for _, h := range b.dragEnd {
		h.fn(ev)
	}
}

func (b *EventBus) emitDragCancel(ev DragCancelEvent) {
	for _, h := range b.dragCancel {
		h.fn(ev)
	}
}

func (b *EventBus) emitTextEditStart(ev TextEditStartEvent) {
	for _, h := range b.textEditStart {
		h.fn(ev)
	}
}

func (b *EventBus) emitObjectCreated(ev ObjectCreatedEvent) {
	for _, h := range b.objectCreated {
		h.fn(ev)
	}
}

func (b *EventBus) emitDragRequested(ev DragRequestedEvent) {
	for _, h := range b.dragRequested {
		h.fn(ev)
	}
}

func (b *EventBus) emitSafeZoneReport(ev SafeZoneReportEvent) {
	for _, h := range b.safeZoneReport {
		h.fn(ev)
	}
}

func (b *EventBus) emitHistory(ev HistoryEvent) {
	for _, h := range b.history {
		h.fn(ev)
	}
}
