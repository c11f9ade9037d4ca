package linden

// State is one mode of the interaction state machine.
type State uint8

const (
	StateView           State = iota // read-only; page turning enabled
	StateEdit                        // select / drag / resize / create enabled
	StateToolActive                  // a creation tool is armed
	StateEditingContent              // inline editing of one object's content
	StateDrawing                     // freehand capture on one drawing object
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateView:
		return "view"
	case StateEdit:
		return "edit"
	case StateToolActive:
		return "toolActive"
	case StateEditingContent:
		return "editingContent"
	case StateDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Trigger is an input to the state machine.
type Trigger uint8

const (
	TriggerEnterEditMode Trigger = iota
	TriggerEnterViewMode
	TriggerSelectTool
	TriggerStartContentEdit
	TriggerStartDrawing
	TriggerCancelInteraction
	TriggerEndInteraction
)

// String returns the trigger's name.
func (t Trigger) String() string {
	switch t {
	case TriggerEnterEditMode:
		return "enterEditMode"
	case TriggerEnterViewMode:
		return "enterViewMode"
	case TriggerSelectTool:
		return "selectTool"
	case TriggerStartContentEdit:
		return "startContentEdit"
	case TriggerStartDrawing:
		return "startDrawing"
	case TriggerCancelInteraction:
		return "cancelInteraction"
	case TriggerEndInteraction:
		return "endInteraction"
	default:
		return "unknown"
	}
}

// TriggerContext is the optional payload accompanying a trigger.
type TriggerContext struct {
	ObjectID     string
	Tool         ToolID
	ToolCategory ToolCategory
}

// InteractionContext is the mode-dependent editor context. It is owned
// exclusively by the state machine; SelectedObjectIDs is non-empty only in
// the Edit and EditingContent states.
type InteractionContext struct {
	ActiveTool         ToolID
	ActiveToolCategory ToolCategory
	SelectedObjectIDs  []string
	EditingObjectID    string
	DrawingObjectID    string

	// dragActive is maintained by the drag manager through a session-wired
	// hook, so IsInteracting never has to reach into a component the state
	// machine does not own.
	dragActive bool
}

// Capabilities is the fixed set of permissions a state grants.
type Capabilities struct {
	CanFlipPages     bool
	CanSelectObjects bool
	CanDragObjects   bool
	CanResizeObjects bool
	CanEditContent   bool
	CanCreateObjects bool
	CanDrawStrokes   bool
	CanDeleteObjects bool
}

// transition is one row of the transition table.
type transition struct {
	from    State
	trigger Trigger
	to      State
	guard   func(TriggerContext) bool
	action  func(m *StateMachine, tc TriggerContext)
}

// StateMachine gates which interactions are currently legal and owns the
// interaction context. Transitions are table-driven; a trigger with no
// matching row is a silent no-op, not an error.
type StateMachine struct {
	state       State
	ctx         InteractionContext
	bus         *EventBus
	transitions []transition
}

// NewStateMachine creates a machine in the View state. The bus may be nil
// for headless use; events are then dropped.
func NewStateMachine(bus *EventBus) *StateMachine {
	m := &StateMachine{state: StateView, bus: bus}
	m.transitions = buildTransitionTable()
	return m
}

// buildTransitionTable returns the full transition table. Guards reject a
// trigger without consuming it; actions mutate the interaction context.
func buildTransitionTable() []transition {
	hasObject := func(tc TriggerContext) bool { return tc.ObjectID != "" }

	clearAll := func(m *StateMachine, _ TriggerContext) {
		m.setSelection(nil)
		m.ctx.ActiveTool = ToolNone
		m.ctx.ActiveToolCategory = 0
		m.ctx.EditingObjectID = ""
		m.ctx.DrawingObjectID = ""
	}
	armTool := func(m *StateMachine, tc TriggerContext) {
		m.setSelection(nil)
		m.ctx.ActiveTool = tc.Tool
		m.ctx.ActiveToolCategory = tc.ToolCategory
	}
	startContentEdit := func(m *StateMachine, tc TriggerContext) {
		m.ctx.EditingObjectID = tc.ObjectID
		m.setSelection([]string{tc.ObjectID})
	}
	startDrawing := func(m *StateMachine, tc TriggerContext) {
		// Selection is only populated in Edit/EditingContent.
		m.setSelection(nil)
		m.ctx.DrawingObjectID = tc.ObjectID
	}
	clearTool := func(m *StateMachine, _ TriggerContext) {
		m.ctx.ActiveTool = ToolNone
		m.ctx.ActiveToolCategory = 0
	}
	endContentEdit := func(m *StateMachine, _ TriggerContext) {
		m.ctx.EditingObjectID = ""
	}
	endDrawing := func(m *StateMachine, _ TriggerContext) {
		m.ctx.DrawingObjectID = ""
	}

	return []transition{
		{from: StateView, trigger: TriggerEnterEditMode, to: StateEdit},

		{from: StateEdit, trigger: TriggerEnterViewMode, to: StateView, action: clearAll},
		{from: StateToolActive, trigger: TriggerEnterViewMode, to: StateView, action: clearAll},
		{from: StateEditingContent, trigger: TriggerEnterViewMode, to: StateView, action: clearAll},
		{from: StateDrawing, trigger: TriggerEnterViewMode, to: StateView, action: clearAll},

		{from: StateEdit, trigger: TriggerSelectTool, to: StateToolActive, action: armTool},
		{from: StateToolActive, trigger: TriggerSelectTool, to: StateToolActive, action: armTool},

		{from: StateEdit, trigger: TriggerStartContentEdit, to: StateEditingContent, guard: hasObject, action: startContentEdit},
		{from: StateEdit, trigger: TriggerStartDrawing, to: StateDrawing, guard: hasObject, action: startDrawing},

		{from: StateToolActive, trigger: TriggerCancelInteraction, to: StateEdit, action: clearTool},

		{from: StateEditingContent, trigger: TriggerEndInteraction, to: StateEdit, action: endContentEdit},
		{from: StateEditingContent, trigger: TriggerCancelInteraction, to: StateEdit, action: endContentEdit},
		{from: StateDrawing, trigger: TriggerEndInteraction, to: StateEdit, action: endDrawing},
		{from: StateDrawing, trigger: TriggerCancelInteraction, to: StateEdit, action: endDrawing},
	}
}

// State returns the current state.
func (m *StateMachine) State() State {
	return m.state
}

// Context returns a copy of the interaction context. The selection slice is
// copied so callers cannot mutate machine-owned state.
func (m *StateMachine) Context() InteractionContext {
	ctx := m.ctx
	ctx.SelectedObjectIDs = append([]string(nil), m.ctx.SelectedObjectIDs...)
	return ctx
}

// Trigger attempts a transition. Returns false — leaving state and context
// unchanged — when no table row matches or the row's guard rejects the
// payload.
func (m *StateMachine) Trigger(t Trigger, tc TriggerContext) bool {
	for _, tr := range m.transitions {
		if tr.from != m.state || tr.trigger != t {
			continue
		}
		if tr.guard != nil && !tr.guard(tc) {
			continue
		}
		from := m.state
		m.state = tr.to
		if tr.action != nil {
			tr.action(m, tc)
		}
		if m.bus != nil {
			m.bus.emitStateChanged(StateChangedEvent{From: from, To: tr.to, Trigger: t})
		}
		return true
	}
	return false
}

// Can reports whether a trigger would currently succeed, without applying it.
func (m *StateMachine) Can(t Trigger, tc TriggerContext) bool {
	for _, tr := range m.transitions {
		if tr.from != m.state || tr.trigger != t {
			continue
		}
		if tr.guard != nil && !tr.guard(tc) {
			continue
		}
		return true
	}
	return false
}

// Capabilities returns the permission set for the current state. In
// ToolActive, CanDrawStrokes holds only while the armed tool is a drawing
// tool.
func (m *StateMachine) Capabilities() Capabilities {
	switch m.state {
	case StateView:
		return Capabilities{CanFlipPages: true}
	case StateEdit:
		return Capabilities{
			CanSelectObjects: true,
			CanDragObjects:   true,
			CanResizeObjects: true,
			CanCreateObjects: true,
			CanDeleteObjects: true,
		}
	case StateToolActive:
		return Capabilities{
			CanCreateObjects: true,
			CanDrawStrokes:   m.ctx.ActiveToolCategory == ToolCategoryDrawing,
		}
	case StateEditingContent:
		return Capabilities{
			CanSelectObjects: true,
			CanEditContent:   true,
		}
	case StateDrawing:
		return Capabilities{CanDrawStrokes: true}
	default:
		return Capabilities{}
	}
}

// SelectObjects updates the selection. A no-op unless the current state
// allows selection. With isMulti, each id toggles its membership; otherwise
// the selection is replaced. A selection-changed event fires only when the
// resulting ordered set differs from the prior one.
func (m *StateMachine) SelectObjects(ids []string, isMulti bool) {
	if !m.Capabilities().CanSelectObjects {
		return
	}

	var next []string
	if isMulti {
		next = append(next, m.ctx.SelectedObjectIDs...)
		for _, id := range ids {
			if i := indexOf(next, id); i >= 0 {
				next = append(next[:i], next[i+1:]...)
			} else {
				next = append(next, id)
			}
		}
	} else {
		next = append(next, ids...)
	}

	m.setSelection(next)
}

// ClearSelection empties the selection regardless of state, firing a
// selection-changed event if it was non-empty.
func (m *StateMachine) ClearSelection() {
	m.setSelection(nil)
}

// SelectedObjectIDs returns a copy of the current selection in order.
func (m *StateMachine) SelectedObjectIDs() []string {
	return append([]string(nil), m.ctx.SelectedObjectIDs...)
}

// IsSelected reports whether the object is in the current selection.
func (m *StateMachine) IsSelected(id string) bool {
	return indexOf(m.ctx.SelectedObjectIDs, id) >= 0
}

// IsInteracting reports whether a gesture or inline edit is in flight:
// the EditingContent or Drawing state, or an active drag.
func (m *StateMachine) IsInteracting() bool {
	return m.state == StateEditingContent || m.state == StateDrawing || m.ctx.dragActive
}

// SetDragActive records drag-manager activity in the interaction context.
// Wired by the session; see InteractionContext.dragActive.
func (m *StateMachine) SetDragActive(active bool) {
	m.ctx.dragActive = active
}

// setSelection replaces the selection, emitting at most one
// selection-changed event and only when the ordered set actually changed.
func (m *StateMachine) setSelection(next []string) {
	if equalStrings(m.ctx.SelectedObjectIDs, next) {
		return
	}
	m.ctx.SelectedObjectIDs = next
	if m.bus != nil {
		m.bus.emitSelectionChanged(SelectionChangedEvent{
			ObjectIDs: append([]string(nil), next...),
		})
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
