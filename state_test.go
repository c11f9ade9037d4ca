package linden

import (
	"testing"
)

// --- Transitions ---

func TestStateMachineTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		path    []Trigger
		ctx     TriggerContext
		trigger Trigger
		want    State
		ok      bool
	}{
		{name: "view to edit", trigger: TriggerEnterEditMode, want: StateEdit, ok: true},
		{name: "view rejects selectTool", trigger: TriggerSelectTool, want: StateView},
		{name: "view rejects endInteraction", trigger: TriggerEndInteraction, want: StateView},
		{
			name: "edit to toolActive",
			path: []Trigger{TriggerEnterEditMode},
			ctx:  TriggerContext{Tool: "sticker"}, trigger: TriggerSelectTool,
			want: StateToolActive, ok: true,
		},
		{
			name: "toolActive swaps tools in place",
			path: []Trigger{TriggerEnterEditMode, TriggerSelectTool},
			ctx:  TriggerContext{Tool: "pen"}, trigger: TriggerSelectTool,
			want: StateToolActive, ok: true,
		},
		{
			name: "toolActive cancel returns to edit",
			path: []Trigger{TriggerEnterEditMode, TriggerSelectTool},
			trigger: TriggerCancelInteraction,
			want:    StateEdit, ok: true,
		},
		{
			name: "edit to editingContent with object",
			path: []Trigger{TriggerEnterEditMode},
			ctx:  TriggerContext{ObjectID: "obj-1"}, trigger: TriggerStartContentEdit,
			want: StateEditingContent, ok: true,
		},
		{
			name: "guard rejects contentEdit without object",
			path: []Trigger{TriggerEnterEditMode},
			trigger: TriggerStartContentEdit,
			want:    StateEdit,
		},
		{
			name: "edit to drawing with object",
			path: []Trigger{TriggerEnterEditMode},
			ctx:  TriggerContext{ObjectID: "obj-1"}, trigger: TriggerStartDrawing,
			want: StateDrawing, ok: true,
		},
		{
			name: "guard rejects drawing without object",
			path: []Trigger{TriggerEnterEditMode},
			trigger: TriggerStartDrawing,
			want:    StateEdit,
		},
		{
			name: "drawing ends back to edit",
			path: []Trigger{TriggerEnterEditMode, TriggerStartDrawing},
			trigger: TriggerEndInteraction,
			want:    StateEdit, ok: true,
		},
		{
			name: "any editing state exits to view",
			path: []Trigger{TriggerEnterEditMode, TriggerSelectTool},
			trigger: TriggerEnterViewMode,
			want:    StateView, ok: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStateMachine(nil)
			for _, tr := range tt.path {
				if !m.Trigger(tr, TriggerContext{ObjectID: "obj-1", Tool: "sticker"}) {
					t.Fatalf("setup trigger %v failed from %v", tr, m.State())
				}
			}
			got := m.Trigger(tt.trigger, tt.ctx)
			if got != tt.ok {
				t.Errorf("Trigger(%v) = %v, want %v", tt.trigger, got, tt.ok)
			}
			if m.State() != tt.want {
				t.Errorf("state = %v, want %v", m.State(), tt.want)
			}
		})
	}
}

func TestStateMachineNoMatchLeavesContextUntouched(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.SelectObjects([]string{"a", "b"}, false)

	// No row matches startContentEdit guarded without an object; nothing moves.
	if m.Trigger(TriggerStartContentEdit, TriggerContext{}) {
		t.Fatal("guarded trigger succeeded without payload")
	}
	if m.State() != StateEdit {
		t.Errorf("state = %v, want edit", m.State())
	}
	if got := m.SelectedObjectIDs(); len(got) != 2 {
		t.Errorf("selection = %v, want [a b]", got)
	}
}

func TestStateMachineCan(t *testing.T) {
	m := NewStateMachine(nil)
	if !m.Can(TriggerEnterEditMode, TriggerContext{}) {
		t.Error("Can(enterEditMode) = false in view")
	}
	if m.Can(TriggerStartDrawing, TriggerContext{ObjectID: "x"}) {
		t.Error("Can(startDrawing) = true in view")
	}
	if m.State() != StateView {
		t.Error("Can applied a transition")
	}
}

func TestStateMachineEmitsStateChanged(t *testing.T) {
	bus := NewEventBus()
	m := NewStateMachine(bus)

	var events []StateChangedEvent
	bus.OnStateChanged(func(ev StateChangedEvent) { events = append(events, ev) })

	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.Trigger(TriggerEnterEditMode, TriggerContext{}) // no row from edit

	if len(events) != 1 {
		t.Fatalf("got %d state events, want 1", len(events))
	}
	ev := events[0]
	if ev.From != StateView || ev.To != StateEdit || ev.Trigger != TriggerEnterEditMode {
		t.Errorf("event = %+v", ev)
	}
}

// --- Context lifecycle ---

func TestEnterViewModeClearsContext(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.SelectObjects([]string{"a"}, false)
	m.Trigger(TriggerStartContentEdit, TriggerContext{ObjectID: "a"})

	m.Trigger(TriggerEnterViewMode, TriggerContext{})

	ctx := m.Context()
	if len(ctx.SelectedObjectIDs) != 0 || ctx.EditingObjectID != "" ||
		ctx.ActiveTool != ToolNone || ctx.DrawingObjectID != "" {
		t.Errorf("context not cleared: %+v", ctx)
	}
}

func TestToolArmingClearsSelection(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.SelectObjects([]string{"a"}, false)

	m.Trigger(TriggerSelectTool, TriggerContext{Tool: "pen", ToolCategory: ToolCategoryDrawing})

	ctx := m.Context()
	if len(ctx.SelectedObjectIDs) != 0 {
		t.Errorf("selection survived tool arming: %v", ctx.SelectedObjectIDs)
	}
	if ctx.ActiveTool != "pen" || ctx.ActiveToolCategory != ToolCategoryDrawing {
		t.Errorf("tool context = (%v, %v)", ctx.ActiveTool, ctx.ActiveToolCategory)
	}
}

func TestStartDrawingClearsSelection(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.SelectObjects([]string{"a"}, false)

	if !m.Trigger(TriggerStartDrawing, TriggerContext{ObjectID: "d"}) {
		t.Fatal("startDrawing rejected")
	}

	ctx := m.Context()
	if m.State() != StateDrawing {
		t.Fatalf("state = %v, want drawing", m.State())
	}
	if len(ctx.SelectedObjectIDs) != 0 {
		t.Errorf("selection survived entering drawing: %v", ctx.SelectedObjectIDs)
	}
	if ctx.DrawingObjectID != "d" {
		t.Errorf("DrawingObjectID = %q", ctx.DrawingObjectID)
	}
}

func TestContextCopyIsIsolated(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	m.SelectObjects([]string{"a", "b"}, false)

	ctx := m.Context()
	ctx.SelectedObjectIDs[0] = "mutated"
	if got := m.SelectedObjectIDs(); got[0] != "a" {
		t.Errorf("Context() leaked the selection slice: %v", got)
	}
}

// --- Capabilities ---

func TestCapabilitiesPerState(t *testing.T) {
	m := NewStateMachine(nil)

	if caps := m.Capabilities(); !caps.CanFlipPages || caps.CanSelectObjects || caps.CanDragObjects {
		t.Errorf("view caps = %+v", caps)
	}

	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	caps := m.Capabilities()
	if !caps.CanSelectObjects || !caps.CanDragObjects || !caps.CanResizeObjects ||
		!caps.CanCreateObjects || !caps.CanDeleteObjects {
		t.Errorf("edit caps = %+v", caps)
	}
	if caps.CanFlipPages || caps.CanDrawStrokes {
		t.Errorf("edit caps allow too much: %+v", caps)
	}

	m.Trigger(TriggerStartContentEdit, TriggerContext{ObjectID: "a"})
	caps = m.Capabilities()
	if !caps.CanEditContent || !caps.CanSelectObjects || caps.CanDragObjects {
		t.Errorf("editingContent caps = %+v", caps)
	}
}

func TestToolActiveDrawCapabilityFollowsCategory(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})

	m.Trigger(TriggerSelectTool, TriggerContext{Tool: "sticker", ToolCategory: ToolCategoryMedia})
	if m.Capabilities().CanDrawStrokes {
		t.Error("media tool grants CanDrawStrokes")
	}

	m.Trigger(TriggerSelectTool, TriggerContext{Tool: "pen", ToolCategory: ToolCategoryDrawing})
	if !m.Capabilities().CanDrawStrokes {
		t.Error("drawing tool denies CanDrawStrokes")
	}
}

// --- Selection ---

func TestSelectObjectsGatedByState(t *testing.T) {
	m := NewStateMachine(nil)
	m.SelectObjects([]string{"a"}, false)
	if len(m.SelectedObjectIDs()) != 0 {
		t.Error("selection succeeded in view state")
	}
}

func TestSelectObjectsReplaceAndToggle(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})

	m.SelectObjects([]string{"a"}, false)
	m.SelectObjects([]string{"b"}, false)
	if got := m.SelectedObjectIDs(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("single select = %v, want [b]", got)
	}

	// Multi toggles membership.
	m.SelectObjects([]string{"a"}, true)
	if got := m.SelectedObjectIDs(); len(got) != 2 {
		t.Fatalf("multi add = %v", got)
	}
	m.SelectObjects([]string{"b"}, true)
	if got := m.SelectedObjectIDs(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("multi toggle-off = %v, want [a]", got)
	}

	if !m.IsSelected("a") || m.IsSelected("b") {
		t.Error("IsSelected disagrees with the selection set")
	}
}

func TestSelectionEmitsAtMostOneEvent(t *testing.T) {
	bus := NewEventBus()
	m := NewStateMachine(bus)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})

	var count int
	bus.OnSelectionChanged(func(SelectionChangedEvent) { count++ })

	m.SelectObjects([]string{"a", "b"}, false)
	if count != 1 {
		t.Errorf("selecting two objects emitted %d events, want 1", count)
	}

	// Re-selecting the identical ordered set emits nothing.
	m.SelectObjects([]string{"a", "b"}, false)
	if count != 1 {
		t.Errorf("idempotent re-select emitted %d events, want 1", count)
	}

	m.ClearSelection()
	if count != 2 {
		t.Errorf("clear emitted %d events total, want 2", count)
	}
	m.ClearSelection()
	if count != 2 {
		t.Errorf("clearing empty selection emitted an event")
	}
}

// --- Interaction flag ---

func TestIsInteracting(t *testing.T) {
	m := NewStateMachine(nil)
	m.Trigger(TriggerEnterEditMode, TriggerContext{})
	if m.IsInteracting() {
		t.Error("idle edit state reports interacting")
	}

	m.SetDragActive(true)
	if !m.IsInteracting() {
		t.Error("active drag not reported")
	}
	m.SetDragActive(false)

	m.Trigger(TriggerStartDrawing, TriggerContext{ObjectID: "a"})
	if !m.IsInteracting() {
		t.Error("drawing state not reported")
	}
	m.Trigger(TriggerEndInteraction, TriggerContext{})
	if m.IsInteracting() {
		t.Error("still interacting after endInteraction")
	}
}
