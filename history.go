package linden

const defaultHistoryMaxSize = 100

// Command is a reversible unit of state change, the unit of undo/redo
// history. Commands are immutable once pushed; only the stack pointer moves.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// funcCommand adapts a pair of closures into a Command.
type funcCommand struct {
	desc    string
	execute func()
	undo    func()
}

func (c funcCommand) Execute()            { c.execute() }
func (c funcCommand) Undo()               { c.undo() }
func (c funcCommand) Description() string { return c.desc }

// NewCommand builds a Command from an execute/undo closure pair.
// Panics if either closure is nil.
func NewCommand(desc string, execute, undo func()) Command {
	if execute == nil || undo == nil {
		panic("linden: command requires both execute and undo")
	}
	return funcCommand{desc: desc, execute: execute, undo: undo}
}

// CompositeCommand groups several commands into one stack entry so a batch
// undoes in a single step. Execute runs in order, Undo in reverse.
type CompositeCommand struct {
	desc     string
	commands []Command
}

// NewCompositeCommand builds a composite from the given commands.
func NewCompositeCommand(desc string, commands ...Command) *CompositeCommand {
	return &CompositeCommand{desc: desc, commands: commands}
}

// Execute runs the member commands in order.
func (c *CompositeCommand) Execute() {
	for _, cmd := range c.commands {
		cmd.Execute()
	}
}

// Undo reverses the member commands in reverse order.
func (c *CompositeCommand) Undo() {
	for i := len(c.commands) - 1; i >= 0; i-- {
		c.commands[i].Undo()
	}
}

// Description returns the composite's description.
func (c *CompositeCommand) Description() string { return c.desc }

// HistorySnapshot exposes the stack for persistence without replaying side
// effects.
type HistorySnapshot struct {
	History      []Command
	CurrentIndex int
}

// HistoryConfig tunes the history manager. Zero values select defaults.
type HistoryConfig struct {
	MaxSize int // stack capacity before oldest-entry eviction (default 100)
}

// HistoryManager is a command-pattern undo/redo stack. The index invariant
// currentIndex ∈ [-1, len(history)-1] holds at all times. Re-entrant calls
// (a command's Execute invoking the manager again) are rejected with false.
type HistoryManager struct {
	bus *EventBus

	history      []Command
	currentIndex int
	maxSize      int
	executing    bool
}

// NewHistoryManager creates an empty history publishing to bus (which may
// be nil).
func NewHistoryManager(bus *EventBus, cfg HistoryConfig) *HistoryManager {
	max := cfg.MaxSize
	if max <= 0 {
		max = defaultHistoryMaxSize
	}
	return &HistoryManager{bus: bus, currentIndex: -1, maxSize: max}
}

// ExecuteCommand executes the command immediately, truncates any redo tail
// past the current pointer, appends, and advances the pointer. Once the
// stack exceeds MaxSize the oldest entry is evicted and the pointer shifts
// down by one. Returns false during re-entrant execution.
func (h *HistoryManager) ExecuteCommand(cmd Command) bool {
	if h.executing {
		return false
	}
	h.executing = true
	cmd.Execute()
	h.executing = false

	h.push(cmd)
	h.trim()
	h.emit(HistoryExecuted, cmd.Description())
	return true
}

// ExecuteBatch executes each command and pushes all of them under one
// truncate-then-append pass with a single size check afterward. Note this
// records N stack entries, not one: single-step undo of a batch needs a
// CompositeCommand instead.
func (h *HistoryManager) ExecuteBatch(cmds []Command) bool {
	if h.executing {
		return false
	}
	if len(cmds) == 0 {
		return true
	}
	h.executing = true
	for _, cmd := range cmds {
		cmd.Execute()
	}
	h.executing = false

	h.history = h.history[:h.currentIndex+1]
	h.history = append(h.history, cmds...)
	h.currentIndex += len(cmds)
	h.trim()
	h.emit(HistoryExecuted, cmds[len(cmds)-1].Description())
	return true
}

// Undo reverses the command at the pointer and moves it down. Returns false
// at the stack boundary or during re-entrant execution.
func (h *HistoryManager) Undo() bool {
	if h.executing || h.currentIndex < 0 {
		return false
	}
	h.executing = true
	h.history[h.currentIndex].Undo()
	h.executing = false

	desc := h.history[h.currentIndex].Description()
	h.currentIndex--
	h.emit(HistoryUndone, desc)
	return true
}

// Redo re-executes the command past the pointer and moves it up. Returns
// false at the stack boundary or during re-entrant execution.
func (h *HistoryManager) Redo() bool {
	if h.executing || h.currentIndex >= len(h.history)-1 {
		return false
	}
	h.currentIndex++
	h.executing = true
	h.history[h.currentIndex].Execute()
	h.executing = false

	h.emit(HistoryRedone, h.history[h.currentIndex].Description())
	return true
}

// CanUndo reports whether Undo would succeed.
func (h *HistoryManager) CanUndo() bool {
	return !h.executing && h.currentIndex >= 0
}

// CanRedo reports whether Redo would succeed.
func (h *HistoryManager) CanRedo() bool {
	return !h.executing && h.currentIndex < len(h.history)-1
}

// Size returns the number of commands on the stack.
func (h *HistoryManager) Size() int {
	return len(h.history)
}

// Index returns the current stack pointer, -1 when fully undone or empty.
func (h *HistoryManager) Index() int {
	return h.currentIndex
}

// Clear empties the stack without replaying anything.
func (h *HistoryManager) Clear() {
	h.history = nil
	h.currentIndex = -1
	h.emit(HistoryChanged, "")
}

// Snapshot returns the stack and pointer for persistence. No side effects
// replay; the returned slice is a copy.
func (h *HistoryManager) Snapshot() HistorySnapshot {
	return HistorySnapshot{
		History:      append([]Command(nil), h.history...),
		CurrentIndex: h.currentIndex,
	}
}

// Restore replaces the stack and pointer from a snapshot without executing
// anything. The pointer is clamped into the index invariant.
func (h *HistoryManager) Restore(snap HistorySnapshot) {
	h.history = append([]Command(nil), snap.History...)
	h.currentIndex = snap.CurrentIndex
	if h.currentIndex < -1 {
		h.currentIndex = -1
	}
	if h.currentIndex > len(h.history)-1 {
		h.currentIndex = len(h.history) - 1
	}
	h.emit(HistoryChanged, "")
}

// push truncates the redo tail and appends one command.
func (h *HistoryManager) push(cmd Command) {
	h.history = h.history[:h.currentIndex+1]
	h.history = append(h.history, cmd)
	h.currentIndex++
}

// trim evicts oldest entries while the stack exceeds capacity, shifting the
// pointer down to keep it on the same command.
func (h *HistoryManager) trim() {
	for len(h.history) > h.maxSize {
		h.history = h.history[1:]
		h.currentIndex--
	}
	if h.currentIndex < -1 {
		h.currentIndex = -1
	}
}

func (h *HistoryManager) emit(kind HistoryEventKind, desc string) {
	if h.bus == nil {
		return
	}
	h.bus.emitHistory(HistoryEvent{
		Kind:        kind,
		Description: desc,
		CanUndo:     h.CanUndo(),
		CanRedo:     h.CanRedo(),
	})
}
