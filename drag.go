package linden

const defaultDragThreshold = 6.0 // pixels

// DragMode distinguishes what a drag gesture does to its objects on commit.
type DragMode uint8

const (
	DragMove   DragMode = iota // translate the objects
	DragResize                 // resize via the handle recorded in the state
)

// PointerCapturer routes all further events for a pointer to the session
// until released. Implementations come from the host input layer; a capture
// failure is logged and the gesture continues best-effort.
type PointerCapturer interface {
	Capture(pointerID int) error
	Release(pointerID int)
}

// DragState is the ephemeral record of one pointer-driven gesture. At most
// one exists at a time; it is owned exclusively by the drag manager and
// destroyed on end or cancel.
type DragState struct {
	ObjectIDs          []string
	PageID             string
	PointerID          int
	Mode               DragMode
	Handle             HandleKind
	Start              Vec2 // screen pixels at pointer-down
	Current            Vec2 // screen pixels, latest sample
	Offset             Vec2 // viewport offset from pointer to primary object origin
	OriginalTransforms map[string]Transform

	dragging bool // true once movement exceeds the threshold
}

// DragConfig tunes the drag manager. Zero values select defaults.
type DragConfig struct {
	Threshold float64 // screen-pixel distance to classify a drag (default 6)
	Capturer  PointerCapturer
}

// DragManager owns the lifecycle of a pointer-driven drag gesture:
// idle → armed (captured, below threshold) → dragging → committed or
// cancelled. It discriminates drags from clicks by displacement and never
// mutates object data — callers apply deltas on commit.
type DragManager struct {
	bus       *EventBus
	capturer  PointerCapturer
	threshold float64

	// convert maps a screen point into a page's viewport space. Injected by
	// the session so the manager stays independent of the viewport engine.
	convert func(pageID string, p Vec2) (Vec2, bool)

	// onActive mirrors dragging-state into the interaction context.
	onActive func(bool)

	state *DragState
}

// NewDragManager creates a drag manager publishing to bus. The bus may be
// nil for headless use.
func NewDragManager(bus *EventBus, cfg DragConfig) *DragManager {
	th := cfg.Threshold
	if th <= 0 {
		th = defaultDragThreshold
	}
	return &DragManager{bus: bus, capturer: cfg.Capturer, threshold: th}
}

// SetConverter installs the screen-to-viewport converter used for update
// events and live transforms. Without one, screen deltas pass through
// unscaled.
func (d *DragManager) SetConverter(fn func(pageID string, p Vec2) (Vec2, bool)) {
	d.convert = fn
}

// SetActivityHook installs a callback invoked with true when a gesture
// crosses the drag threshold and false when it terminates.
func (d *DragManager) SetActivityHook(fn func(active bool)) {
	d.onActive = fn
}

// StartDrag arms a gesture: captures the pointer and snapshots each object's
// original transform for delta computation and rollback. The gesture is not
// yet dragging — no event fires until movement exceeds the threshold.
// A second StartDrag while a gesture is live is a no-op returning false.
func (d *DragManager) StartDrag(objectIDs []string, pageID string, pointerID int, start Vec2, originals map[string]Transform, mode DragMode, handle HandleKind) bool {
	if d.state != nil {
		return false
	}
	if len(objectIDs) == 0 {
		return false
	}

	if d.capturer != nil {
		if err := d.capturer.Capture(pointerID); err != nil {
			warnf("pointer capture failed for pointer %d: %v", pointerID, err)
		}
	}

	snapshot := make(map[string]Transform, len(originals))
	for id, t := range originals {
		snapshot[id] = t
	}

	st := &DragState{
		ObjectIDs:          append([]string(nil), objectIDs...),
		PageID:             pageID,
		PointerID:          pointerID,
		Mode:               mode,
		Handle:             handle,
		Start:              start,
		Current:            start,
		OriginalTransforms: snapshot,
	}
	if primary, ok := snapshot[objectIDs[0]]; ok {
		if v, ok := d.toViewport(pageID, start); ok {
			st.Offset = Vec2{X: primary.X - v.X, Y: primary.Y - v.Y}
		}
	}
	d.state = st
	return true
}

// HandleMove feeds a pointer-move sample into the gesture. The first sample
// whose displacement from the start exceeds the threshold flips the gesture
// to dragging and emits exactly one start event; every sample while dragging
// emits an update.
func (d *DragManager) HandleMove(p Vec2) {
	st := d.state
	if st == nil {
		return
	}
	st.Current = p

	dx := p.X - st.Start.X
	dy := p.Y - st.Start.Y
	if !st.dragging {
		if dx*dx+dy*dy <= d.threshold*d.threshold {
			return
		}
		st.dragging = true
		if d.onActive != nil {
			d.onActive(true)
		}
		if d.bus != nil {
			d.bus.emitDragStart(DragStartEvent{
				ObjectIDs: append([]string(nil), st.ObjectIDs...),
				PageID:    st.PageID,
				Mode:      st.Mode,
				Handle:    st.Handle,
				Start:     st.Start,
			})
		}
	}

	if d.bus != nil {
		cur, _ := d.toViewport(st.PageID, p)
		d.bus.emitDragUpdate(DragUpdateEvent{
			ObjectIDs: append([]string(nil), st.ObjectIDs...),
			PageID:    st.PageID,
			Current:   cur,
			Delta:     Vec2{X: dx, Y: dy},
		})
	}
}

// HandleUp terminates the gesture. If it was dragging, one end event fires
// with the original transforms; below the threshold nothing fires at all —
// that silence is the click/drag discriminator.
func (d *DragManager) HandleUp(p Vec2) {
	st := d.state
	if st == nil {
		return
	}
	st.Current = p

	if st.dragging && d.bus != nil {
		start, _ := d.toViewport(st.PageID, st.Start)
		end, _ := d.toViewport(st.PageID, p)
		d.bus.emitDragEnd(DragEndEvent{
			ObjectIDs:          append([]string(nil), st.ObjectIDs...),
			PageID:             st.PageID,
			Mode:               st.Mode,
			Handle:             st.Handle,
			Start:              start,
			End:                end,
			OriginalTransforms: st.OriginalTransforms,
		})
	}
	d.finish(st)
}

// Cancel aborts the gesture. If it was dragging, a cancel event fires with
// the original transforms for caller-side rollback.
func (d *DragManager) Cancel() {
	st := d.state
	if st == nil {
		return
	}
	if st.dragging && d.bus != nil {
		d.bus.emitDragCancel(DragCancelEvent{
			ObjectIDs:          append([]string(nil), st.ObjectIDs...),
			PageID:             st.PageID,
			OriginalTransforms: st.OriginalTransforms,
		})
	}
	d.finish(st)
}

func (d *DragManager) finish(st *DragState) {
	if d.capturer != nil {
		d.capturer.Release(st.PointerID)
	}
	wasDragging := st.dragging
	d.state = nil
	if wasDragging && d.onActive != nil {
		d.onActive(false)
	}
}

// IsDragging reports whether a gesture has crossed the drag threshold.
func (d *DragManager) IsDragging() bool {
	return d.state != nil && d.state.dragging
}

// IsArmed reports whether a gesture is live, dragging or not.
func (d *DragManager) IsArmed() bool {
	return d.state != nil
}

// CurrentDrag returns a copy of the live drag state, if any. The transform
// map is shared read-only; callers must not mutate it.
func (d *DragManager) CurrentDrag() (DragState, bool) {
	if d.state == nil {
		return DragState{}, false
	}
	st := *d.state
	st.ObjectIDs = append([]string(nil), d.state.ObjectIDs...)
	return st, true
}

// GetLiveTransform returns the object's original transform offset by the
// gesture displacement (current − start), for uncommitted preview without
// touching persisted state. Pass a point to sample a hypothetical pointer
// position; nil uses the latest move sample.
func (d *DragManager) GetLiveTransform(id string, p *Vec2) (Transform, bool) {
	st := d.state
	if st == nil {
		return Transform{}, false
	}
	orig, ok := st.OriginalTransforms[id]
	if !ok {
		return Transform{}, false
	}

	cur := st.Current
	if p != nil {
		cur = *p
	}
	delta := d.viewportDelta(st.PageID, st.Start, cur)
	return orig.Translated(delta.X, delta.Y), true
}

// viewportDelta converts a screen-space displacement into viewport space.
// Without a converter the screen delta passes through unscaled.
func (d *DragManager) viewportDelta(pageID string, from, to Vec2) Vec2 {
	if d.convert != nil {
		a, okA := d.convert(pageID, from)
		b, okB := d.convert(pageID, to)
		if okA && okB {
			return Vec2{X: b.X - a.X, Y: b.Y - a.Y}
		}
	}
	return Vec2{X: to.X - from.X, Y: to.Y - from.Y}
}

// toViewport converts a screen point, falling back to the raw point when no
// converter is installed or the page has no extent.
func (d *DragManager) toViewport(pageID string, p Vec2) (Vec2, bool) {
	if d.convert != nil {
		if v, ok := d.convert(pageID, p); ok {
			return v, true
		}
	}
	return p, false
}
