package linden

// InteractionStrategy is the per-object-type interaction policy: which
// zones an object exposes and how a pointer-down on it is handled. A
// strategy that wants the coordinator to run the gesture selects its target
// and returns false from HandleInteraction — "what is draggable" stays
// data-level here, "how a drag begins" stays gesture-level in the
// coordinator. New object types declare zones; they never write gesture
// logic.
type InteractionStrategy interface {
	// Zones returns the object's interactive sub-regions in page-pixel
	// space, most specific first. The coordinator matches a hit point
	// against them in order.
	Zones(obj *PageObject, abs AbsoluteTransform, selected bool, engine *ViewportEngine) []Zone

	// HandleInteraction processes a pointer-down hit. Returning true consumes
	// the event; returning false delegates gesture start to the coordinator.
	HandleInteraction(hit HitResult, machine *StateMachine) bool
}

// --- Bounded objects ---

const defaultHandleSize = 12.0 // pixels, before touch expansion

// contentInset is the fraction of each axis reserved as the body border;
// the remainder is the content zone for editable objects.
const contentInset = 0.15

// BoundedObjectStrategy is the policy for rectangular objects: the body is
// always draggable, editable objects expose an inner content zone, and a
// selected resizable object exposes eight touch-expanded resize handles.
// Generic bounded objects and plants share one value of this strategy —
// identical behavior is one registration, not a subtype.
type BoundedObjectStrategy struct {
	HandleSize float64 // pixels; zero selects the default
}

// Zones returns handle zones (selected only), then the content zone
// (editable only), then the body.
func (s BoundedObjectStrategy) Zones(obj *PageObject, abs AbsoluteTransform, selected bool, engine *ViewportEngine) []Zone {
	var zones []Zone
	b := abs.Bounds()

	if selected && obj.Behavior.Resizable {
		size := s.HandleSize
		if size <= 0 {
			size = defaultHandleSize
		}
		for _, h := range handleAnchors {
			cx := b.X + b.Width*h.ax
			cy := b.Y + b.Height*h.ay
			r := Rect{X: cx - size/2, Y: cy - size/2, Width: size, Height: size}
			zones = append(zones, Zone{
				Type:        ZoneHandle,
				Handle:      h.kind,
				Bounds:      engine.ExpandTouchTarget(r),
				Interaction: InteractionResize,
				Cursor:      handleCursor(h.kind),
			})
		}
	}

	if obj.Behavior.Editable {
		zones = append(zones, Zone{
			Type: ZoneContent,
			Bounds: Rect{
				X:      b.X + b.Width*contentInset,
				Y:      b.Y + b.Height*contentInset,
				Width:  b.Width * (1 - 2*contentInset),
				Height: b.Height * (1 - 2*contentInset),
			},
			Interaction: InteractionEdit,
			Cursor:      "text",
		})
	}

	zones = append(zones, Zone{
		Type:        ZoneBody,
		Bounds:      b,
		Interaction: InteractionDrag,
		Cursor:      "move",
	})
	return zones
}

// HandleInteraction selects the hit object (multi-select with a held
// modifier) and delegates gesture start to the coordinator.
func (s BoundedObjectStrategy) HandleInteraction(hit HitResult, machine *StateMachine) bool {
	multi := hit.Event.Modifiers&(ModShift|ModMeta) != 0
	machine.SelectObjects([]string{hit.Object.ID}, multi)
	return false
}

// handleAnchors places the eight resize handles on the object's bounds.
var handleAnchors = []struct {
	kind   HandleKind
	ax, ay float64
}{
	{HandleNW, 0, 0},
	{HandleN, 0.5, 0},
	{HandleNE, 1, 0},
	{HandleE, 1, 0.5},
	{HandleSE, 1, 1},
	{HandleS, 0.5, 1},
	{HandleSW, 0, 1},
	{HandleW, 0, 0.5},
}

// handleCursor returns the CSS-style cursor hint for a resize handle.
func handleCursor(k HandleKind) string {
	switch k {
	case HandleNW, HandleSE:
		return "nwse-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	case HandleN, HandleS:
		return "ns-resize"
	case HandleE, HandleW:
		return "ew-resize"
	default:
		return "default"
	}
}

// --- Simple transforms ---

// SimpleTransformStrategy is the policy for objects that only move: a single
// body zone, never resizable, no content editing.
type SimpleTransformStrategy struct{}

// Zones returns the body zone only.
func (SimpleTransformStrategy) Zones(obj *PageObject, abs AbsoluteTransform, selected bool, engine *ViewportEngine) []Zone {
	return []Zone{{
		Type:        ZoneBody,
		Bounds:      abs.Bounds(),
		Interaction: InteractionDrag,
		Cursor:      "move",
	}}
}

// HandleInteraction selects the hit object and delegates to the coordinator.
func (SimpleTransformStrategy) HandleInteraction(hit HitResult, machine *StateMachine) bool {
	multi := hit.Event.Modifiers&(ModShift|ModMeta) != 0
	machine.SelectObjects([]string{hit.Object.ID}, multi)
	return false
}

// --- Registry ---

// StrategyRegistry maps object types to interaction strategies. Multiple
// types may share one strategy value.
type StrategyRegistry struct {
	strategies map[ObjectType]InteractionStrategy
}

// NewStrategyRegistry creates an empty registry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{strategies: make(map[ObjectType]InteractionStrategy)}
}

// Register binds a strategy to one or more object types.
func (r *StrategyRegistry) Register(s InteractionStrategy, types ...ObjectType) {
	for _, t := range types {
		r.strategies[t] = s
	}
}

// Lookup returns the strategy for an object type, and whether one is
// registered.
func (r *StrategyRegistry) Lookup(t ObjectType) (InteractionStrategy, bool) {
	s, ok := r.strategies[t]
	return s, ok
}

// DefaultStrategyRegistry returns the stock registry: bounded behavior for
// text, image, sticker, drawing, group, and plant (plant shares the bounded
// registration), simple transform for lines.
func DefaultStrategyRegistry() *StrategyRegistry {
	r := NewStrategyRegistry()
	bounded := BoundedObjectStrategy{}
	r.Register(bounded, ObjectText, ObjectImage, ObjectSticker, ObjectDrawing, ObjectGroup, ObjectPlant)
	r.Register(SimpleTransformStrategy{}, ObjectLine)
	return r
}
