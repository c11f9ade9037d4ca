package linden

// Vec2 is a 2D vector used for positions, offsets, sizes, and deltas
// throughout the API. Screen-space values are in pixels; viewport-space
// values are normalized to [0, 1] relative to a page.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// ObjectType distinguishes the page object variants. The set is closed;
// interaction behavior for each variant comes from the strategy registry,
// so new behavior never requires a new type here.
type ObjectType uint8

const (
	ObjectText    ObjectType = iota // editable text block
	ObjectImage                     // placed photo or imported image
	ObjectDrawing                   // freehand stroke container
	ObjectSticker                   // decorative sticker
	ObjectLine                      // straight line segment
	ObjectPlant                     // growable plant decoration
	ObjectGroup                     // grouped children moved as one
)

// String returns the lowercase name of the object type.
func (t ObjectType) String() string {
	switch t {
	case ObjectText:
		return "text"
	case ObjectImage:
		return "image"
	case ObjectDrawing:
		return "drawing"
	case ObjectSticker:
		return "sticker"
	case ObjectLine:
		return "line"
	case ObjectPlant:
		return "plant"
	case ObjectGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ZoneType identifies the kind of interactive sub-region of an object.
type ZoneType uint8

const (
	ZoneBody    ZoneType = iota // the object's full footprint; usually draggable
	ZoneContent                 // inner region that opens inline editing
	ZoneHandle                  // a resize handle; only present while selected
)

// HandleKind identifies which resize handle a handle zone represents.
type HandleKind uint8

const (
	HandleNone HandleKind = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// InteractionType is the gesture a zone maps to when the pointer goes down
// inside it.
type InteractionType uint8

const (
	InteractionDrag   InteractionType = iota // move the object
	InteractionResize                        // resize via a handle
	InteractionEdit                          // open inline content editing
)

// Zone is a named interactive sub-region of an object in page-pixel space,
// with the interaction it maps to and a cursor hint for the host.
type Zone struct {
	Type        ZoneType
	Handle      HandleKind
	Bounds      Rect
	Interaction InteractionType
	Cursor      string
}

// PointerButton identifies a pointer button.
type PointerButton uint8

const (
	PointerButtonLeft   PointerButton = iota // primary button / touch contact
	PointerButtonRight                       // secondary button
	PointerButtonMiddle                      // middle button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// PointerPhase identifies where in its lifecycle a pointer event sits.
type PointerPhase uint8

const (
	PhaseDown   PointerPhase = iota // button pressed / touch began
	PhaseMove                       // pointer moved
	PhaseUp                         // button released / touch ended
	PhaseCancel                     // input stream aborted by the host
)

// PointerEvent is a single pointer sample in screen-pixel coordinates.
// The host input layer is responsible for delivering a terminating PhaseUp
// or PhaseCancel for every PhaseDown once a pointer is captured.
type PointerEvent struct {
	Phase     PointerPhase
	PointerID int
	X, Y      float64
	Button    PointerButton
	Modifiers KeyModifiers
}

// EventType identifies a kind of session event on the bus.
type EventType uint8

const (
	EventSelectionChanged EventType = iota // selection set changed
	EventStateChanged                      // interaction state machine moved
	EventDragStart                         // movement exceeded the drag threshold
	EventDragUpdate                        // pointer moved while dragging
	EventDragEnd                           // drag committed
	EventDragCancel                        // drag rolled back
	EventTextEditStart                     // inline content editing requested
	EventObjectCreated                     // a tool factory produced an object
	EventDragRequested                     // a strategy asked the coordinator to arm a drag
	EventSafeZoneReport                    // a page audit produced violations
	EventHistoryChanged                    // undo/redo stack moved
)
