package linden

import (
	"math"

	"github.com/google/uuid"
)

// --- Transforms ---

// Transform is an object placement in viewport space: X, Y, Width, and
// Height are normalized to [0, 1] relative to the page, Rotation is in
// radians around the object's center. Width and Height are always positive
// after any clamp operation in this package.
type Transform struct {
	X, Y, Width, Height float64
	Rotation            float64
}

// Bounds returns the unrotated axis-aligned footprint of the transform.
func (t Transform) Bounds() Rect {
	return Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// Center returns the center point of the transform.
func (t Transform) Center() Vec2 {
	return Vec2{X: t.X + t.Width/2, Y: t.Y + t.Height/2}
}

// Translated returns a copy of the transform moved by (dx, dy).
func (t Transform) Translated(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Corners returns the four corners of the transform in viewport space,
// rotated around the center. Order: top-left, top-right, bottom-right,
// bottom-left.
func (t Transform) Corners() [4]Vec2 {
	c := t.Center()
	sin, cos := math.Sincos(t.Rotation)
	rotate := func(x, y float64) Vec2 {
		dx := x - c.X
		dy := y - c.Y
		return Vec2{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
	return [4]Vec2{
		rotate(t.X, t.Y),
		rotate(t.X+t.Width, t.Y),
		rotate(t.X+t.Width, t.Y+t.Height),
		rotate(t.X, t.Y+t.Height),
	}
}

// AbsoluteTransform is the screen-pixel equivalent of a Transform, produced
// by the viewport engine for a concrete container size.
type AbsoluteTransform struct {
	X, Y, Width, Height float64
	Rotation            float64
}

// Bounds returns the unrotated axis-aligned footprint in pixels.
func (t AbsoluteTransform) Bounds() Rect {
	return Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// --- Page objects ---

// ObjectBehavior declares which interactions an object participates in.
// It is data, not code: the strategy registry maps behavior to gestures.
type ObjectBehavior struct {
	Draggable bool
	Resizable bool
	Editable  bool // inline content editing (text-like objects)
	Drawable  bool // accepts freehand strokes (drawing objects)
}

// ObjectConstraints limits how an object's geometry may change.
// Zero-valued minimums fall back to the viewport engine's minimum extent.
type ObjectConstraints struct {
	KeepAspect   bool
	LockRotation bool
	MinWidth     float64 // normalized, 0 = engine default
	MinHeight    float64 // normalized, 0 = engine default
}

// ObjectMetadata carries non-geometric bookkeeping. Version increments on
// every correction or content mutation so downstream sync can detect drift.
type ObjectMetadata struct {
	Version int
	Name    string
}

// Stroke is one freehand stroke in object-local coordinates (0..1 across the
// object's own bounds).
type Stroke struct {
	Points []Vec2
	Width  float64
	Color  string
}

// PageObject is a single manipulable element on a page. The Type tag closes
// the variant set; variant-specific interaction policy lives in the strategy
// registry keyed by that tag.
type PageObject struct {
	ID          string
	Type        ObjectType
	Transform   Transform
	ZIndex      int
	Behavior    ObjectBehavior
	Constraints ObjectConstraints
	Metadata    ObjectMetadata

	Content  string   // text variants
	Strokes  []Stroke // drawing variants
	Children []string // group variants: member object IDs
}

// NewObjectID returns a fresh unique object identifier.
func NewObjectID() string {
	return uuid.NewString()
}

// DefaultBehavior returns the stock interaction behavior for an object type.
// Tool definitions may override it.
func DefaultBehavior(t ObjectType) ObjectBehavior {
	switch t {
	case ObjectText:
		return ObjectBehavior{Draggable: true, Resizable: true, Editable: true}
	case ObjectDrawing:
		return ObjectBehavior{Draggable: true, Resizable: true, Drawable: true}
	case ObjectLine:
		return ObjectBehavior{Draggable: true}
	default:
		return ObjectBehavior{Draggable: true, Resizable: true}
	}
}

// ObjectPatch is a partial object update crossing the persistence boundary.
// Nil fields are left untouched; AddStrokes appends, RemoveStrokes drops
// that many strokes from the tail (undo of an append).
type ObjectPatch struct {
	Transform     *Transform
	ZIndex        *int
	Content       *string
	AddStrokes    []Stroke
	RemoveStrokes int
}

// Apply writes the patch into the object and bumps the metadata version.
func (o *PageObject) Apply(patch ObjectPatch) {
	if patch.Transform != nil {
		o.Transform = *patch.Transform
	}
	if patch.ZIndex != nil {
		o.ZIndex = *patch.ZIndex
	}
	if patch.Content != nil {
		o.Content = *patch.Content
	}
	if len(patch.AddStrokes) > 0 {
		o.Strokes = append(o.Strokes, patch.AddStrokes...)
	}
	if n := patch.RemoveStrokes; n > 0 {
		if n > len(o.Strokes) {
			n = len(o.Strokes)
		}
		o.Strokes = o.Strokes[:len(o.Strokes)-n]
	}
	o.Metadata.Version++
}

// --- Tool registry ---

// ToolID identifies a creation tool.
type ToolID string

// ToolNone means no tool is armed.
const ToolNone ToolID = ""

// ToolCategory groups tools by the kind of object they create.
type ToolCategory uint8

const (
	ToolCategoryText       ToolCategory = iota // text blocks
	ToolCategoryMedia                          // images and stickers
	ToolCategoryDrawing                        // freehand drawing surfaces
	ToolCategoryDecoration                     // lines, plants, ornaments
)

// ToolDefinition describes a creation tool supplied by the host. CreateObject
// must return an object conforming to the PageObject variant set; the session
// assigns the ID when the factory leaves it empty.
type ToolDefinition struct {
	ID          ToolID
	Category    ToolCategory
	DefaultSize Vec2 // normalized width/height of a freshly created object
	Behavior    ObjectBehavior
	Constraints ObjectConstraints

	CreateObject func(t Transform, data any) (*PageObject, error)
}

// ToolRegistry maps tool IDs to their definitions. Not safe for concurrent
// use; like the rest of the package it lives on the UI goroutine.
type ToolRegistry struct {
	tools map[ToolID]ToolDefinition
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[ToolID]ToolDefinition)}
}

// Register adds or replaces a tool definition.
// Panics if the definition has an empty ID or no factory.
func (r *ToolRegistry) Register(def ToolDefinition) {
	if def.ID == ToolNone {
		panic("linden: tool definition requires an ID")
	}
	if def.CreateObject == nil {
		panic("linden: tool definition requires a CreateObject factory")
	}
	r.tools[def.ID] = def
}

// Lookup returns the definition for id, and whether it is registered.
func (r *ToolRegistry) Lookup(id ToolID) (ToolDefinition, bool) {
	def, ok := r.tools[id]
	return def, ok
}
