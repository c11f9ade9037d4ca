package linden

import (
	"errors"
	"math"
	"testing"
)

// --- Shared fixtures ---

// fixedElement is a PageElement with static geometry, the stand-in for a
// host-rendered page in tests.
type fixedElement struct {
	rect Rect
	dpr  float64
}

func (e *fixedElement) Bounds() Rect { return e.rect }

func (e *fixedElement) DevicePixelRatio() float64 {
	if e.dpr == 0 {
		return 1
	}
	return e.dpr
}

// recorderStore records persistence traffic in call order.
type recorderStore struct {
	updates []string
	patches []ObjectPatch
	deletes []string
}

func (r *recorderStore) HandleObjectUpdate(id string, patch ObjectPatch) {
	r.updates = append(r.updates, id)
	r.patches = append(r.patches, patch)
}

func (r *recorderStore) HandleObjectDelete(id string) {
	r.deletes = append(r.deletes, id)
}

// recordingCapturer records capture/release pairs and can be made to refuse.
type recordingCapturer struct {
	captured []int
	released []int
	fail     bool
}

func (c *recordingCapturer) Capture(id int) error {
	if c.fail {
		return errors.New("capture refused")
	}
	c.captured = append(c.captured, id)
	return nil
}

func (c *recordingCapturer) Release(id int) {
	c.released = append(c.released, id)
}

// errTestFactory is the stock failure for tool-factory tests.
var errTestFactory = errors.New("factory refused")

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertApprox(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approx(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- Rect ---

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 60, 45, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left of", 9, 45, false},
		{"above", 60, 19, false},
		{"right of", 111, 45, false},
		{"below", 60, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"contained", Rect{X: 2, Y: 2, Width: 4, Height: 4}, true},
		{"edge-adjacent", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"disjoint", Rect{X: 11, Y: 11, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("Intersects is not symmetric for %v", tt.b)
			}
		})
	}
}

// --- Enum names ---

func TestObjectTypeString(t *testing.T) {
	tests := []struct {
		typ  ObjectType
		want string
	}{
		{ObjectText, "text"},
		{ObjectImage, "image"},
		{ObjectDrawing, "drawing"},
		{ObjectSticker, "sticker"},
		{ObjectLine, "line"},
		{ObjectPlant, "plant"},
		{ObjectGroup, "group"},
		{ObjectType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("ObjectType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestStateAndTriggerStrings(t *testing.T) {
	if got := StateToolActive.String(); got != "toolActive" {
		t.Errorf("StateToolActive.String() = %q", got)
	}
	if got := State(99).String(); got != "unknown" {
		t.Errorf("unknown state String() = %q", got)
	}
	if got := TriggerStartDrawing.String(); got != "startDrawing" {
		t.Errorf("TriggerStartDrawing.String() = %q", got)
	}
	if got := Trigger(99).String(); got != "unknown" {
		t.Errorf("unknown trigger String() = %q", got)
	}
}
