package linden

import "fmt"

// ViolationType classifies a safe-zone placement problem.
type ViolationType uint8

const (
	ViolationOutside  ViolationType = iota // beyond the page's extended bounds
	ViolationPartial                       // crosses the safe-zone rectangle or oversize
	ViolationTooSmall                      // below the engine's minimum extent
)

// String returns the violation type's name.
func (v ViolationType) String() string {
	switch v {
	case ViolationOutside:
		return "outside"
	case ViolationPartial:
		return "partial"
	case ViolationTooSmall:
		return "tooSmall"
	default:
		return "unknown"
	}
}

// ViolationSeverity ranks a violation.
type ViolationSeverity uint8

const (
	SeverityWarning ViolationSeverity = iota // auto-fixed in place
	SeverityError                            // object dropped
)

// SafeZoneViolation is one transient finding from a page audit. It is not
// persisted beyond the report.
type SafeZoneViolation struct {
	ObjectID          string
	Type              ViolationType
	Severity          ViolationSeverity
	AutoFixable       bool
	OriginalTransform Transform
}

// SafeZoneReport summarizes one audit call.
type SafeZoneReport struct {
	PageID             string
	Violations         []SafeZoneViolation
	RemovedObjectIDs   []string
	CorrectedObjectIDs []string
	Summary            string // human-readable; empty when the page was clean
}

// SafeZoneConfig tunes the audit bounds. DropBound and RecoverBound are
// deliberately separate constants: the near test uses a wider rectangle
// than the recoverability test, and the two must stay independently
// configurable until product settles whether they should agree.
type SafeZoneConfig struct {
	DropBound    Rect    // near test; default [-0.5, 1.5]²
	RecoverBound Rect    // corner recoverability test; default [-0.3, 1.3]²
	MaxExtent    float64 // oversize threshold as a page fraction; default 0.8
}

func (c *SafeZoneConfig) applyDefaults() {
	if c.DropBound.Width <= 0 {
		c.DropBound = Rect{X: -0.5, Y: -0.5, Width: 2, Height: 2}
	}
	if c.RecoverBound.Width <= 0 {
		c.RecoverBound = Rect{X: -0.3, Y: -0.3, Width: 1.6, Height: 1.6}
	}
	if c.MaxExtent <= 0 {
		c.MaxExtent = 0.8
	}
}

// SafeZoneManager validates and auto-corrects object placement against
// page-relative bounds. It never mutates page contents directly — callers
// replace a page's objects with the returned clean slice.
type SafeZoneManager struct {
	cfg SafeZoneConfig
	bus *EventBus
}

// NewSafeZoneManager creates a manager publishing reports to bus (which may
// be nil).
func NewSafeZoneManager(bus *EventBus, cfg SafeZoneConfig) *SafeZoneManager {
	cfg.applyDefaults()
	return &SafeZoneManager{cfg: cfg, bus: bus}
}

// AuditPageObjects classifies every object's placement, fixes what it can,
// and drops what it cannot. Recoverable objects are corrected in place with
// their metadata version incremented; irrecoverable ones are excluded from
// the returned slice. A report event fires when any violation occurred.
func (m *SafeZoneManager) AuditPageObjects(pageID string, objects []*PageObject, engine *ViewportEngine) (SafeZoneReport, []*PageObject) {
	report := SafeZoneReport{PageID: pageID}
	clean := make([]*PageObject, 0, len(objects))

	for _, obj := range objects {
		t := obj.Transform
		corners := t.Corners()

		// Irrecoverable: every corner beyond the recover bound. Checked
		// unconditionally so objects in the ring between the recover and
		// drop bounds are dropped, not clamped.
		if !anyCornerInside(corners, m.cfg.RecoverBound) {
			report.Violations = append(report.Violations, SafeZoneViolation{
				ObjectID:          obj.ID,
				Type:              ViolationOutside,
				Severity:          SeverityError,
				AutoFixable:       false,
				OriginalTransform: t,
			})
			report.RemovedObjectIDs = append(report.RemovedObjectIDs, obj.ID)
			continue
		}

		if anyCornerOutside(corners, m.cfg.DropBound) {
			report.Violations = append(report.Violations, SafeZoneViolation{
				ObjectID:          obj.ID,
				Type:              ViolationOutside,
				Severity:          SeverityWarning,
				AutoFixable:       true,
				OriginalTransform: t,
			})
			m.correct(obj, engine)
			report.CorrectedObjectIDs = append(report.CorrectedObjectIDs, obj.ID)
			clean = append(clean, obj)
			continue
		}

		fixed := false
		min := engine.MinExtent()
		if t.Width < min || t.Height < min {
			report.Violations = append(report.Violations, SafeZoneViolation{
				ObjectID:          obj.ID,
				Type:              ViolationTooSmall,
				Severity:          SeverityWarning,
				AutoFixable:       true,
				OriginalTransform: t,
			})
			fixed = true
		}
		if t.Width > m.cfg.MaxExtent || t.Height > m.cfg.MaxExtent {
			report.Violations = append(report.Violations, SafeZoneViolation{
				ObjectID:          obj.ID,
				Type:              ViolationPartial,
				Severity:          SeverityWarning,
				AutoFixable:       true,
				OriginalTransform: t,
			})
			fixed = true
		}
		if !fixed && !rectInside(t.Bounds(), engine.SafeZone()) {
			report.Violations = append(report.Violations, SafeZoneViolation{
				ObjectID:          obj.ID,
				Type:              ViolationPartial,
				Severity:          SeverityWarning,
				AutoFixable:       true,
				OriginalTransform: t,
			})
			fixed = true
		}

		if fixed {
			m.correct(obj, engine)
			report.CorrectedObjectIDs = append(report.CorrectedObjectIDs, obj.ID)
		}
		clean = append(clean, obj)
	}

	if len(report.Violations) > 0 {
		report.Summary = auditSummary(pageID, len(report.CorrectedObjectIDs), len(report.RemovedObjectIDs))
		if m.bus != nil {
			m.bus.emitSafeZoneReport(SafeZoneReportEvent{Report: report})
		}
	}
	return report, clean
}

// correct re-clamps an object into legal placement: grow to the engine
// minimum, cap at the oversize threshold, then constrain into the safe
// zone. Bumps the metadata version so sync layers see the change.
func (m *SafeZoneManager) correct(obj *PageObject, engine *ViewportEngine) {
	t := obj.Transform
	min := engine.MinExtent()
	if t.Width < min {
		t.Width = min
	}
	if t.Height < min {
		t.Height = min
	}
	if t.Width > m.cfg.MaxExtent {
		t.Width = m.cfg.MaxExtent
	}
	if t.Height > m.cfg.MaxExtent {
		t.Height = m.cfg.MaxExtent
	}
	obj.Transform = engine.ConstrainToSafeZone(t)
	obj.Metadata.Version++
}

func auditSummary(pageID string, corrected, removed int) string {
	switch {
	case corrected > 0 && removed > 0:
		return fmt.Sprintf("page %s: repositioned %d object(s), removed %d unrecoverable object(s)", pageID, corrected, removed)
	case removed > 0:
		return fmt.Sprintf("page %s: removed %d unrecoverable object(s)", pageID, removed)
	default:
		return fmt.Sprintf("page %s: repositioned %d object(s)", pageID, corrected)
	}
}

func anyCornerOutside(corners [4]Vec2, bound Rect) bool {
	for _, c := range corners {
		if !bound.Contains(c.X, c.Y) {
			return true
		}
	}
	return false
}

func anyCornerInside(corners [4]Vec2, bound Rect) bool {
	for _, c := range corners {
		if bound.Contains(c.X, c.Y) {
			return true
		}
	}
	return false
}

// rectInside reports whether inner lies fully within outer.
func rectInside(inner, outer Rect) bool {
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.X+inner.Width <= outer.X+outer.Width &&
		inner.Y+inner.Height <= outer.Y+outer.Height
}
