package linden

import (
	"math"
	"strconv"
	"time"
)

// PageElement supplies the current on-screen geometry of a rendered page.
// Implementations come from the host renderer; tests use fixed rectangles.
type PageElement interface {
	// Bounds returns the screen-pixel rectangle the page currently occupies.
	Bounds() Rect
	// DevicePixelRatio returns the display scale factor for the page.
	DevicePixelRatio() float64
}

// ViewportConfig tunes the coordinate engine. Zero values select defaults.
type ViewportConfig struct {
	MinExtent        float64       // minimum normalized object extent (default 0.02)
	SafeZoneMin      float64       // safe zone lower margin (default 0.05)
	SafeZoneMax      float64       // safe zone upper margin (default 0.95)
	MinTouchTarget   float64       // minimum touch target in pixels (default 44)
	TouchExpandRatio float64       // expansion ratio for small targets (default 1.5)
	CacheTTL         time.Duration // bounds cache entry lifetime (default 5s)
	CacheMaxEntries  int           // bounds cache capacity (default 50)
}

func (c *ViewportConfig) applyDefaults() {
	if c.MinExtent <= 0 {
		c.MinExtent = 0.02
	}
	if c.SafeZoneMin <= 0 {
		c.SafeZoneMin = 0.05
	}
	if c.SafeZoneMax <= 0 {
		c.SafeZoneMax = 0.95
	}
	if c.MinTouchTarget <= 0 {
		c.MinTouchTarget = 44
	}
	if c.TouchExpandRatio <= 0 {
		c.TouchExpandRatio = 1.5
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Second
	}
	if c.CacheMaxEntries <= 0 {
		c.CacheMaxEntries = 50
	}
}

// boundsEntry is one cached page-bounds lookup.
type boundsEntry struct {
	rect Rect
	at   time.Time
}

// ViewportEngine converts between screen-pixel space and normalized page
// viewport space, enforces geometric minimums, and caches page bounds
// lookups. All conversions sanitize non-finite inputs to documented
// fallbacks; nothing here throws mid-gesture.
type ViewportEngine struct {
	root PageElement
	cfg  ViewportConfig

	cache     map[string]boundsEntry
	lastSweep time.Time
	now       func() time.Time // swappable clock for cache tests
}

// NewViewportEngine creates a coordinate engine rooted at the editor's
// canvas element. Panics if root is nil or has zero extent — a
// programming-contract violation, and the only construction-time failure in
// the package.
func NewViewportEngine(root PageElement, cfg ViewportConfig) *ViewportEngine {
	if root == nil {
		panic("linden: viewport engine requires a root element")
	}
	b := root.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		panic("linden: viewport engine root element has zero extent")
	}
	cfg.applyDefaults()
	return &ViewportEngine{
		root:  root,
		cfg:   cfg,
		cache: make(map[string]boundsEntry),
		now:   time.Now,
	}
}

// Config returns the engine's effective configuration after defaults.
func (e *ViewportEngine) Config() ViewportConfig {
	return e.cfg
}

// MinExtent returns the minimum normalized object extent.
func (e *ViewportEngine) MinExtent() float64 {
	return e.cfg.MinExtent
}

// SafeZone returns the safe-zone rectangle in viewport space.
func (e *ViewportEngine) SafeZone() Rect {
	return Rect{
		X:      e.cfg.SafeZoneMin,
		Y:      e.cfg.SafeZoneMin,
		Width:  e.cfg.SafeZoneMax - e.cfg.SafeZoneMin,
		Height: e.cfg.SafeZoneMax - e.cfg.SafeZoneMin,
	}
}

// --- Conversions ---

// ScreenToViewport converts a screen-pixel point to the element's normalized
// viewport space. Returns ok=false if the element has zero extent; the
// conversion is a pure function of the element's current bounds.
func (e *ViewportEngine) ScreenToViewport(p Vec2, el PageElement) (Vec2, bool) {
	b := el.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return Vec2{}, false
	}
	v := Vec2{
		X: finiteOr((p.X-b.X)/b.Width, 0),
		Y: finiteOr((p.Y-b.Y)/b.Height, 0),
	}
	return v, true
}

// ViewportToAbsolute converts a viewport transform to pixel space for the
// given container size. Width and height are clamped so no interactive
// target collapses below MinExtent of the container, and position is clamped
// non-negative. Non-finite inputs fall back to zero position and minimum
// size.
func (e *ViewportEngine) ViewportToAbsolute(t Transform, container Size) AbsoluteTransform {
	minW := e.cfg.MinExtent * container.Width
	minH := e.cfg.MinExtent * container.Height

	x := finiteOr(t.X, 0) * container.Width
	y := finiteOr(t.Y, 0) * container.Height
	w := finiteOr(t.Width, e.cfg.MinExtent) * container.Width
	h := finiteOr(t.Height, e.cfg.MinExtent) * container.Height

	return AbsoluteTransform{
		X:        math.Max(finiteOr(x, 0), 0),
		Y:        math.Max(finiteOr(y, 0), 0),
		Width:    math.Max(finiteOr(w, minW), minW),
		Height:   math.Max(finiteOr(h, minH), minH),
		Rotation: finiteOr(t.Rotation, 0),
	}
}

// ConstrainToSafeZone clips a transform into the safe-zone rectangle. Size
// is clamped first (into [0.01, safe-zone extent]), then position so the
// object stays fully inside. Width/Height remain positive afterward.
func (e *ViewportEngine) ConstrainToSafeZone(t Transform) Transform {
	lo := e.cfg.SafeZoneMin
	hi := e.cfg.SafeZoneMax
	extent := hi - lo

	w := clamp(finiteOr(t.Width, e.cfg.MinExtent), 0.01, extent)
	h := clamp(finiteOr(t.Height, e.cfg.MinExtent), 0.01, extent)
	x := clamp(finiteOr(t.X, lo), lo, hi-w)
	y := clamp(finiteOr(t.Y, lo), lo, hi-h)

	return Transform{X: x, Y: y, Width: w, Height: h, Rotation: finiteOr(t.Rotation, 0)}
}

// ExpandTouchTarget expands a pixel-space hit region to a comfortable touch
// size. Per axis: targets already at MinTouchTarget are unchanged; smaller
// targets grow to the larger of the minimum and TouchExpandRatio times their
// current extent, centered on the original region.
func (e *ViewportEngine) ExpandTouchTarget(b Rect) Rect {
	out := b
	if b.Width < e.cfg.MinTouchTarget {
		target := math.Max(e.cfg.MinTouchTarget, b.Width*e.cfg.TouchExpandRatio)
		out.X -= (target - b.Width) / 2
		out.Width = target
	}
	if b.Height < e.cfg.MinTouchTarget {
		target := math.Max(e.cfg.MinTouchTarget, b.Height*e.cfg.TouchExpandRatio)
		out.Y -= (target - b.Height) / 2
		out.Height = target
	}
	return out
}

// --- Bounds cache ---

// PageBounds returns the page element's screen rectangle rounded to whole
// pixels. Cache entries are keyed by page ID, rounded rect, and
// device-pixel-ratio, so a layout change is a miss rather than a stale hit.
// Entries expire after CacheTTL; eviction is lazy, running at most once per
// half-TTL.
func (e *ViewportEngine) PageBounds(pageID string, el PageElement) Rect {
	now := e.now()
	e.maybeEvict(now)

	r := roundRect(el.Bounds())
	key := boundsKey(pageID, r, el.DevicePixelRatio())
	if ent, ok := e.cache[key]; ok && now.Sub(ent.at) < e.cfg.CacheTTL {
		return ent.rect
	}

	e.cache[key] = boundsEntry{rect: r, at: now}
	return r
}

// boundsKey builds the cache key for a page's rounded rect at a scale. The
// rect components are whole pixels by the time they arrive here.
func boundsKey(pageID string, r Rect, dpr float64) string {
	return pageID + "|" +
		strconv.FormatFloat(r.X, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.Y, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.Width, 'g', -1, 64) + "," +
		strconv.FormatFloat(r.Height, 'g', -1, 64) + "|" +
		strconv.FormatFloat(dpr, 'g', -1, 64)
}

// InvalidatePage drops all cached bounds for a page. Hosts call this when
// layout changes faster than the TTL (e.g. a window resize mid-gesture).
func (e *ViewportEngine) InvalidatePage(pageID string) {
	prefix := pageID + "|"
	for key := range e.cache {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(e.cache, key)
		}
	}
}

// maybeEvict removes expired entries, then the oldest entries until the
// cache is under capacity. Runs at most once per half-TTL.
func (e *ViewportEngine) maybeEvict(now time.Time) {
	if now.Sub(e.lastSweep) < e.cfg.CacheTTL/2 {
		return
	}
	e.lastSweep = now

	for key, ent := range e.cache {
		if now.Sub(ent.at) >= e.cfg.CacheTTL {
			delete(e.cache, key)
		}
	}
	for len(e.cache) > e.cfg.CacheMaxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, ent := range e.cache {
			if oldestKey == "" || ent.at.Before(oldestAt) {
				oldestKey = key
				oldestAt = ent.at
			}
		}
		delete(e.cache, oldestKey)
	}
}

// --- Helpers ---

// finiteOr replaces NaN and ±Inf with a fallback value.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundRect rounds a rectangle's components to whole pixels.
func roundRect(r Rect) Rect {
	return Rect{
		X:      math.Round(r.X),
		Y:      math.Round(r.Y),
		Width:  math.Round(r.Width),
		Height: math.Round(r.Height),
	}
}
