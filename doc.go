// Package linden is the direct-manipulation interaction engine for
// scrapbook-style canvas editors.
//
// Linden decides whether an interaction is currently legal and what
// geometric or command effect it produces: placing, selecting, dragging,
// resizing, and freehand-drawing page objects, with safe-zone enforcement
// and command-pattern undo/redo. It renders nothing and stores nothing —
// hosts supply page geometry and persistence, and observe results through
// the session event bus.
//
// # Quick start
//
// Create a [Session] over the host's canvas element, register pages and
// objects, and feed it pointer events:
//
//	session := linden.NewSession(linden.SessionConfig{
//		Root:        canvas,
//		Persistence: store,
//	})
//	defer session.Close()
//
//	session.AddPage("page-1", pageElement)
//	session.AddObject("page-1", &linden.PageObject{
//		Type:      linden.ObjectSticker,
//		Transform: linden.Transform{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2},
//	})
//
//	session.EnterEditMode()
//	session.Pointer(linden.PointerEvent{Phase: linden.PhaseDown, X: 320, Y: 240})
//
// During a drag, renderers poll [DragManager.GetLiveTransform] per frame
// for uncommitted preview; committed changes arrive as [ObjectPatch] values
// on the [Persistence] interface and as events on [Session.Bus].
//
// # Architecture
//
// A [Session] owns one instance of each component and wires them together:
// the [ViewportEngine] converts between screen pixels and normalized page
// coordinates, the [StateMachine] gates legality, per-type
// [InteractionStrategy] values declare interactive zones, the [Coordinator]
// hit-tests and routes, the [DragManager] discriminates clicks from drags,
// the [SafeZoneManager] audits placement, and the [HistoryManager] records
// reversible commands. The [EventBus] is session-scoped — concurrent
// sessions never cross-talk.
//
// Everything runs on the caller's goroutine; the package has no locks and
// no global state beyond the warning sink.
package linden
