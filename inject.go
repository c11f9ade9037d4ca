package linden

// InjectPress queues a synthetic pointer press at the given screen
// coordinates (left button, pointer 0). Queued events are consumed by the
// next Flush call, so scripted tests and demos can drive gestures without a
// real pointer.
func (s *Session) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{
		Phase: PhaseDown, X: x, Y: y, Button: PointerButtonLeft,
	})
}

// InjectMove queues a synthetic pointer move at the given screen
// coordinates. Use between InjectPress and InjectRelease to simulate a
// drag.
func (s *Session) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{
		Phase: PhaseMove, X: x, Y: y, Button: PointerButtonLeft,
	})
}

// InjectRelease queues a synthetic pointer release at the given screen
// coordinates.
func (s *Session) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{
		Phase: PhaseUp, X: x, Y: y, Button: PointerButtonLeft,
	})
}

// InjectCancel queues a synthetic pointer cancellation, the host-side abort
// that rolls back an in-flight gesture.
func (s *Session) InjectCancel() {
	s.injectQueue = append(s.injectQueue, PointerEvent{
		Phase: PhaseCancel, Button: PointerButtonLeft,
	})
}

// Flush drains the injected event queue through the normal pointer
// pipeline, in order. Events injected by handlers during the flush run in
// the same pass.
func (s *Session) Flush() {
	for len(s.injectQueue) > 0 {
		ev := s.injectQueue[0]
		s.injectQueue = s.injectQueue[1:]
		s.Pointer(ev)
	}
}
