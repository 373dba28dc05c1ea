package reducer

import "sync/atomic"

// Redrawer is the render surface's "please repaint" hook.
type Redrawer interface {
	RequestRedraw()
}

// RedrawFunc adapts a plain function to Redrawer.
type RedrawFunc func()

func (f RedrawFunc) RequestRedraw() { f() }

// Signal is a coalescing redraw flag. Any number of requests between two
// Consume calls count as one.
type Signal struct {
	dirty atomic.Bool
}

func (s *Signal) RequestRedraw() {
	s.dirty.Store(true)
}

// Consume reports whether a redraw was requested and clears the request.
func (s *Signal) Consume() bool {
	return s.dirty.Swap(false)
}
