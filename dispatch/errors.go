package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned once the bus (or the cursor) has been closed and
	// nothing is left to read.
	ErrClosed = errors.New("dispatch: bus closed")
	// ErrEmpty is returned by TryRecv when no event is pending.
	ErrEmpty = errors.New("dispatch: no pending event")
	// ErrNoSubscribers is returned by Publish when nobody is listening. The
	// event is discarded.
	ErrNoSubscribers = errors.New("dispatch: no subscribers")
)

// LagError reports that a cursor fell behind the bus capacity and Missed
// events were overwritten before it could read them. The cursor has already
// been moved to the oldest surviving event.
type LagError struct {
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("dispatch: subscriber lagged, %d events missed", e.Missed)
}

// IsLagged reports whether err is a *LagError and, if so, how many events were
// missed.
func IsLagged(err error) (uint64, bool) {
	var lag *LagError
	if errors.As(err, &lag) {
		return lag.Missed, true
	}
	return 0, false
}
