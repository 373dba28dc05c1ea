// Package reducer folds bus events into the snapshot the UI renders from.
package reducer

import (
	"context"
	"log"
	"sync"

	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/dispatch"
	"github.com/milk9111/clippit/history"
)

// Snapshot is what the UI needs to draw one frame.
type Snapshot struct {
	// QuestionField mirrors the text input. The widget owns the editing
	// buffer while the user types; the view resets it from here when a
	// question is asked.
	QuestionField    string
	Mode             animation.Mode
	CurrentAnimation string
	History          []history.Entry
	// Answered counts answers folded in since start. It keeps moving after
	// History reaches its cap.
	Answered int
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithHistory seeds the snapshot with previously answered questions.
func WithHistory(entries []history.Entry) Option {
	return func(r *Reducer) {
		r.snap.History = append([]history.Entry(nil), entries...)
	}
}

// WithHistoryLimit keeps only the newest n entries in the snapshot. n <= 0
// means no cap.
func WithHistoryLimit(n int) Option {
	return func(r *Reducer) {
		r.limit = n
	}
}

// WithLogger sets the logger used for lag diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Reducer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Reducer owns the UI snapshot. Only the reducer mutates it; readers get
// copies through Snapshot.
type Reducer struct {
	redraw Redrawer
	cursor *dispatch.Cursor
	logger *log.Logger
	limit  int

	mu   sync.Mutex
	snap Snapshot
}

// New subscribes a reducer to bus. redraw is poked after every event and may
// be nil.
func New(bus *dispatch.Bus, redraw Redrawer, opts ...Option) *Reducer {
	if redraw == nil {
		redraw = RedrawFunc(func() {})
	}
	r := &Reducer{
		redraw: redraw,
		cursor: bus.Subscribe(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.trimHistory()
	return r
}

// Apply folds one event into the snapshot and requests a redraw.
func (r *Reducer) Apply(ev dispatch.Event) {
	r.mu.Lock()
	switch e := ev.(type) {
	case dispatch.AskQuestion:
		r.snap.QuestionField = ""
		r.snap.Mode = animation.ModeActive
	case dispatch.RespondToQuestion:
		r.snap.Mode = animation.ModeIdle
		r.snap.History = append(r.snap.History, history.Entry{Question: e.Question, Answer: e.Answer})
		r.trimHistory()
		r.snap.Answered++
	case dispatch.QuestionTextChanged:
		r.snap.QuestionField = e.Text
	case dispatch.NewAnimationStarted:
		r.snap.CurrentAnimation = e.Name
	case dispatch.NewFrameToRender:
	}
	r.mu.Unlock()

	r.redraw.RequestRedraw()
}

// Run applies events until ctx is done or the bus closes. Lag is logged and
// otherwise ignored: the mode always follows the latest question or answer
// that did arrive.
func (r *Reducer) Run(ctx context.Context) error {
	defer r.cursor.Close()

	for {
		ev, err := r.cursor.Recv(ctx)
		if err != nil {
			if missed, ok := dispatch.IsLagged(err); ok {
				r.logger.Printf("reducer: lagged, %d events missed", missed)
				continue
			}
			return err
		}
		r.Apply(ev)
	}
}

func (r *Reducer) trimHistory() {
	if r.limit > 0 && len(r.snap.History) > r.limit {
		r.snap.History = append([]history.Entry(nil), r.snap.History[len(r.snap.History)-r.limit:]...)
	}
}

// Snapshot returns a copy of the current snapshot.
func (r *Reducer) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.snap
	s.History = append([]history.Entry(nil), r.snap.History...)
	return s
}
