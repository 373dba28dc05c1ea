package animation

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/milk9111/clippit/dispatch"
)

// ErrNotStarted is returned by Wait when Start has not been called.
var ErrNotStarted = errors.New("animation: scheduler not started")

// PlaybackState is the scheduler's view of what is playing. Clip and Frame
// point into the immutable catalog.
type PlaybackState struct {
	Mode       Mode
	Clip       *Clip
	FrameIndex int
	Frame      *Frame
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand makes clip selection draw from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.intn = r.IntN
		}
	}
}

// WithClock replaces the timer used between frames.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for lag diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler plays clips from a catalog on its own goroutine. It switches to
// the active pool when a question is asked and back to idle when it is
// answered, abandoning whatever clip was playing.
type Scheduler struct {
	catalog *Catalog
	bus     *dispatch.Bus
	clock   Clock
	intn    func(int) int
	logger  *log.Logger

	mu      sync.Mutex
	state   PlaybackState
	started bool
	cursor  *dispatch.Cursor

	done chan struct{}
	err  error
}

// NewScheduler validates catalog and returns a scheduler that is not yet
// running.
func NewScheduler(catalog *Catalog, bus *dispatch.Bus, opts ...Option) (*Scheduler, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, errors.New("animation: nil bus")
	}
	s := &Scheduler{
		catalog: catalog,
		bus:     bus,
		clock:   realClock{},
		intn:    rand.IntN,
		logger:  log.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the catalog the scheduler plays from.
func (s *Scheduler) Catalog() *Catalog {
	return s.catalog
}

// Start subscribes to the bus and launches the playback loop. Calls after the
// first are no-ops.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.attach() {
		return
	}
	go s.run(ctx)
}

// attach subscribes the scheduler. It returns false if that already happened.
func (s *Scheduler) attach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return false
	}
	s.started = true
	s.cursor = s.bus.Subscribe()
	return true
}

// Started reports whether Start has been called.
func (s *Scheduler) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Done is closed when the loop exits.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the loop exits and returns why it did.
func (s *Scheduler) Wait() error {
	if !s.Started() {
		return ErrNotStarted
	}
	<-s.done
	return s.err
}

// State returns a copy of the playback state.
func (s *Scheduler) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	defer s.cursor.Close()

	for {
		if err := ctx.Err(); err != nil {
			s.err = err
			return
		}

		wait, restart, err := s.step()
		if err != nil {
			s.err = err
			return
		}
		if restart {
			continue
		}

		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case <-s.clock.After(wait):
		}
	}
}

// step runs one loop iteration. restart means the iteration produced no frame
// and the next one should run immediately; otherwise wait is how long the
// emitted frame stays on screen.
func (s *Scheduler) step() (wait time.Duration, restart bool, err error) {
	forced, err := s.poll()
	if err != nil {
		return 0, false, err
	}

	var started string

	s.mu.Lock()
	if forced != nil {
		s.state.Mode = *forced
		s.state.Clip = nil
		s.state.FrameIndex = 0
		s.mu.Unlock()
		return 0, true, nil
	}

	if s.state.Clip == nil {
		clip, err := s.pick(s.state.Mode)
		if err != nil {
			s.mu.Unlock()
			return 0, false, err
		}
		s.state.Clip = clip
		s.state.FrameIndex = 0
		started = clip.Name
	}

	clip := s.state.Clip
	if s.state.FrameIndex > len(clip.Frames)-1 {
		s.state.Clip = nil
		s.state.FrameIndex = 0
		s.mu.Unlock()
		return 0, true, nil
	}
	if s.state.FrameIndex < 0 {
		panic("animation: negative frame index")
	}

	frame := &clip.Frames[s.state.FrameIndex]
	s.state.Frame = frame
	s.state.FrameIndex++
	if s.state.FrameIndex == len(clip.Frames) {
		// Clip exhausted: the next iteration picks again.
		s.state.Clip = nil
		s.state.FrameIndex = 0
	}
	s.mu.Unlock()

	if started != "" {
		if err := s.publish(dispatch.NewAnimationStarted{Name: started}); err != nil {
			return 0, false, err
		}
	}
	if err := s.publish(dispatch.NewFrameToRender{}); err != nil {
		return 0, false, err
	}
	return time.Duration(frame.Duration) * time.Millisecond, false, nil
}

// poll reads the pending events up to and including the first question or
// answer, and reports the mode it forces, if any. Other events carry nothing
// for the scheduler and are skipped, so a mode change is never queued behind
// the scheduler's own frame notifications.
func (s *Scheduler) poll() (*Mode, error) {
	for {
		ev, err := s.cursor.TryRecv()
		if err != nil {
			if errors.Is(err, dispatch.ErrEmpty) {
				return nil, nil
			}
			if missed, ok := dispatch.IsLagged(err); ok {
				s.logger.Printf("animation: scheduler lagged, %d events missed", missed)
				continue
			}
			return nil, err
		}

		var mode Mode
		switch ev.(type) {
		case dispatch.AskQuestion:
			mode = ModeActive
		case dispatch.RespondToQuestion:
			mode = ModeIdle
		default:
			continue
		}
		return &mode, nil
	}
}

// pick chooses a clip uniformly at random from the pool for mode. Callers
// hold s.mu.
func (s *Scheduler) pick(mode Mode) (*Clip, error) {
	pool := s.catalog.Pool(mode)
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return &pool[s.intn(len(pool))], nil
}

func (s *Scheduler) publish(ev dispatch.Event) error {
	err := s.bus.Publish(ev)
	if errors.Is(err, dispatch.ErrClosed) {
		return err
	}
	return nil
}
