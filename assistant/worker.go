package assistant

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/milk9111/clippit/dispatch"
	"golang.org/x/sync/errgroup"
)

const queueSize = 8

// Retry bounds how often a failed Respond is tried again.
type Retry struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultRetry is used when a worker is built without WithRetry.
var DefaultRetry = Retry{Attempts: 3, Initial: 250 * time.Millisecond, Max: 4 * time.Second}

// Backoff is the wait before the given retry; attempt 1 is the first retry.
func (r Retry) Backoff(attempt int) time.Duration {
	if attempt < 1 || r.Initial <= 0 {
		return 0
	}
	d := r.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if r.Max > 0 && d >= r.Max {
			return r.Max
		}
	}
	if r.Max > 0 && d > r.Max {
		return r.Max
	}
	return d
}

func (r Retry) attempts() int {
	if r.Attempts < 1 {
		return 1
	}
	return r.Attempts
}

type WorkerOption func(*Worker)

func WithRetry(r Retry) WorkerOption {
	return func(w *Worker) {
		w.retry = r
	}
}

func WithLogger(l *log.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// Worker turns every AskQuestion on the bus into one RespondToQuestion.
type Worker struct {
	bus       *dispatch.Bus
	cursor    *dispatch.Cursor
	responder Responder
	retry     Retry
	logger    *log.Logger
	sleep     func(context.Context, time.Duration) error
}

// NewWorker subscribes to bus immediately.
func NewWorker(bus *dispatch.Bus, responder Responder, opts ...WorkerOption) *Worker {
	w := &Worker{
		bus:       bus,
		cursor:    bus.Subscribe(),
		responder: responder,
		retry:     DefaultRetry,
		logger:    log.Default(),
		sleep:     sleep,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run answers questions until ctx is done or the bus closes. Questions are
// answered one at a time while the bus keeps being drained.
func (w *Worker) Run(ctx context.Context) error {
	defer w.cursor.Close()

	g, ctx := errgroup.WithContext(ctx)
	asks := make(chan string, queueSize)

	g.Go(func() error {
		defer close(asks)
		return w.receive(ctx, asks)
	})
	g.Go(func() error {
		for q := range asks {
			if err := w.answer(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func (w *Worker) receive(ctx context.Context, asks chan<- string) error {
	for {
		ev, err := w.cursor.Recv(ctx)
		if err != nil {
			if missed, ok := dispatch.IsLagged(err); ok {
				w.logger.Printf("assistant: worker lagged, %d events missed", missed)
				continue
			}
			return err
		}

		ask, ok := ev.(dispatch.AskQuestion)
		if !ok {
			continue
		}
		select {
		case asks <- ask.Text:
		default:
			w.logger.Printf("assistant: queue full, dropping %q", ask.Text)
		}
	}
}

// answer asks the responder with retries and publishes the result. Giving up
// is logged only; the error return is reserved for ctx and bus closure.
func (w *Worker) answer(ctx context.Context, question string) error {
	attempts := w.retry.attempts()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := w.sleep(ctx, w.retry.Backoff(attempt)); err != nil {
				return err
			}
		}

		answer, err := w.responder.Respond(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Printf("assistant: attempt %d/%d: %v", attempt+1, attempts, err)
			continue
		}

		err = w.bus.Publish(dispatch.RespondToQuestion{Question: question, Answer: answer})
		if errors.Is(err, dispatch.ErrClosed) {
			return err
		}
		if err != nil {
			w.logger.Printf("assistant: publish: %v", err)
		}
		return nil
	}

	w.logger.Printf("assistant: giving up on %q after %d attempts", question, attempts)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
