package history

import (
	"context"
	"log"
	"time"

	"github.com/milk9111/clippit/dispatch"
)

// Journal appends every answer seen on the bus to a Store.
type Journal struct {
	store  *Store
	cursor *dispatch.Cursor
	now    func() time.Time
	logger *log.Logger
}

// NewJournal subscribes to bus right away, so no answer published after this
// call is missed.
func NewJournal(bus *dispatch.Bus, store *Store, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.Default()
	}
	return &Journal{
		store:  store,
		cursor: bus.Subscribe(),
		now:    time.Now,
		logger: logger,
	}
}

// Run records answers until ctx is done or the bus closes.
func (j *Journal) Run(ctx context.Context) error {
	defer j.cursor.Close()

	for {
		ev, err := j.cursor.Recv(ctx)
		if err != nil {
			if missed, ok := dispatch.IsLagged(err); ok {
				j.logger.Printf("history: journal lagged, %d events missed", missed)
				continue
			}
			return err
		}

		answer, ok := ev.(dispatch.RespondToQuestion)
		if !ok {
			continue
		}
		entry := Entry{Question: answer.Question, Answer: answer.Answer, AskedAt: j.now()}
		if err := j.store.Append(entry); err != nil {
			j.logger.Printf("history: %v", err)
		}
	}
}
