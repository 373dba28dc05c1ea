package main

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/assistant"
	"github.com/milk9111/clippit/config"
	"github.com/milk9111/clippit/dispatch"
	"github.com/milk9111/clippit/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(responder string) config.Config {
	cfg := config.Default()
	cfg.History.Persist = false
	cfg.RedrawInterval = 20 * time.Millisecond
	cfg.Assistant.Responder = responder
	return cfg
}

func TestAppAnswersQuestions(t *testing.T) {
	cases := []struct {
		name      string
		responder string
		want      string
	}{
		{"canned", config.ResponderCanned, assistant.DefaultAnswer},
		{"script", config.ResponderScript, "where is your god now?"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			app, err := NewApp(testConfig(c.responder), log.New(io.Discard, "", 0))
			require.NoError(t, err)
			assert.Equal(t, "clippit.png", app.SheetImage())
			app.Start(context.Background())

			require.Eventually(t, func() bool {
				return app.Snapshot().CurrentAnimation != ""
			}, 2*time.Second, 5*time.Millisecond)

			app.Publish(dispatch.QuestionTextChanged{Text: "Is it on?"})
			app.Publish(dispatch.AskQuestion{Text: "Is it on?"})

			require.Eventually(t, func() bool {
				s := app.Snapshot()
				return s.Mode == animation.ModeIdle && len(s.History) == 1
			}, 2*time.Second, 5*time.Millisecond)

			entry := app.Snapshot().History[0]
			assert.Equal(t, "Is it on?", entry.Question)
			assert.Contains(t, entry.Answer, c.want)
			assert.NoError(t, app.Err())

			require.NoError(t, app.Close())
			assert.ErrorIs(t, app.Err(), dispatch.ErrClosed)
		})
	}
}

func TestAppRejectsBadConfig(t *testing.T) {
	cfg := testConfig(config.ResponderCanned)
	cfg.BusCapacity = 0
	_, err := NewApp(cfg, log.New(io.Discard, "", 0))
	assert.ErrorIs(t, err, config.ErrInvalid)

	cfg = testConfig(config.ResponderCanned)
	cfg.Catalog = "missing.yaml"
	_, err = NewApp(cfg, log.New(io.Discard, "", 0))
	assert.ErrorContains(t, err, "prefabs: load missing.yaml")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Clippy Idle", statusLabel(animation.ModeIdle))
	assert.Equal(t, "Clippy Active", statusLabel(animation.ModeActive))
}

func TestNewestFirst(t *testing.T) {
	entries := []history.Entry{{Question: "1"}, {Question: "2"}, {Question: "3"}}
	got := newestFirst(entries)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].Question)
	assert.Equal(t, "1", got[2].Question)
	assert.Equal(t, "1", entries[0].Question)

	many := make([]history.Entry, 20)
	for i := range many {
		many[i].Question = string(rune('a' + i))
	}
	got = newestFirst(many)
	assert.Len(t, got, 8)
	assert.Equal(t, "t", got[0].Question)

	assert.Empty(t, newestFirst(nil))
}
