package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.BusCapacity)
	assert.Equal(t, 2*time.Second, cfg.RedrawInterval)
	assert.True(t, cfg.Window.AlwaysOnTop)
	assert.False(t, cfg.Window.Decorated)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
bus_capacity: 8
redraw_interval: 500ms
assistant:
  responder: script
  retry:
    attempts: 5
    initial_backoff: 1s
history:
  persist: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BusCapacity)
	assert.Equal(t, 500*time.Millisecond, cfg.RedrawInterval)
	assert.Equal(t, ResponderScript, cfg.Assistant.Responder)
	assert.Equal(t, "assistant.tengo", cfg.Assistant.Script)
	assert.Equal(t, 5, cfg.Assistant.Retry.Attempts)
	assert.Equal(t, time.Second, cfg.Assistant.Retry.InitialBackoff)
	assert.Equal(t, 4*time.Second, cfg.Assistant.Retry.MaxBackoff)
	assert.False(t, cfg.History.Persist)
	assert.Equal(t, "Clippit", cfg.Window.Title)
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero_capacity", "bus_capacity: 0"},
		{"tiny_window", "window: {width: 100}"},
		{"unknown_responder", "assistant: {responder: oracle}"},
		{"script_without_name", "assistant: {responder: script, script: ''}"},
		{"no_attempts", "assistant: {retry: {attempts: 0}}"},
		{"bad_duration", "redraw_interval: soon"},
		{"persist_without_app", "history: {app_name: ''}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("bus_capacity: -1"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, FileName, filepath.Base(DefaultPath()))
}
