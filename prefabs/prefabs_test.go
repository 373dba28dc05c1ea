package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/clippit/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalog(t *testing.T) {
	spec, catalog, err := LoadCatalog(CatalogFile)
	require.NoError(t, err)

	assert.Equal(t, "clippit.png", spec.SpriteSheet.Image)
	assert.Equal(t, animation.Geometry{Columns: 4, Rows: 4}, catalog.Geometry)
	assert.NotEmpty(t, catalog.Idle)
	assert.NotEmpty(t, catalog.Active)

	clip, mode, ok := catalog.Lookup("Writing")
	require.True(t, ok)
	assert.Equal(t, animation.ModeActive, mode)
	assert.Equal(t, animation.Frame{Duration: 150, Row: 3, Column: 0}, clip.Frames[0])
}

func TestParseCatalog(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "ok",
			yaml: `
sprite_sheet_info: {columns: 2, rows: 1}
animations:
  idle: [{name: I, frames: [{duration: 10, info: {column: 0, row: 0}}]}]
  action: [{name: A, frames: [{duration: 10, info: {column: 1, row: 0}}]}]
`,
		},
		{
			name: "no_action_pool",
			yaml: `
sprite_sheet_info: {columns: 2, rows: 1}
animations:
  idle: [{name: I, frames: [{duration: 10, info: {column: 0, row: 0}}]}]
`,
			want: animation.ErrEmptyPool,
		},
		{
			name: "empty_clip",
			yaml: `
sprite_sheet_info: {columns: 2, rows: 1}
animations:
  idle: [{name: I, frames: []}]
  action: [{name: A, frames: [{duration: 10, info: {column: 1, row: 0}}]}]
`,
			want: animation.ErrEmptyClip,
		},
		{
			name: "frame_off_sheet",
			yaml: `
sprite_sheet_info: {columns: 2, rows: 1}
animations:
  idle: [{name: I, frames: [{duration: 10, info: {column: 0, row: 1}}]}]
  action: [{name: A, frames: [{duration: 10, info: {column: 1, row: 0}}]}]
`,
			want: animation.ErrInvalidFrame,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, catalog, err := ParseCatalog([]byte(c.yaml))
			if c.want == nil {
				require.NoError(t, err)
				assert.Len(t, catalog.Idle, 1)
				return
			}
			assert.ErrorIs(t, err, c.want)
		})
	}

	_, _, err := ParseCatalog([]byte("animations: [not, a, map"))
	assert.Error(t, err)
}

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"assistant.tengo":                 "scripts/assistant.tengo",
		"scripts/assistant.tengo":         "scripts/assistant.tengo",
		"prefabs/scripts/assistant.tengo": "scripts/assistant.tengo",
		"":                                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}
}

func TestLoadScriptPrefersDisk(t *testing.T) {
	embedded, err := LoadScript("assistant.tengo")
	require.NoError(t, err)
	assert.Contains(t, string(embedded), "answer")

	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	require.NoError(t, os.MkdirAll(ScriptDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ScriptDir(), "assistant.tengo"), []byte(`answer := "disk"`), 0o644))

	got, err := LoadScript("assistant.tengo")
	require.NoError(t, err)
	assert.Equal(t, `answer := "disk"`, string(got))

	_, err = LoadSpec[CatalogSpec]("missing.yaml")
	assert.ErrorContains(t, err, "prefabs: load missing.yaml")
}

func TestWatcherReportsScriptWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewScriptWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "animations.yaml"), []byte("x: 1"), 0o644))
	path := filepath.Join(dir, "assistant.tengo")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`answer := "x"`), 0o644))
	}

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}

	// The burst of writes settles into a single event.
	select {
	case got := <-w.Events:
		t.Fatalf("unexpected second event for %s", got)
	case <-time.After(3 * settle):
	}
}

func TestIsScript(t *testing.T) {
	assert.True(t, IsScript("prefabs/scripts/assistant.tengo"))
	assert.True(t, IsScript("A.TENGO"))
	assert.False(t, IsScript("animations.yaml"))
	assert.False(t, IsScript("assistant.tengo.swp"))
}
