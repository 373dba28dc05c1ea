package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/clippit/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	checkSheet = ""
	previewCatalog = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return writeFile(t, "sheet.png", buf.Bytes())
}

const smallCatalog = `
sprite_sheet_info: {columns: 2, rows: 1}
animations:
  idle: [{name: Rest, frames: [{duration: 100, info: {column: 0, row: 0}}]}]
  action: [{name: Busy, frames: [{duration: 50, info: {column: 1, row: 0}}, {duration: 50, info: {column: 0, row: 0}}]}]
`

func TestCheckCommand(t *testing.T) {
	t.Run("embedded catalog and sheet", func(t *testing.T) {
		out, err := execute(t, "check")
		require.NoError(t, err)
		assert.Contains(t, out, "ok:")
		assert.Contains(t, out, "sheet 256x256, cell 64x64")
	})

	t.Run("catalog on disk against a sheet on disk", func(t *testing.T) {
		catalog := writeFile(t, "c.yaml", []byte(smallCatalog))
		out, err := execute(t, "check", catalog, "--sheet", writePNG(t, 64, 32))
		require.NoError(t, err)
		assert.Contains(t, out, "ok: 1 idle clips, 1 active clips, sheet 64x32, cell 32x32")
	})

	t.Run("sheet that does not tile", func(t *testing.T) {
		catalog := writeFile(t, "c.yaml", []byte(smallCatalog))
		_, err := execute(t, "check", catalog, "--sheet", writePNG(t, 65, 32))
		assert.ErrorIs(t, err, animation.ErrNonTilingSheet)
	})

	t.Run("sheet named by the catalog", func(t *testing.T) {
		named := strings.Replace(smallCatalog, "{columns: 2, rows: 1}", "{image: clippit.png, columns: 4, rows: 2}", 1)
		out, err := execute(t, "check", writeFile(t, "c.yaml", []byte(named)))
		require.NoError(t, err)
		assert.Contains(t, out, "sheet 256x256, cell 64x128")

		missing := strings.Replace(smallCatalog, "{columns: 2, rows: 1}", "{image: nope.png, columns: 2, rows: 1}", 1)
		_, err = execute(t, "check", writeFile(t, "c.yaml", []byte(missing)))
		assert.ErrorContains(t, err, "assets:")
	})

	t.Run("invalid catalog", func(t *testing.T) {
		catalog := writeFile(t, "c.yaml", []byte(strings.Replace(smallCatalog, "action:", "unused:", 1)))
		_, err := execute(t, "check", catalog)
		assert.ErrorIs(t, err, animation.ErrEmptyPool)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read catalog")
	})
}

func TestListCommand(t *testing.T) {
	catalog := writeFile(t, "c.yaml", []byte(smallCatalog))
	out, err := execute(t, "list", catalog)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "POOL")
	assert.Regexp(t, `^idle\s+Rest\s+1\s+100ms$`, lines[2])
	assert.Regexp(t, `^active\s+Busy\s+2\s+100ms$`, lines[3])
}

func TestPreviewUnknownClip(t *testing.T) {
	_, err := execute(t, "preview", "Nope")
	assert.ErrorContains(t, err, `no clip named "Nope"`)
}

func TestClipPlayerAdvance(t *testing.T) {
	clip := &animation.Clip{Name: "c", Frames: []animation.Frame{{Duration: 100}, {Duration: 50, Column: 1}, {Duration: 0, Column: 2}}}

	cases := []struct {
		name  string
		steps []int
		want  int
	}{
		{"holds_first_frame", []int{16, 16, 16}, 0},
		{"moves_on_after_duration", []int{100}, 1},
		{"skips_zero_duration_frame", []int{100, 50}, 0},
		{"large_step_wraps", []int{160}, 0},
		{"wraps_then_continues", []int{160, 90}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := clipPlayer{clip: clip}
			for _, dt := range c.steps {
				p.advance(dt)
			}
			assert.Equal(t, c.want, p.index)
			assert.Equal(t, &clip.Frames[c.want], p.frame())
		})
	}
}
